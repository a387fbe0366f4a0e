package handlers

import (
	"warbler/internal/middleware"
	"warbler/internal/services"

	"github.com/gofiber/fiber/v2"
)

// HomeHandler serves the landing page.
type HomeHandler struct {
	messages *services.MessageService
	users    *services.UserService
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(messages *services.MessageService, users *services.UserService) *HomeHandler {
	return &HomeHandler{messages: messages, users: users}
}

// RegisterRoutes registers the home route.
func (h *HomeHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleHome)
}

// HandleHome shows the viewer's timeline, or just the pending flashes for anonymous visitors.
func (h *HomeHandler) HandleHome(c *fiber.Ctx) error {
	viewerID := middleware.ViewerID(c)
	if viewerID == 0 {
		return render(c, fiber.StatusOK, nil)
	}

	timeline, err := h.messages.Timeline(viewerID)
	if err != nil {
		return handleError(c, err, "")
	}
	likedIDs, err := h.users.LikedMessageIDs(viewerID)
	if err != nil {
		return handleError(c, err, "")
	}
	return render(c, fiber.StatusOK, fiber.Map{
		"messages":  timeline,
		"liked_ids": likedIDs,
	})
}
