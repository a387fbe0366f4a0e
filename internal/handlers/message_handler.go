package handlers

import (
	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/services"

	"github.com/gofiber/fiber/v2"
)

// MessageHandler handles HTTP requests for messages and likes.
type MessageHandler struct {
	messages *services.MessageService
	likes    *services.LikeService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messages *services.MessageService, likes *services.LikeService) *MessageHandler {
	return &MessageHandler{messages: messages, likes: likes}
}

// RegisterRoutes registers the message routes with the Fiber app.
func (h *MessageHandler) RegisterRoutes(router fiber.Router) {
	messageRoutes := router.Group("/messages")
	messageRoutes.Post("/new", h.HandleCreate)
	messageRoutes.Get("/:id", h.HandleShow)
	messageRoutes.Post("/:id/delete", h.HandleDelete)
	messageRoutes.Post("/:id/like", h.HandleLike)
}

// MessageRequest represents the request body for posting a message.
type MessageRequest struct {
	Text string `json:"text" form:"text"`
}

// HandleCreate posts a message as the logged-in user.
func (h *MessageHandler) HandleCreate(c *fiber.Ctx) error {
	viewerID := middleware.ViewerID(c)
	if viewerID == 0 {
		return handleError(c, models.ErrUnauthorized, "")
	}
	var req MessageRequest
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err, "")
	}
	if _, err := h.messages.Create(viewerID, req.Text); err != nil {
		return handleError(c, err, "")
	}
	return c.Redirect(userPath(viewerID), fiber.StatusFound)
}

// HandleShow shows a single message.
func (h *MessageHandler) HandleShow(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return handleError(c, err, "")
	}
	message, err := h.messages.Get(id)
	if err != nil {
		return handleError(c, err, "")
	}
	return render(c, fiber.StatusOK, fiber.Map{"message": message})
}

// HandleDelete deletes a message owned by the logged-in user.
func (h *MessageHandler) HandleDelete(c *fiber.Ctx) error {
	viewerID := middleware.ViewerID(c)
	id, err := idParam(c)
	if err != nil {
		return handleError(c, err, "")
	}
	if err := h.messages.Delete(viewerID, id); err != nil {
		return handleError(c, err, MsgCannotDelete)
	}
	return c.Redirect(userPath(viewerID), fiber.StatusFound)
}

// HandleLike toggles the logged-in user's like on a message.
func (h *MessageHandler) HandleLike(c *fiber.Ctx) error {
	viewerID := middleware.ViewerID(c)
	id, err := idParam(c)
	if err != nil {
		return handleError(c, err, "")
	}
	if _, err := h.likes.Toggle(viewerID, id); err != nil {
		return handleError(c, err, MsgCannotLikeOwn)
	}
	return c.Redirect("/", fiber.StatusFound)
}
