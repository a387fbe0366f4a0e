package handlers

import (
	"errors"

	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for users, profiles and follows.
type UserHandler struct {
	users   *services.UserService
	follows *services.FollowService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService, follows *services.FollowService) *UserHandler {
	return &UserHandler{users: users, follows: follows}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleList)
	userRoutes.Post("/profile", h.HandleUpdateProfile)
	userRoutes.Post("/delete", h.HandleDeleteAccount)
	userRoutes.Post("/follow/:id", h.HandleFollow)
	userRoutes.Post("/stop-following/:id", h.HandleStopFollowing)
	userRoutes.Get("/:id", h.HandleShow)
	userRoutes.Get("/:id/following", h.HandleFollowing)
	userRoutes.Get("/:id/followers", h.HandleFollowers)
	userRoutes.Get("/:id/likes", h.HandleLikes)
}

// HandleList lists users, filtered by the optional "q" query parameter.
func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	users, err := h.users.List(c.Query("q"))
	if err != nil {
		return handleError(c, err, "")
	}
	return render(c, fiber.StatusOK, fiber.Map{"users": users})
}

// HandleShow shows a user's profile with their messages and counters.
func (h *UserHandler) HandleShow(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return handleError(c, err, "")
	}
	profile, err := h.users.Profile(id)
	if err != nil {
		return handleError(c, err, "")
	}

	data := fiber.Map{
		"user":     profile.User,
		"messages": profile.Messages,
		"stats":    profile.Stats,
	}
	if viewerID := middleware.ViewerID(c); viewerID != 0 && viewerID != id {
		following, err := h.users.IsFollowing(viewerID, id)
		if err != nil {
			return handleError(c, err, "")
		}
		followedBy, err := h.users.IsFollowedBy(viewerID, id)
		if err != nil {
			return handleError(c, err, "")
		}
		data["is_following"] = following
		data["is_followed_by"] = followedBy
	}
	return render(c, fiber.StatusOK, data)
}

// HandleFollowing lists the users a user follows.
func (h *UserHandler) HandleFollowing(c *fiber.Ctx) error {
	return h.listUsers(c, "following", h.users.Following)
}

// HandleFollowers lists a user's followers.
func (h *UserHandler) HandleFollowers(c *fiber.Ctx) error {
	return h.listUsers(c, "followers", h.users.Followers)
}

func (h *UserHandler) listUsers(c *fiber.Ctx, key string, load func(viewerID, id uint) ([]models.User, error)) error {
	id, err := idParam(c)
	if err != nil {
		return handleError(c, err, "")
	}
	users, err := load(middleware.ViewerID(c), id)
	if err != nil {
		return handleError(c, err, "")
	}
	return render(c, fiber.StatusOK, fiber.Map{key: users})
}

// HandleLikes lists the messages a user has liked.
func (h *UserHandler) HandleLikes(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return handleError(c, err, "")
	}
	messages, err := h.users.Likes(middleware.ViewerID(c), id)
	if err != nil {
		return handleError(c, err, "")
	}
	return render(c, fiber.StatusOK, fiber.Map{"likes": messages})
}

// HandleFollow makes the logged-in user follow another user.
func (h *UserHandler) HandleFollow(c *fiber.Ctx) error {
	return h.changeFollow(c, h.follows.Follow)
}

// HandleStopFollowing makes the logged-in user unfollow another user.
func (h *UserHandler) HandleStopFollowing(c *fiber.Ctx) error {
	return h.changeFollow(c, h.follows.Unfollow)
}

func (h *UserHandler) changeFollow(c *fiber.Ctx, change func(viewerID, targetID uint) error) error {
	viewerID := middleware.ViewerID(c)
	if viewerID == 0 {
		return handleError(c, models.ErrUnauthorized, "")
	}
	targetID, err := idParam(c)
	if err != nil {
		return handleError(c, err, "")
	}
	if err := change(viewerID, targetID); err != nil {
		return handleError(c, err, "")
	}
	return c.Redirect(userPath(viewerID)+"/following", fiber.StatusFound)
}

// ProfileRequest represents the request body for editing a profile.
type ProfileRequest struct {
	services.ProfileUpdate
	Password string `json:"password" form:"password"`
}

// HandleUpdateProfile edits the logged-in user's profile. The current password is required.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	viewerID := middleware.ViewerID(c)
	if viewerID == 0 {
		return handleError(c, models.ErrUnauthorized, "")
	}
	var req ProfileRequest
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err, "")
	}

	_, err := h.users.UpdateProfile(viewerID, req.Password, req.ProfileUpdate)
	if errors.Is(err, models.ErrInvalidCredentials) {
		return redirectWithFlash(c, flashDanger, MsgWrongPassword, "/")
	}
	if err != nil {
		return handleError(c, err, "")
	}
	return redirectWithFlash(c, flashSuccess, MsgProfileUpdated, userPath(viewerID))
}

// HandleDeleteAccount deletes the logged-in user and everything they own, then logs out.
func (h *UserHandler) HandleDeleteAccount(c *fiber.Ctx) error {
	viewerID := middleware.ViewerID(c)
	if err := h.users.Delete(viewerID); err != nil {
		return handleError(c, err, "")
	}
	if err := middleware.Logout(c); err != nil {
		return handleError(c, err, "")
	}
	return redirectWithFlash(c, flashSuccess, MsgAccountDeleted, "/")
}
