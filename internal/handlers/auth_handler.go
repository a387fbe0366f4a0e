package handlers

import (
	"errors"
	"fmt"

	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles signup, login, logout and API tokens.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/signup", h.HandleSignup)
	router.Post("/login", h.HandleLogin)
	router.Post("/logout", h.HandleLogout)
	router.Post("/api/token", h.HandleToken)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// HandleSignup creates an account and logs it in.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req services.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err, "")
	}

	user, err := h.authService.Signup(req)
	if err != nil {
		return handleError(c, err, "")
	}
	if err := middleware.Login(c, user.ID); err != nil {
		return handleError(c, err, "")
	}
	return redirectWithFlash(c, flashSuccess, fmt.Sprintf("Welcome, %s!", user.Username), "/")
}

func (h *AuthHandler) credentials(c *fiber.Ctx) (*models.User, error) {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	return h.authService.Authenticate(req.Username, req.Password)
}

// HandleLogin checks credentials and binds the session to the user.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	user, err := h.credentials(c)
	if err != nil {
		return handleError(c, err, "")
	}
	if err := middleware.Login(c, user.ID); err != nil {
		return handleError(c, err, "")
	}
	return redirectWithFlash(c, flashSuccess, fmt.Sprintf("Hello, %s!", user.Username), "/")
}

// HandleLogout ends the session's login.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := middleware.Logout(c); err != nil {
		return handleError(c, err, "")
	}
	return redirectWithFlash(c, flashSuccess, MsgLoggedOut, "/")
}

// HandleToken issues a bearer token for API clients.
func (h *AuthHandler) HandleToken(c *fiber.Ctx) error {
	user, err := h.credentials(c)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": MsgInvalidCredentials})
		}
		return handleError(c, err, "")
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		return handleError(c, err, "")
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}
