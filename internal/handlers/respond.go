package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"warbler/internal/middleware"
	"warbler/internal/models"
)

// Flash categories.
const (
	flashSuccess = "success"
	flashDanger  = "danger"
)

// User-visible messages.
const (
	MsgAccessUnauthorized = "Access unauthorized."
	MsgCannotDelete       = "Cannot delete this message!"
	MsgCannotLikeOwn      = "You cannot like your own message."
	MsgInvalidCredentials = "Invalid credentials."
	MsgLoggedOut          = "You have successfully logged out."
	MsgAccountDeleted     = "Your account has been deleted."
	MsgProfileUpdated     = "Profile updated."
	MsgWrongPassword      = "Wrong password, please try again."
	MsgAlreadyTaken       = "Username or email already taken."
)

// account is the logged-in user's own record. Unlike public user views it includes the email.
type account struct {
	*models.User
	Email string `json:"email"`
}

// render writes data as JSON along with the pending flashes and the logged-in user.
func render(c *fiber.Ctx, status int, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["flashes"] = middleware.PopFlashes(c)
	if user, ok := middleware.CurrentUser(c); ok {
		data["current_user"] = account{User: user, Email: user.Email}
	}
	return c.Status(status).JSON(data)
}

func redirectWithFlash(c *fiber.Ctx, category, message, location string) error {
	middleware.AddFlash(c, category, message)
	return c.Redirect(location, fiber.StatusFound)
}

func userPath(id uint) string {
	return fmt.Sprintf("/users/%d", id)
}

// handleError turns a service error into a response. Authorization failures never
// change state; they flash a message and send the browser home. forbidden is the
// message shown when the viewer may not act on the resource.
func handleError(c *fiber.Ctx, err error, forbidden string) error {
	var validationErr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		return redirectWithFlash(c, flashDanger, MsgAccessUnauthorized, "/")
	case errors.Is(err, models.ErrForbidden):
		if forbidden == "" {
			forbidden = MsgAccessUnauthorized
		}
		return redirectWithFlash(c, flashDanger, forbidden, "/")
	case errors.As(err, &validationErr):
		return render(c, fiber.StatusBadRequest, fiber.Map{
			"message": "Validation failed",
			"errors":  validationErr.Fields,
		})
	case errors.Is(err, models.ErrConflict):
		return render(c, fiber.StatusConflict, fiber.Map{"message": MsgAlreadyTaken})
	case errors.Is(err, models.ErrNotFound):
		return render(c, fiber.StatusNotFound, fiber.Map{"message": "Not found"})
	case errors.Is(err, models.ErrInvalidCredentials):
		return render(c, fiber.StatusUnauthorized, fiber.Map{"message": MsgInvalidCredentials})
	default:
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
		return render(c, fiber.StatusInternalServerError, fiber.Map{"message": "Something went wrong"})
	}
}

func idParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: %w", c.Params("id"), models.ErrNotFound)
	}
	return uint(id), nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		log.Printf("Error parsing request body for %s: %v", c.Path(), err)
		return models.NewValidationError("body", "Invalid request body")
	}
	return nil
}
