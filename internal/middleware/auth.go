// Package middleware provides session, authentication and metrics middleware.
package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"warbler/internal/models"
)

const currentUserLocals = "current_user"

// UserFinder loads users by ID.
type UserFinder interface {
	GetByID(id uint) (*models.User, error)
}

// TokenVerifier extracts the user ID from a bearer token.
type TokenVerifier interface {
	UserIDFromToken(token string) (uint, error)
}

// Authenticate resolves the logged-in user for this request from the session or, failing
// that, an "Authorization: Bearer <token>" header. Requests without a valid user continue
// anonymously; handlers and services decide what anonymous callers may do.
func Authenticate(users UserFinder, tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := SessionUserID(c)
		fromSession := userID != 0

		if !fromSession {
			if token, ok := bearerToken(c.Get(fiber.HeaderAuthorization)); ok && tokens != nil {
				id, err := tokens.UserIDFromToken(token)
				if err != nil {
					log.Printf("Bearer token rejected: %v", err)
				}
				userID = id
			}
		}

		if userID != 0 {
			user, err := users.GetByID(userID)
			switch {
			case err == nil:
				c.Locals(currentUserLocals, user)
			case errors.Is(err, models.ErrNotFound):
				// The account was deleted while the session was alive.
				if fromSession {
					if err := Logout(c); err != nil {
						log.Printf("Failed to clear stale session: %v", err)
					}
				}
			default:
				return err
			}
		}
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// CurrentUser returns the logged-in user, if any.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(currentUserLocals).(*models.User)
	return user, ok && user != nil
}

// ViewerID returns the logged-in user's ID, or 0 for anonymous requests.
func ViewerID(c *fiber.Ctx) uint {
	if user, ok := CurrentUser(c); ok {
		return user.ID
	}
	return 0
}
