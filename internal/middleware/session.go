package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	// CurrUserKey is the session attribute holding the logged-in user's ID.
	CurrUserKey = "curr_user"

	flashesKey    = "_flashes"
	sessionLocals = "session"
)

// Flash is a one-time message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// NewSessionStore returns a session store for the given config, registering the types
// kept in sessions with the encoder.
func NewSessionStore(cfg session.Config) *session.Store {
	store := session.New(cfg)
	store.RegisterType([]Flash{})
	return store
}

// Session loads the request's session once, exposes it to later handlers and saves it
// after the handler chain when it carries any data.
func Session(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			log.Printf("Failed to load session: %v", err)
			return fiber.ErrInternalServerError
		}
		c.Locals(sessionLocals, sess)

		chainErr := c.Next()

		// Anonymous requests that never touched the session do not get a cookie.
		if sess.Fresh() && len(sess.Keys()) == 0 {
			return chainErr
		}
		if err := sess.Save(); err != nil {
			log.Printf("Failed to save session: %v", err)
			if chainErr == nil {
				chainErr = fiber.ErrInternalServerError
			}
		}
		return chainErr
	}
}

func currentSession(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(sessionLocals).(*session.Session)
	return sess
}

// Login binds the session to userID under a fresh session ID.
func Login(c *fiber.Ctx, userID uint) error {
	sess := currentSession(c)
	if sess == nil {
		return fiber.ErrInternalServerError
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(CurrUserKey, userID)
	return nil
}

// Logout unbinds the session from its user and drops flashes queued for them.
// Flashes added after Logout are shown on the next page.
func Logout(c *fiber.Ctx) error {
	sess := currentSession(c)
	if sess == nil {
		return nil
	}
	sess.Delete(CurrUserKey)
	sess.Delete(flashesKey)
	return sess.Regenerate()
}

// SessionUserID returns the user ID stored in the session, or 0.
func SessionUserID(c *fiber.Ctx) uint {
	sess := currentSession(c)
	if sess == nil {
		return 0
	}
	id, _ := sess.Get(CurrUserKey).(uint)
	return id
}

// AddFlash queues a message for the next rendered page.
func AddFlash(c *fiber.Ctx, category, message string) {
	sess := currentSession(c)
	if sess == nil {
		return
	}
	flashes, _ := sess.Get(flashesKey).([]Flash)
	sess.Set(flashesKey, append(flashes, Flash{Category: category, Message: message}))
}

// PopFlashes returns and clears the queued messages.
func PopFlashes(c *fiber.Ctx) []Flash {
	sess := currentSession(c)
	if sess == nil {
		return []Flash{}
	}
	flashes, _ := sess.Get(flashesKey).([]Flash)
	if len(flashes) == 0 {
		return []Flash{}
	}
	sess.Delete(flashesKey)
	return flashes
}
