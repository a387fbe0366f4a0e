// Package app assembles the HTTP application from its repositories, services and handlers.
package app

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"warbler/internal/config"
	"warbler/internal/handlers"
	"warbler/internal/metrics"
	"warbler/internal/middleware"
	"warbler/internal/repositories"
	"warbler/internal/services"
)

// SessionCookie is the name of the cookie carrying the session ID.
const SessionCookie = "session_id"

// Options carries the optional collaborators of the application.
type Options struct {
	// Publisher receives activity events. Nil disables publishing.
	Publisher services.EventPublisher
	// SessionStorage keeps server-side sessions. Nil means in-process memory.
	SessionStorage fiber.Storage
	// Registry collects metrics. Nil means a fresh registry.
	Registry *prometheus.Registry
	// AccessLog enables per-request logging.
	AccessLog bool
}

// New wires the application on top of db.
func New(cfg *config.Config, db *gorm.DB, opts Options) *fiber.App {
	var recorder metrics.Recorder = metrics.Nop{}
	registry := opts.Registry
	if cfg.MetricsEnabled {
		if registry == nil {
			registry = prometheus.NewRegistry()
		}
		recorder = metrics.NewCollector(registry)
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	messageRepo := repositories.NewGORMMessageRepository(db)
	followRepo := repositories.NewGORMFollowRepository(db)
	likeRepo := repositories.NewGORMLikeRepository(db)

	// --- Services ---
	activity := services.NewActivity(opts.Publisher, recorder)
	authService := services.NewAuthService(userRepo, cfg.SecretKey, cfg.TokenTTL, activity)
	userService := services.NewUserService(userRepo, messageRepo, followRepo, likeRepo, authService, activity)
	messageService := services.NewMessageService(messageRepo, followRepo, activity, cfg.TimelineLimit)
	followService := services.NewFollowService(userRepo, followRepo, activity)
	likeService := services.NewLikeService(messageRepo, likeRepo, activity, cfg.LikesAllowOwn)

	// --- Fiber app and middleware ---
	app := fiber.New()
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(middleware.Metrics(recorder))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	if cfg.MetricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	store := middleware.NewSessionStore(session.Config{
		Expiration:     cfg.SessionTTL,
		Storage:        opts.SessionStorage,
		KeyLookup:      "cookie:" + SessionCookie,
		CookieSecure:   cfg.SessionCookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		KeyGenerator:   uuid.NewString,
	})
	site := app.Group("", middleware.Session(store), middleware.Authenticate(userRepo, authService))

	// --- Routes ---
	handlers.NewHomeHandler(messageService, userService).RegisterRoutes(site)
	handlers.NewAuthHandler(authService).RegisterRoutes(site)
	handlers.NewUserHandler(userService, followService).RegisterRoutes(site)
	handlers.NewMessageHandler(messageService, likeService).RegisterRoutes(site)

	return app
}
