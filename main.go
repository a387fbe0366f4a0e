package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/streadway/amqp"

	"warbler/internal/app"
	"warbler/internal/config"
	"warbler/internal/database"
	"warbler/internal/services"
	"warbler/pkg/rabbitmq"
	"warbler/pkg/redisstore"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	opts := app.Options{AccessLog: true}

	// --- RabbitMQ (optional) ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		opts.Publisher = mqClient

		go func() {
			log.Println("Starting RabbitMQ consumer for activity events...")
			if err := mqClient.ConsumeActivityEvents(logActivity); err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}()
	} else {
		log.Println("RABBITMQ_URL not set, activity events are not published")
	}

	// --- Session storage (optional) ---
	if cfg.RedisURL != "" {
		storage, err := redisstore.New(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer storage.Close()
		opts.SessionStorage = storage
	}

	server := app.New(cfg, db, opts)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server gracefully stopped")
}

// logActivity writes each consumed activity event to the audit log.
func logActivity(msg amqp.Delivery) error {
	var event services.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return err
	}
	log.Printf("Activity %s: actor=%d subject=%d at=%s (routing key %s)",
		event.Kind, event.ActorID, event.SubjectID, event.At.Format(time.RFC3339), msg.RoutingKey)
	return nil
}
