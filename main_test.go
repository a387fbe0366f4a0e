package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/internal/app"
	"warbler/internal/config"
	"warbler/internal/database"
	"warbler/internal/services"
)

func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestServerStartupAndHealthCheck(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)

	cfg := &config.Config{
		SecretKey:      "test_jwt_secret",
		TokenTTL:       time.Hour,
		SessionTTL:     time.Hour,
		TimelineLimit:  100,
		MetricsEnabled: true,
	}
	server := app.New(cfg, db, app.Options{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		if err := server.Listener(ln); err != nil {
			log.Printf("Test server stopped: %v", err)
		}
	}()
	defer server.Shutdown()

	base := fmt.Sprintf("http://%s", ln.Addr().String())
	client := &http.Client{Timeout: 5 * time.Second}

	t.Run("HealthCheck", func(t *testing.T) {
		resp, err := client.Get(base + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("Metrics", func(t *testing.T) {
		resp, err := client.Get(base + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "warbler_http_responses_total")
	})
}

func TestLogActivity(t *testing.T) {
	body, err := json.Marshal(services.Event{ID: "e1", Kind: services.EventMessageCreated, ActorID: 1, SubjectID: 2, At: time.Now()})
	require.NoError(t, err)

	assert.NoError(t, logActivity(amqp.Delivery{Body: body, RoutingKey: services.EventMessageCreated}))
	assert.Error(t, logActivity(amqp.Delivery{Body: []byte("not json")}))
}
