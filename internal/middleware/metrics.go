package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"warbler/internal/metrics"
)

// Metrics counts responses by status code.
func Metrics(recorder metrics.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		recorder.RecordHTTPStatus(status)
		return err
	}
}
