package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// APIError is the error body of an API response.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse writes a standard error body.
func ErrorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success":   false,
		"error":     APIError{Code: status, Message: message},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
