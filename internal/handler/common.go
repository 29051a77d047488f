package handler

import (
	"errors"
	"strconv"

	"github.com/amartel/changelogd/internal/port"
	"github.com/gofiber/fiber/v3"
)

// fail maps an error to its HTTP status and writes the error response.
// Upstream host failures carry the host's status and body for reporting.
func fail(c fiber.Ctx, err error) error {
	var upstream *port.UpstreamError
	switch {
	case errors.Is(err, port.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, port.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, port.ErrRepoNotFound), errors.Is(err, port.ErrEntryNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &upstream):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":  "host API error",
			"status": upstream.Status,
			"body":   upstream.Body,
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// queryInt reads an integer query param with a default value.
func queryInt(c fiber.Ctx, key string, defaultVal int) int {
	v := c.Query(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

// queryInt64 reads an int64 query param, zero when absent or malformed.
func queryInt64(c fiber.Ctx, key string) int64 {
	n, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
