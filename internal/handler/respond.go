package handler

import (
	"errors"

	"go-tindahan-pos/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helper to parse a UUID path parameter
func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// respondError maps application error kinds onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	status := 500
	switch appErr.Kind {
	case apperr.KindValidation:
		status = 400
	case apperr.KindReference:
		status = 404
	case apperr.KindConflict:
		status = 409
	case apperr.KindConsistency:
		status = 422
	}

	body := fiber.Map{"error": appErr.Message}
	if appErr.Field != "" {
		body["field"] = appErr.Field
	}
	return c.Status(status).JSON(body)
}
