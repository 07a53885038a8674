package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
)

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg})
}

// respondError maps service errors to HTTP responses. Anything unrecognized,
// including storage failures, is logged and returned as an opaque 500.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAlreadyRecorded):
		return errorJSON(c, fiber.StatusConflict, "Prayer already recorded for today")
	case errors.Is(err, services.ErrUsernameTaken):
		return errorJSON(c, fiber.StatusConflict, "Username already exists")
	case errors.Is(err, services.ErrStudentNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Student not found")
	case errors.Is(err, services.ErrUserNotFound):
		return errorJSON(c, fiber.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return errorJSON(c, fiber.StatusUnauthorized, err.Error())
	}

	slog.Error("request failed",
		"action", c.Method()+" "+c.Route().Path,
		"request_id", requestID(c),
		"error", err.Error(),
	)
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

func invalidBody(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
}
