package handlers

import (
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	prayers *services.PrayerService
}

func NewAdminHandler(prayers *services.PrayerService) *AdminHandler {
	return &AdminHandler{prayers: prayers}
}

func (h *AdminHandler) Students(c *fiber.Ctx) error {
	students, err := h.prayers.Students(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(students)
}

func (h *AdminHandler) StudentProgress(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid student ID")
	}

	progress, err := h.prayers.StudentProgress(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(progress)
}
