package handlers

import (
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/identity"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PrayerHandler struct {
	prayers *services.PrayerService
}

func NewPrayerHandler(prayers *services.PrayerService) *PrayerHandler {
	return &PrayerHandler{prayers: prayers}
}

func (h *PrayerHandler) Record(c *fiber.Ctx) error {
	caller, err := identity.FromCtx(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	if !c.Is("json") {
		return invalidBody(c)
	}

	// Non-boolean flag values fail to decode here.
	var req dto.RecordPrayerRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "sunnah_fajr, fajr_jamaah and fajr_ontime must be booleans")
	}

	record, err := h.prayers.Submit(c.UserContext(), caller.UserID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.RecordPrayerResponse{
		Message: "Prayer recorded successfully",
		Points:  record.TotalPoints,
		Record:  services.ToRecordResponse(record),
	})
}

func (h *PrayerHandler) Stats(c *fiber.Ctx) error {
	caller, err := identity.FromCtx(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	stats, err := h.prayers.Stats(c.UserContext(), caller.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

func (h *PrayerHandler) Leaderboard(c *fiber.Ctx) error {
	board, err := h.prayers.Leaderboard(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(board)
}
