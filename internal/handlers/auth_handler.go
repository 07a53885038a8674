package handlers

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/identity"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Authenticator is the account side of the API, implemented by
// services.AuthService.
type Authenticator interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, caller *identity.Identity, req *dto.LogoutRequest) error
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type AuthHandler struct {
	auth    Authenticator
	prayers *services.PrayerService
}

func NewAuthHandler(auth Authenticator, prayers *services.PrayerService) *AuthHandler {
	return &AuthHandler{auth: auth, prayers: prayers}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.auth.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.auth.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.auth.Refresh(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Logout accepts an empty body; the refresh token is optional.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	caller, err := identity.FromCtx(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.LogoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
	}

	if err := h.auth.Logout(c.UserContext(), caller, &req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Me returns the caller's account and today's record, if any.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	caller, err := identity.FromCtx(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	user, err := h.auth.GetUser(c.UserContext(), caller.UserID)
	if err != nil {
		return respondError(c, err)
	}

	record, err := h.prayers.TodayRecord(c.UserContext(), caller.UserID)
	if err != nil {
		return respondError(c, err)
	}

	resp := dto.MeResponse{User: services.ToUserResponse(user)}
	if record != nil {
		r := services.ToRecordResponse(record)
		resp.TodayRecord = &r
	}
	return c.JSON(resp)
}
