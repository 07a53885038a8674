package middleware

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminLookup confirms a user's admin flag from storage.
type AdminLookup interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// AdminRequired must run after JWTProtected. The token's is_admin claim is
// not trusted on its own; the flag is re-read so a demoted account loses
// access immediately.
func AdminRequired(lookup AdminLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := identity.FromCtx(c)
		if err != nil {
			return unauthorized(c)
		}

		isAdmin, err := lookup.IsAdmin(c.UserContext(), id.UserID)
		if err != nil {
			slog.Error("admin lookup failed", "error", err.Error(), "user_id", id.UserID.String())
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: "Internal server error",
			})
		}
		if !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: "Admin access required",
			})
		}
		return c.Next()
	}
}
