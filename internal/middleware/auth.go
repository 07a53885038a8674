package middleware

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/identity"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// RevocationChecker reports whether an access token ID has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

func JWTProtected(cfg *config.Config, revoked RevocationChecker) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: "HS256", Key: []byte(cfg.JWTSecret)},
		ContextKey: identity.TokenLocalsKey,
		SuccessHandler: func(c *fiber.Ctx) error {
			id, err := identity.FromCtx(c)
			if err != nil {
				return unauthorized(c)
			}
			if revoked != nil {
				isRevoked, err := revoked.IsRevoked(c.UserContext(), id.TokenID)
				if err != nil {
					// Revocation store outages must not lock every user out.
					slog.Warn("token revocation check failed", "error", err.Error(), "user_id", id.UserID.String())
				} else if isRevoked {
					return unauthorized(c)
				}
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: "Unauthorized: invalid or expired token",
	})
}
