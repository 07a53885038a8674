// Package identity carries the authenticated caller through a request.
package identity

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenLocalsKey is where the JWT middleware stores the parsed token.
const TokenLocalsKey = "user"

var ErrNoIdentity = errors.New("no authenticated identity in context")

// Identity is the caller behind the current request.
type Identity struct {
	UserID    uuid.UUID
	Username  string
	IsAdmin   bool
	TokenID   string
	ExpiresAt time.Time
}

// FromCtx extracts the caller from the JWT claims placed in the Fiber context.
func FromCtx(c *fiber.Ctx) (*Identity, error) {
	token, ok := c.Locals(TokenLocalsKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoIdentity
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return FromClaims(claims)
}

// FromClaims builds an Identity from access-token claims.
func FromClaims(claims jwt.MapClaims) (*Identity, error) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("missing sub claim")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.New("invalid sub claim")
	}

	id := &Identity{UserID: userID}
	id.Username, _ = claims["username"].(string)
	id.IsAdmin, _ = claims["is_admin"].(bool)
	id.TokenID, _ = claims["jti"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	return id, nil
}
