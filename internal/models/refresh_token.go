package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a single-use refresh credential. Only the SHA-256 of the
// token is stored. Refresh marks the row revoked and stamps RevokedAt when it
// rotates the pair; logout does the same for the caller's token.
type RefreshToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash string     `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expires_at"`
	Revoked   bool       `gorm:"not null;default:false" json:"revoked"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
