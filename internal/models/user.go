package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// User is a student or administrator account. Accounts are never mutated by
// the prayer core; it only reads the ID and admin flag.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username     string    `gorm:"size:100;not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	IsAdmin      bool      `gorm:"not null;default:false;index" json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeUsername is the canonical form stored in and looked up from
// users.username: trimmed and NFC-composed, so composed and decomposed
// spellings of one name collide on the unique index.
func NormalizeUsername(username string) string {
	return norm.NFC.String(strings.TrimSpace(username))
}
