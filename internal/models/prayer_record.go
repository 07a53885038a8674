package models

import (
	"time"

	"github.com/google/uuid"
)

// PrayerRecord is one user's Fajr observance for one Bahrain-local day.
// Rows are append-only; (user_id, prayer_date) is unique.
type PrayerRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_prayer_records_user_date;index" json:"user_id"`
	PrayerDate  time.Time `gorm:"type:date;not null;uniqueIndex:idx_prayer_records_user_date;index" json:"prayer_date"`
	SunnahFajr  bool      `gorm:"not null" json:"sunnah_fajr"`
	FajrJamaah  bool      `gorm:"not null" json:"fajr_jamaah"`
	FajrOntime  bool      `gorm:"not null" json:"fajr_ontime"`
	TotalPoints int       `gorm:"not null;check:chk_prayer_records_total_points,total_points BETWEEN 0 AND 5" json:"total_points"`
	CreatedAt   time.Time `json:"created_at"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
}
