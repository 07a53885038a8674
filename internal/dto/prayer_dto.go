package dto

import (
	"time"

	"github.com/google/uuid"
)

// RecordPrayerRequest uses pointers so a missing flag is distinguishable
// from an explicit false.
type RecordPrayerRequest struct {
	SunnahFajr *bool `json:"sunnah_fajr"`
	FajrJamaah *bool `json:"fajr_jamaah"`
	FajrOntime *bool `json:"fajr_ontime"`
}

type PrayerRecordResponse struct {
	Date        string `json:"date"`
	SunnahFajr  bool   `json:"sunnah_fajr"`
	FajrJamaah  bool   `json:"fajr_jamaah"`
	FajrOntime  bool   `json:"fajr_ontime"`
	TotalPoints int    `json:"total_points"`
}

type RecordPrayerResponse struct {
	Message string               `json:"message"`
	Points  int                  `json:"points"`
	Record  PrayerRecordResponse `json:"record"`
}

// StatsResponse reports a user's standing. Rank 0 means the user has no
// records and is not ranked.
type StatsResponse struct {
	TotalPoints       int `json:"total_points"`
	Rank              int `json:"rank"`
	TotalParticipants int `json:"total_participants"`
}

type LeaderboardEntry struct {
	Rank         int       `json:"rank"`
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	TotalPoints  int       `json:"total_points"`
	DaysRecorded int       `json:"days_recorded"`
}

type AdminStudentEntry struct {
	Rank         int       `json:"rank"`
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	CreatedAt    time.Time `json:"created_at"`
	TotalPoints  int       `json:"total_points"`
	DaysRecorded int       `json:"days_recorded"`
}

type StudentProgressResponse struct {
	Student      UserResponse           `json:"student"`
	TotalPoints  int                    `json:"total_points"`
	DaysRecorded int                    `json:"days_recorded"`
	Records      []PrayerRecordResponse `json:"records"`
}
