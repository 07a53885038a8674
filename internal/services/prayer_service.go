package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/models"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrAlreadyRecorded = errors.New("prayer already recorded for today")
	ErrStudentNotFound = errors.New("student not found")
	ErrStorage         = errors.New("storage failure")
)

// DateResolver yields today's civil date as YYYY-MM-DD.
type DateResolver interface {
	Today() string
}

type PrayerService struct {
	store PrayerStore
	dates DateResolver
}

func NewPrayerService(store PrayerStore, dates DateResolver) *PrayerService {
	return &PrayerService{store: store, dates: dates}
}

// Submit stores today's observance for userID and returns the stored record.
// All three flags must be present. A second submission on the same day fails
// with ErrAlreadyRecorded and leaves the first record untouched.
func (s *PrayerService) Submit(ctx context.Context, userID uuid.UUID, req dto.RecordPrayerRequest) (*models.PrayerRecord, error) {
	if req.SunnahFajr == nil || req.FajrJamaah == nil || req.FajrOntime == nil {
		metrics.Submissions.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: sunnah_fajr, fajr_jamaah and fajr_ontime are required booleans", ErrInvalidInput)
	}

	today, err := clock.ParseDate(s.dates.Today())
	if err != nil {
		return nil, fmt.Errorf("resolve today: %w", err)
	}

	existing, err := s.store.FindRecord(ctx, userID, today)
	if err != nil {
		metrics.Submissions.WithLabelValues("error").Inc()
		return nil, storageError("find today's record", err)
	}
	if existing != nil {
		metrics.Submissions.WithLabelValues("duplicate").Inc()
		return nil, ErrAlreadyRecorded
	}

	record := &models.PrayerRecord{
		ID:          uuid.New(),
		UserID:      userID,
		PrayerDate:  today,
		SunnahFajr:  *req.SunnahFajr,
		FajrJamaah:  *req.FajrJamaah,
		FajrOntime:  *req.FajrOntime,
		TotalPoints: Score(*req.SunnahFajr, *req.FajrJamaah, *req.FajrOntime),
	}

	// The unique index decides races between concurrent submissions.
	if err := s.store.CreateRecord(ctx, record); err != nil {
		if errors.Is(err, ErrAlreadyRecorded) {
			metrics.Submissions.WithLabelValues("duplicate").Inc()
			return nil, ErrAlreadyRecorded
		}
		metrics.Submissions.WithLabelValues("error").Inc()
		return nil, storageError("create record", err)
	}

	metrics.Submissions.WithLabelValues("created").Inc()
	metrics.PointsAwarded.Observe(float64(record.TotalPoints))
	slog.Info("prayer recorded",
		"user_id", userID.String(),
		"date", clock.FormatDate(record.PrayerDate),
		"points", record.TotalPoints,
	)
	return record, nil
}

// TodayRecord returns userID's record for today, or nil if none exists yet.
func (s *PrayerService) TodayRecord(ctx context.Context, userID uuid.UUID) (*models.PrayerRecord, error) {
	today, err := clock.ParseDate(s.dates.Today())
	if err != nil {
		return nil, fmt.Errorf("resolve today: %w", err)
	}
	record, err := s.store.FindRecord(ctx, userID, today)
	if err != nil {
		return nil, storageError("find today's record", err)
	}
	return record, nil
}

// Stats reports userID's cumulative points and rank among all users who have
// recorded at least once. Users without records get rank 0.
func (s *PrayerService) Stats(ctx context.Context, userID uuid.UUID) (*dto.StatsResponse, error) {
	standings, err := s.store.Standings(ctx)
	if err != nil {
		return nil, storageError("load standings", err)
	}

	resp := &dto.StatsResponse{TotalParticipants: len(standings)}
	for i, st := range standings {
		if st.UserID == userID {
			resp.Rank = i + 1
			resp.TotalPoints = st.TotalPoints
			break
		}
	}
	return resp, nil
}

// Leaderboard ranks every non-admin user by total points, then days recorded.
func (s *PrayerService) Leaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error) {
	summaries, err := s.store.StudentSummaries(ctx)
	if err != nil {
		return nil, storageError("load leaderboard", err)
	}

	entries := make([]dto.LeaderboardEntry, len(summaries))
	for i, sum := range summaries {
		entries[i] = dto.LeaderboardEntry{
			Rank:         i + 1,
			ID:           sum.ID,
			FullName:     sum.FullName,
			TotalPoints:  sum.TotalPoints,
			DaysRecorded: sum.DaysRecorded,
		}
	}
	return entries, nil
}

// Students is the administrator's overview: the leaderboard plus account
// details.
func (s *PrayerService) Students(ctx context.Context) ([]dto.AdminStudentEntry, error) {
	summaries, err := s.store.StudentSummaries(ctx)
	if err != nil {
		return nil, storageError("load students", err)
	}

	entries := make([]dto.AdminStudentEntry, len(summaries))
	for i, sum := range summaries {
		entries[i] = dto.AdminStudentEntry{
			Rank:         i + 1,
			ID:           sum.ID,
			Username:     sum.Username,
			FullName:     sum.FullName,
			CreatedAt:    sum.CreatedAt,
			TotalPoints:  sum.TotalPoints,
			DaysRecorded: sum.DaysRecorded,
		}
	}
	return entries, nil
}

// StudentProgress returns a student's full record history, oldest first.
func (s *PrayerService) StudentProgress(ctx context.Context, studentID uuid.UUID) (*dto.StudentProgressResponse, error) {
	student, err := s.store.FindStudent(ctx, studentID)
	if err != nil {
		return nil, storageError("find student", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	records, err := s.store.ListRecords(ctx, studentID)
	if err != nil {
		return nil, storageError("list records", err)
	}

	resp := &dto.StudentProgressResponse{
		Student:      ToUserResponse(student),
		DaysRecorded: len(records),
		Records:      make([]dto.PrayerRecordResponse, len(records)),
	}
	for i, r := range records {
		resp.Records[i] = ToRecordResponse(&r)
		resp.TotalPoints += r.TotalPoints
	}
	return resp, nil
}

func ToRecordResponse(r *models.PrayerRecord) dto.PrayerRecordResponse {
	return dto.PrayerRecordResponse{
		Date:        clock.FormatDate(r.PrayerDate),
		SunnahFajr:  r.SunnahFajr,
		FajrJamaah:  r.FajrJamaah,
		FajrOntime:  r.FajrOntime,
		TotalPoints: r.TotalPoints,
	}
}

func ToUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
