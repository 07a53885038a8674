package services

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/identity"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PrayerStore is the persistence boundary of the prayer core.
//
// CreateRecord must enforce (user_id, prayer_date) uniqueness itself and
// report a violation as ErrAlreadyRecorded. Lookups return nil, nil when
// nothing matches.
type PrayerStore interface {
	FindRecord(ctx context.Context, userID uuid.UUID, date time.Time) (*models.PrayerRecord, error)
	CreateRecord(ctx context.Context, record *models.PrayerRecord) error
	ListRecords(ctx context.Context, userID uuid.UUID) ([]models.PrayerRecord, error)

	// Standings lists every user with at least one record, ordered by
	// total points DESC, days recorded DESC, user id ASC.
	Standings(ctx context.Context) ([]Standing, error)

	// StudentSummaries lists every non-admin user, including those without
	// records, ordered by total points DESC, days recorded DESC, full name
	// ASC, id ASC.
	StudentSummaries(ctx context.Context) ([]StudentSummary, error)

	FindStudent(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type Standing struct {
	UserID       uuid.UUID
	TotalPoints  int
	DaysRecorded int
}

type StudentSummary struct {
	ID           uuid.UUID
	Username     string
	FullName     string
	CreatedAt    time.Time
	TotalPoints  int
	DaysRecorded int
}

// GormPrayerStore implements PrayerStore on PostgreSQL.
type GormPrayerStore struct {
	db *gorm.DB
}

func NewGormPrayerStore(db *gorm.DB) *GormPrayerStore {
	return &GormPrayerStore{db: db}
}

func (s *GormPrayerStore) FindRecord(ctx context.Context, userID uuid.UUID, date time.Time) (*models.PrayerRecord, error) {
	var record models.PrayerRecord
	err := s.db.WithContext(ctx).
		Scopes(identity.ForUser(userID)).
		Where("prayer_date = ?", date).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *GormPrayerStore) CreateRecord(ctx context.Context, record *models.PrayerRecord) error {
	err := s.db.WithContext(ctx).Create(record).Error
	if isUniqueViolation(err) {
		return ErrAlreadyRecorded
	}
	return err
}

func (s *GormPrayerStore) ListRecords(ctx context.Context, userID uuid.UUID) ([]models.PrayerRecord, error) {
	var records []models.PrayerRecord
	err := s.db.WithContext(ctx).
		Scopes(identity.ForUser(userID)).
		Order("prayer_date ASC").
		Find(&records).Error
	return records, err
}

func (s *GormPrayerStore) Standings(ctx context.Context) ([]Standing, error) {
	var rows []Standing
	err := s.db.WithContext(ctx).
		Model(&models.PrayerRecord{}).
		Select("user_id, COALESCE(SUM(total_points), 0) AS total_points, COUNT(id) AS days_recorded").
		Group("user_id").
		Order("COALESCE(SUM(total_points), 0) DESC, COUNT(id) DESC, user_id ASC").
		Scan(&rows).Error
	return rows, err
}

func (s *GormPrayerStore) StudentSummaries(ctx context.Context) ([]StudentSummary, error) {
	var rows []StudentSummary
	err := s.db.WithContext(ctx).
		Table("users AS u").
		Select("u.id, u.username, u.full_name, u.created_at, " +
			"COALESCE(SUM(r.total_points), 0) AS total_points, COUNT(r.id) AS days_recorded").
		Joins("LEFT JOIN prayer_records r ON r.user_id = u.id").
		Where("u.is_admin = ?", false).
		Group("u.id, u.username, u.full_name, u.created_at").
		Order("COALESCE(SUM(r.total_points), 0) DESC, COUNT(r.id) DESC, u.full_name ASC, u.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (s *GormPrayerStore) FindStudent(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_admin = ?", id, false).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// isUniqueViolation detects SQLSTATE 23505, whether or not GORM has
// translated it.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
