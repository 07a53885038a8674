package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return db, nil
}

// Migrate creates or updates every table, including the per-day uniqueness
// index on prayer_records.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.PrayerRecord{},
		&models.SystemLog{},
	)
}

// SeedAdmin inserts the administrator account unless the username already
// exists. An empty password skips seeding.
func SeedAdmin(db *gorm.DB, username, password, fullName string) error {
	username = models.NormalizeUsername(username)
	if username == "" || password == "" {
		slog.Warn("admin seeding skipped: ADMIN_USERNAME or ADMIN_PASSWORD not set")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		FullName:     fullName,
		IsAdmin:      true,
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(&admin)
	if result.Error != nil {
		return fmt.Errorf("failed to seed admin: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		slog.Info("admin account created", "username", username)
	}
	return nil
}

// PurgeExpiredRefreshTokens deletes refresh tokens past their expiry; they
// can no longer be redeemed whether or not they were revoked.
func PurgeExpiredRefreshTokens(db *gorm.DB) (int64, error) {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge refresh tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
