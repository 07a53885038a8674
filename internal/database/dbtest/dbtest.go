// Package dbtest opens throwaway in-memory SQLite databases carrying the
// service schema, for tests that need a real SQL engine behind GORM.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// schema mirrors the PostgreSQL tables AutoMigrate creates. It is written by
// hand because the models' gen_random_uuid() defaults are Postgres-only.
var schema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		full_name TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT false,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE UNIQUE INDEX idx_users_username ON users (username)`,
	`CREATE TABLE refresh_tokens (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users (id),
		token_hash TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked BOOLEAN DEFAULT false,
		revoked_at DATETIME,
		created_at DATETIME
	)`,
	`CREATE UNIQUE INDEX idx_refresh_tokens_token_hash ON refresh_tokens (token_hash)`,
	`CREATE TABLE prayer_records (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users (id),
		prayer_date DATE NOT NULL,
		sunnah_fajr BOOLEAN NOT NULL,
		fajr_jamaah BOOLEAN NOT NULL,
		fajr_ontime BOOLEAN NOT NULL,
		total_points INTEGER NOT NULL CHECK (total_points BETWEEN 0 AND 5),
		created_at DATETIME
	)`,
	`CREATE UNIQUE INDEX idx_prayer_records_user_date ON prayer_records (user_id, prayer_date)`,
}

// Open returns a fresh database that is closed when t finishes.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// One connection keeps the in-memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}
