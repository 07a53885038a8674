package logging

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartCleanup schedules a daily purge of system_logs older than
// retentionDays. Stop the returned scheduler on shutdown.
func StartCleanup(db *gorm.DB, retentionDays int) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := c.AddFunc("@daily", func() { PurgeSystemLogs(db, retentionDays) }); err != nil {
		return nil, fmt.Errorf("schedule log cleanup: %w", err)
	}
	c.Start()
	return c, nil
}

func PurgeSystemLogs(db *gorm.DB, retentionDays int) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "error", result.Error)
	} else if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected)
	}
}
