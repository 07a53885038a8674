package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// Pinger checks a dependency's reachability.
type Pinger func(ctx context.Context) error

// StatusReporter describes an optional dependency's state in one string.
type StatusReporter interface {
	Status(ctx context.Context) string
}

type HealthHandler struct {
	pingDB Pinger
	redis  StatusReporter
}

func NewHealthHandler(pingDB Pinger, redis StatusReporter) *HealthHandler {
	return &HealthHandler{pingDB: pingDB, redis: redis}
}

// Check answers 200 even when a dependency is down; the body reports which.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "ok"
	dbStatus := "ok"
	if err := h.pingDB(ctx); err != nil {
		dbStatus = "unhealthy: " + err.Error()
		status = "degraded"
	}

	return c.JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Redis:     h.redis.Status(ctx),
	})
}
