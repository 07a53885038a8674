package middleware

import (
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics records request counts and latencies per route pattern, so
// /api/admin/students/:id/progress is one series regardless of the id.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		path := c.Route().Path
		method := c.Method()
		metrics.RequestCount.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		metrics.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return err
	}
}
