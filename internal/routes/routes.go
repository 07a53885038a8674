package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	Prayer *handlers.PrayerHandler
	Admin  *handlers.AdminHandler
	Health *handlers.HealthHandler
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	revoked middleware.RevocationChecker,
	admins middleware.AdminLookup,
	h Handlers,
) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	// JWT is attached per route so the public routes above stay public.
	jwt := middleware.JWTProtected(cfg, revoked)
	api.Post("/auth/logout", jwt, h.Auth.Logout)
	api.Get("/me", jwt, h.Auth.Me)

	api.Post("/prayers", jwt, h.Prayer.Record)
	api.Get("/prayers/stats", jwt, h.Prayer.Stats)
	api.Get("/leaderboard", jwt, h.Prayer.Leaderboard)

	admin := api.Group("/admin", jwt, middleware.AdminRequired(admins))
	admin.Get("/students", h.Admin.Students)
	admin.Get("/students/:id/progress", h.Admin.StudentProgress)

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}
}
