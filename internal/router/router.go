package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/cssprep-api/internal/config"
	"github.com/noah-isme/cssprep-api/internal/handler"
	"github.com/noah-isme/cssprep-api/internal/middleware"
	"github.com/noah-isme/cssprep-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EssayHandler   *handler.EssayHandler
	AdminHandler   *handler.AdminHandler
	ProfileHandler *handler.ProfileHandler
	HealthProbes   map[string]handler.HealthProbe
	JWTMiddleware  fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	v2 := app.Group("/api/v2", jwtMiddleware)

	if deps.EssayHandler != nil {
		limit := middleware.RateLimit("essay_evaluate", cfg.Essay.RateLimit, cfg.Essay.RateLimitWindow)
		deps.EssayHandler.Register(v2.Group("/essays"), limit)
	}

	if deps.ProfileHandler != nil {
		deps.ProfileHandler.Register(v2.Group("/profile"))
	}

	if deps.AdminHandler != nil {
		deps.AdminHandler.Register(v2.Group("/admin", middleware.RequireAdmin()))
	}
}
