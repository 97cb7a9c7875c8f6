package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-intake/internal/api/http/handlers"
	"github.com/spec-kit/support-intake/internal/auth"
	apperrors "github.com/spec-kit/support-intake/pkg/util"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Config     *handlers.ConfigHandler
	Completion *handlers.CompletionHandler
	Session    *handlers.SessionHandler
	SessionMW  *auth.SessionMiddleware
	RateLimit  *RateLimiter
}

// RegisterRoutes wires HTTP routes. The config and completion endpoints
// accept every method so that a wrong one yields a JSON 405.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Get("/intake/session", cfg.Session.Issue)

	for _, path := range []string{"/get-config.php", "/api/config"} {
		app.All(path, cfg.Config.Get)
	}
	for _, path := range []string{"/generate-questions.php", "/api/generate-questions"} {
		app.All(path, allowMethod(fiber.MethodPost), cfg.RateLimit.Handle, cfg.SessionMW.Handle, cfg.Completion.Generate)
	}
}

// allowMethod rejects other methods before rate limiting and session checks run.
func allowMethod(method string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != method {
			return apperrors.NewMethodNotAllowed()
		}
		return c.Next()
	}
}
