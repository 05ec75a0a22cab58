package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/medreview-console/internal/api/http/handlers"
	"github.com/spec-kit/medreview-console/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Reviews        *handlers.ReviewsHandler
	Accounts       *handlers.AccountsHandler
	Doctors        *handlers.DoctorsHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.ChangePassword)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle)

	reviews := admin.Group("/reviews", auth.RequireReviewManager())
	reviews.Get("/", cfg.Reviews.ListReviews)
	reviews.Patch("/:id/status", cfg.Reviews.SetStatus)
	reviews.Post("/bulk-status", cfg.Reviews.BulkSetStatus)
	reviews.Delete("/:id", cfg.Reviews.DeleteReview)

	users := admin.Group("/users", auth.RequireUserManager())
	users.Get("/", cfg.Accounts.ListAccounts)
	users.Get("/stats", cfg.Accounts.Stats)
	users.Post("/", cfg.Accounts.CreateAccount)
	users.Patch("/:id/status", cfg.Accounts.SetStatus)
	users.Patch("/:id/role", cfg.Accounts.ChangeRole)
	users.Delete("/:id", cfg.Accounts.DeleteAccount)

	doctors := admin.Group("/doctors", auth.RequireAuthenticated())
	doctors.Get("/", cfg.Doctors.ListDoctors)
	doctors.Post("/", auth.RequireUserManager(), cfg.Doctors.CreateDoctor)
	doctors.Patch("/:id", auth.RequireUserManager(), cfg.Doctors.UpdateDoctor)
	doctors.Delete("/:id", auth.RequireUserManager(), cfg.Doctors.DeleteDoctor)

	analytics := admin.Group("/analytics", auth.RequireAuthenticated())
	analytics.Get("/", cfg.Analytics.GetReport)
	analytics.Get("/export", cfg.Analytics.ExportCSV)
}
