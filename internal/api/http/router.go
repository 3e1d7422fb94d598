package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/civic-issue-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Issues      *handlers.IssuesHandler
	Staff       *handlers.StaffHandler
	Analytics   *handlers.AnalyticsHandler
	RedisClient *redis.Client
	IntakeLimit int
	Logger      *zap.Logger
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	issues := app.Group("/issues")
	issues.Post("", IntakeRateLimiter(cfg.RedisClient, cfg.IntakeLimit, cfg.Logger), cfg.Issues.CreateIssue)
	issues.Get("/:trackingId", cfg.Issues.TrackIssue)

	staff := app.Group("/staff")
	staff.Get("/issues", cfg.Staff.ListIssues)
	staff.Patch("/issues/:trackingId/status", cfg.Staff.UpdateStatus)
	staff.Patch("/issues/:trackingId/assignee", cfg.Staff.AssignStaff)
	staff.Get("/issues/:trackingId/history", cfg.Staff.IssueHistory)
	staff.Get("/members", cfg.Staff.ListMembers)
	staff.Post("/members", cfg.Staff.CreateMember)
	staff.Delete("/members/:id", cfg.Staff.DeleteMember)
	staff.Get("/analytics/summary", cfg.Analytics.Summary)
}
