package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-issue-service/internal/api/dto"
	"github.com/spec-kit/civic-issue-service/internal/service"
)

// AnalyticsHandler serves the dashboard summary.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analyticsService}
}

// Summary GET /staff/analytics/summary.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.analytics.Summary(c.UserContext())
	if err != nil {
		return err
	}

	trends := make([]dto.CategoryTrendEntry, 0, len(summary.CategoryTrends))
	for _, bucket := range summary.CategoryTrends {
		trends = append(trends, dto.CategoryTrendEntry{Category: bucket.Category, Count: bucket.Count})
	}
	statuses := make([]dto.StatusCountEntry, 0, len(summary.StatusCounts))
	for _, bucket := range summary.StatusCounts {
		statuses = append(statuses, dto.StatusCountEntry{Status: bucket.Status, Count: bucket.Count})
	}

	return c.JSON(fiber.Map{"data": dto.AnalyticsSummaryResponse{
		AverageResolutionHours: summary.AverageResolutionHours,
		ResolvedSampleCount:    summary.ResolvedSampleCount,
		CategoryTrends:         trends,
		StatusCounts:           statuses,
	}})
}
