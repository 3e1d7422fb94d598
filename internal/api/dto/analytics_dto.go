package dto

import "github.com/spec-kit/civic-issue-service/internal/domain"

// CategoryTrendEntry is one bucket of the category distribution.
type CategoryTrendEntry struct {
	Category domain.IssueCategory `json:"category"`
	Count    int64                `json:"count"`
}

// StatusCountEntry is one bucket of the status distribution.
type StatusCountEntry struct {
	Status domain.IssueStatus `json:"status"`
	Count  int64              `json:"count"`
}

// AnalyticsSummaryResponse is the dashboard aggregate.
type AnalyticsSummaryResponse struct {
	AverageResolutionHours float64              `json:"average_resolution_hours"`
	ResolvedSampleCount    int                  `json:"resolved_sample_count"`
	CategoryTrends         []CategoryTrendEntry `json:"category_trends"`
	StatusCounts           []StatusCountEntry   `json:"status_counts"`
}
