package service

import (
	"context"
	"sort"

	"github.com/spec-kit/civic-issue-service/internal/repository"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

// AnalyticsSummary is the dashboard aggregate over the full issue collection.
type AnalyticsSummary struct {
	AverageResolutionHours float64
	ResolvedSampleCount    int
	CategoryTrends         []repository.CategoryCount
	StatusCounts           []repository.StatusCount
}

// AnalyticsService folds store aggregates into the dashboard summary.
type AnalyticsService struct {
	issues repository.IssueRepository
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(issues repository.IssueRepository) *AnalyticsService {
	return &AnalyticsService{issues: issues}
}

// Summary computes the dashboard aggregate. Read-only; any store failure
// propagates whole, never partial results.
func (s *AnalyticsService) Summary(ctx context.Context) (*AnalyticsSummary, error) {
	samples, err := s.issues.ResolutionSamples(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	categories, err := s.issues.CountByCategory(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	statuses, err := s.issues.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	summary := &AnalyticsSummary{
		CategoryTrends: sortTrends(categories),
		StatusCounts:   statuses,
	}

	// Only resolved issues with a valid timestamp pair qualify; the rest are
	// excluded from numerator and denominator alike. No qualifiers means 0,
	// not NaN.
	var totalHours float64
	qualifying := 0
	for _, sample := range samples {
		if sample.ResolvedAt.IsZero() || sample.CreatedAt.IsZero() {
			continue
		}
		if sample.ResolvedAt.Before(sample.CreatedAt) {
			continue
		}
		totalHours += sample.ResolvedAt.Sub(sample.CreatedAt).Hours()
		qualifying++
	}
	if qualifying > 0 {
		summary.AverageResolutionHours = totalHours / float64(qualifying)
	}
	summary.ResolvedSampleCount = qualifying

	return summary, nil
}

// sortTrends orders buckets by count descending. The sort is stable so equal
// counts keep the store's grouping arrival order.
func sortTrends(buckets []repository.CategoryCount) []repository.CategoryCount {
	sorted := append([]repository.CategoryCount{}, buckets...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	return sorted
}
