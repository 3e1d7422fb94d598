package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/events"
	"github.com/spec-kit/civic-issue-service/internal/repository"
	"github.com/spec-kit/civic-issue-service/internal/tracking"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

// defaultTrackingIDAttempts bounds insert retries on tracking-id collisions.
const defaultTrackingIDAttempts = 5

// IssueService coordinates the report lifecycle: intake, status transitions
// and staff assignment.
type IssueService struct {
	issues     repository.IssueRepository
	staff      repository.StaffRepository
	history    repository.IssueHistoryRepository
	generator  *tracking.Generator
	dispatcher events.Dispatcher
	idAttempts int
}

// IssueDependencies bundles collaborators for the issue service.
type IssueDependencies struct {
	IssueRepo          repository.IssueRepository
	StaffRepo          repository.StaffRepository
	HistoryRepo        repository.IssueHistoryRepository
	Generator          *tracking.Generator
	Dispatcher         events.Dispatcher
	TrackingIDAttempts int
}

// IssueCreateInput describes a citizen report submission. Coordinates are
// pointers so missing values are distinguishable from zero.
type IssueCreateInput struct {
	Category    domain.IssueCategory
	Description string
	Longitude   *float64
	Latitude    *float64
	Landmark    *string
	PhotoRef    *string
	Contact     string
}

// IssueListFilter describes staff listing filters.
type IssueListFilter struct {
	Statuses       []domain.IssueStatus
	Categories     []domain.IssueCategory
	Department     *domain.Department
	TrackingSearch *string
	Limit          int
	Offset         int
}

// NewIssueService constructs the service.
func NewIssueService(deps IssueDependencies) *IssueService {
	attempts := deps.TrackingIDAttempts
	if attempts <= 0 {
		attempts = defaultTrackingIDAttempts
	}
	generator := deps.Generator
	if generator == nil {
		generator = tracking.NewDefaultGenerator()
	}
	return &IssueService{
		issues:     deps.IssueRepo,
		staff:      deps.StaffRepo,
		history:    deps.HistoryRepo,
		generator:  generator,
		dispatcher: deps.Dispatcher,
		idAttempts: attempts,
	}
}

// Create validates a report, routes it to a department, mints a tracking id
// and persists the issue as PENDING. Tracking-id collisions are retried with
// fresh draws up to the configured bound.
func (s *IssueService) Create(ctx context.Context, input IssueCreateInput) (*domain.Issue, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	issue := &domain.Issue{
		Category:    input.Category,
		Description: strings.TrimSpace(input.Description),
		Location: domain.Location{
			Longitude: *input.Longitude,
			Latitude:  *input.Latitude,
			Landmark:  input.Landmark,
		},
		PhotoRef:   input.PhotoRef,
		Status:     domain.IssueStatusPending,
		Contact:    strings.TrimSpace(input.Contact),
		Department: domain.RouteDepartment(input.Category),
	}

	inserted := false
	for attempt := 0; attempt < s.idAttempts; attempt++ {
		issue.TrackingID = s.generator.Generate()
		err := s.issues.Create(ctx, issue)
		if err == nil {
			inserted = true
			break
		}
		if apperrors.IsDuplicateKey(err) {
			continue
		}
		return nil, apperrors.MapError(err)
	}
	if !inserted {
		return nil, apperrors.NewStoreUnavailable(errors.New("tracking id space exhausted after retries"))
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventIssueCreated,
		IssueID:    issue.ID,
		TrackingID: issue.TrackingID,
		Contact:    issue.Contact,
		Payload: events.IssueCreatedPayload{
			Category:   issue.Category,
			Department: issue.Department,
		},
	})
	return issue, nil
}

// UpdateStatus moves an issue through the lifecycle table. Transitioning to
// RESOLVED stamps resolved_at exactly once; RESOLVED is terminal.
func (s *IssueService) UpdateStatus(ctx context.Context, trackingID string, next domain.IssueStatus) (*domain.Issue, error) {
	if !domain.ValidStatus(next) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": next})
	}

	issue, err := s.getByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(issue.Status, next) {
		return nil, apperrors.NewValidationError("invalid status transition", map[string]any{
			"current": issue.Status,
			"next":    next,
		})
	}

	oldStatus := issue.Status
	issue.Status = next
	if next == domain.IssueStatusResolved && issue.ResolvedAt == nil {
		now := time.Now()
		issue.ResolvedAt = &now
	}
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordStatusChange(ctx, issue.ID, oldStatus, next)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventIssueStatusChanged,
		IssueID:    issue.ID,
		TrackingID: issue.TrackingID,
		Contact:    issue.Contact,
		Payload: events.IssueStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: next,
		},
	})
	return issue, nil
}

// AssignStaff attaches an existing, active staff member to an issue and
// returns both for display.
func (s *IssueService) AssignStaff(ctx context.Context, trackingID, staffID string) (*domain.Issue, *domain.StaffMember, error) {
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": staffID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	if !staff.Active {
		return nil, nil, apperrors.NewConflict("staff member inactive", map[string]any{"staff_id": staffID})
	}

	issue, err := s.getByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, nil, err
	}

	oldAssignee := issue.AssignedStaffID
	issue.AssignedStaffID = &staff.ID
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	s.recordAssigneeChange(ctx, issue.ID, oldAssignee, issue.AssignedStaffID)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventIssueAssigned,
		IssueID:    issue.ID,
		TrackingID: issue.TrackingID,
		Contact:    issue.Contact,
		Payload: events.IssueAssignedPayload{
			StaffID:    staff.ID,
			StaffName:  staff.Name,
			Department: staff.Department,
		},
	})
	return issue, staff, nil
}

// Track is the citizen-facing read-only lookup by tracking id.
func (s *IssueService) Track(ctx context.Context, trackingID string) (*domain.Issue, error) {
	return s.getByTrackingID(ctx, trackingID)
}

// List returns issues for the staff dashboard, newest first.
func (s *IssueService) List(ctx context.Context, filter IssueListFilter) ([]domain.Issue, error) {
	issues, err := s.issues.ListWithFilter(ctx, repository.IssueFilter{
		Statuses:       filter.Statuses,
		Categories:     filter.Categories,
		Department:     filter.Department,
		TrackingSearch: filter.TrackingSearch,
		Limit:          filter.Limit,
		Offset:         filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}

// History returns the audit trail for an issue.
func (s *IssueService) History(ctx context.Context, trackingID string) ([]domain.IssueHistory, error) {
	if s.history == nil {
		return []domain.IssueHistory{}, nil
	}
	issue, err := s.getByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	entries, err := s.history.ListByIssue(ctx, issue.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *IssueService) getByTrackingID(ctx context.Context, trackingID string) (*domain.Issue, error) {
	issue, err := s.issues.GetByTrackingID(ctx, trackingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue", map[string]any{"tracking_id": trackingID})
		}
		return nil, apperrors.MapError(err)
	}
	return issue, nil
}

func validateCreateInput(input IssueCreateInput) error {
	missing := []string{}
	if input.Category == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(input.Description) == "" {
		missing = append(missing, "description")
	}
	if input.Longitude == nil {
		missing = append(missing, "longitude")
	}
	if input.Latitude == nil {
		missing = append(missing, "latitude")
	}
	if strings.TrimSpace(input.Contact) == "" {
		missing = append(missing, "contact")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}
	if *input.Longitude < -180 || *input.Longitude > 180 {
		return apperrors.NewValidationError("longitude out of range", map[string]any{"longitude": *input.Longitude})
	}
	if *input.Latitude < -90 || *input.Latitude > 90 {
		return apperrors.NewValidationError("latitude out of range", map[string]any{"latitude": *input.Latitude})
	}
	return nil
}

// recordStatusChange and recordAssigneeChange keep the audit trail; the trail
// is advisory so write failures do not fail the mutation.
func (s *IssueService) recordStatusChange(ctx context.Context, issueID string, oldStatus, newStatus domain.IssueStatus) {
	if s.history == nil {
		return
	}
	_ = s.history.Create(ctx, &domain.IssueHistory{
		IssueID:    issueID,
		ChangeType: domain.ChangeTypeStatus,
		OldValue:   map[string]any{"status": oldStatus},
		NewValue:   map[string]any{"status": newStatus},
	})
}

func (s *IssueService) recordAssigneeChange(ctx context.Context, issueID string, oldAssignee, newAssignee *string) {
	if s.history == nil {
		return
	}
	_ = s.history.Create(ctx, &domain.IssueHistory{
		IssueID:    issueID,
		ChangeType: domain.ChangeTypeAssignee,
		OldValue:   map[string]any{"assigned_staff_id": oldAssignee},
		NewValue:   map[string]any{"assigned_staff_id": newAssignee},
	})
}

func (s *IssueService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
