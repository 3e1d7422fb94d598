package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/events"
	"github.com/spec-kit/civic-issue-service/internal/repository"
)

func duplicateKeyErr() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "idx_issues_tracking_id"}
}

// fakeIssueRepo is an in-memory IssueRepository.
type fakeIssueRepo struct {
	mu         sync.Mutex
	byID       map[string]domain.Issue
	order      []string // insertion order of issue ids
	nextSeq    int
	createErrs []error // popped one per Create call before normal handling
	failWith   error   // every call fails when set
}

func newFakeIssueRepo() *fakeIssueRepo {
	return &fakeIssueRepo{byID: map[string]domain.Issue{}}
}

func (f *fakeIssueRepo) Create(ctx context.Context, issue *domain.Issue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range f.byID {
		if existing.TrackingID == issue.TrackingID {
			return duplicateKeyErr()
		}
	}
	f.nextSeq++
	issue.ID = "issue-" + strconv.Itoa(f.nextSeq)
	now := time.Now()
	issue.CreatedAt = now
	issue.UpdatedAt = now
	f.byID[issue.ID] = *issue
	f.order = append(f.order, issue.ID)
	return nil
}

func (f *fakeIssueRepo) Update(ctx context.Context, issue *domain.Issue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.byID[issue.ID]; !ok {
		return pgx.ErrNoRows
	}
	issue.UpdatedAt = time.Now()
	f.byID[issue.ID] = *issue
	return nil
}

func (f *fakeIssueRepo) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, issue := range f.byID {
		if issue.TrackingID == trackingID {
			copied := issue
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeIssueRepo) ListWithFilter(ctx context.Context, filter repository.IssueFilter) ([]domain.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var result []domain.Issue
	for _, issue := range f.byID {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, issue.Status) {
			continue
		}
		result = append(result, issue)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeIssueRepo) UnassignStaff(ctx context.Context, staffID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	for id, issue := range f.byID {
		if issue.AssignedStaffID != nil && *issue.AssignedStaffID == staffID {
			issue.AssignedStaffID = nil
			f.byID[id] = issue
		}
	}
	return nil
}

func (f *fakeIssueRepo) CountByCategory(ctx context.Context) ([]repository.CategoryCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	counts := map[domain.IssueCategory]int64{}
	var order []domain.IssueCategory
	for _, issue := range f.sortedByInsertion() {
		if _, seen := counts[issue.Category]; !seen {
			order = append(order, issue.Category)
		}
		counts[issue.Category]++
	}
	result := make([]repository.CategoryCount, 0, len(order))
	for _, category := range order {
		result = append(result, repository.CategoryCount{Category: category, Count: counts[category]})
	}
	return result, nil
}

func (f *fakeIssueRepo) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	counts := map[domain.IssueStatus]int64{}
	for _, issue := range f.byID {
		counts[issue.Status]++
	}
	result := make([]repository.StatusCount, 0, len(counts))
	for status, count := range counts {
		result = append(result, repository.StatusCount{Status: status, Count: count})
	}
	return result, nil
}

func (f *fakeIssueRepo) ResolutionSamples(ctx context.Context) ([]repository.ResolutionSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var result []repository.ResolutionSample
	for _, issue := range f.sortedByInsertion() {
		if issue.Status != domain.IssueStatusResolved || issue.ResolvedAt == nil {
			continue
		}
		result = append(result, repository.ResolutionSample{
			CreatedAt:  issue.CreatedAt,
			ResolvedAt: *issue.ResolvedAt,
		})
	}
	return result, nil
}

func (f *fakeIssueRepo) sortedByInsertion() []domain.Issue {
	result := make([]domain.Issue, 0, len(f.order))
	for _, id := range f.order {
		result = append(result, f.byID[id])
	}
	return result
}

func (f *fakeIssueRepo) seed(issue domain.Issue) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextSeq++
	if issue.ID == "" {
		issue.ID = "issue-" + strconv.Itoa(f.nextSeq)
	}
	f.byID[issue.ID] = issue
	f.order = append(f.order, issue.ID)
}

func containsStatus(statuses []domain.IssueStatus, status domain.IssueStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

// fakeStaffRepo is an in-memory StaffRepository.
type fakeStaffRepo struct {
	mu      sync.Mutex
	byID    map[string]domain.StaffMember
	nextSeq int
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{byID: map[string]domain.StaffMember{}}
}

func (f *fakeStaffRepo) Create(ctx context.Context, staff *domain.StaffMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == staff.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_staff_members_email"}
		}
	}
	f.nextSeq++
	staff.ID = "staff-" + strconv.Itoa(f.nextSeq)
	now := time.Now()
	staff.CreatedAt = now
	staff.UpdatedAt = now
	f.byID[staff.ID] = *staff
	return nil
}

func (f *fakeStaffRepo) Update(ctx context.Context, staff *domain.StaffMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[staff.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.byID[staff.ID] = *staff
	return nil
}

func (f *fakeStaffRepo) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	staff, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := staff
	return &copied, nil
}

func (f *fakeStaffRepo) GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, staff := range f.byID {
		if staff.Email == email {
			copied := staff
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffRepo) List(ctx context.Context, filter repository.StaffFilter) ([]domain.StaffMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.StaffMember
	for _, staff := range f.byID {
		if filter.Department != nil && staff.Department != *filter.Department {
			continue
		}
		result = append(result, staff)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (f *fakeStaffRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeStaffRepo) seed(staff domain.StaffMember) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextSeq++
	if staff.ID == "" {
		staff.ID = "staff-" + strconv.Itoa(f.nextSeq)
	}
	f.byID[staff.ID] = staff
	return staff.ID
}

// fakeHistoryRepo records audit entries in memory.
type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.IssueHistory
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{}
}

func (f *fakeHistoryRepo) Create(ctx context.Context, history *domain.IssueHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	history.ID = "history-" + strconv.Itoa(len(f.entries)+1)
	history.CreatedAt = time.Now()
	f.entries = append(f.entries, *history)
	return nil
}

func (f *fakeHistoryRepo) ListByIssue(ctx context.Context, issueID string) ([]domain.IssueHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.IssueHistory
	for _, entry := range f.entries {
		if entry.IssueID == issueID {
			result = append(result, entry)
		}
	}
	return result, nil
}

// captureDispatcher records published events.
type captureDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *captureDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *captureDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *captureDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}
