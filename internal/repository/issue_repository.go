package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// IssueFilter captures staff search parameters.
type IssueFilter struct {
	Statuses       []domain.IssueStatus
	Categories     []domain.IssueCategory
	Department     *domain.Department
	AssignedStaff  *string
	TrackingSearch *string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	Limit          int
	Offset         int
}

// CategoryCount is one aggregation bucket of issues per category.
type CategoryCount struct {
	Category domain.IssueCategory
	Count    int64
}

// StatusCount is one aggregation bucket of issues per status.
type StatusCount struct {
	Status domain.IssueStatus
	Count  int64
}

// ResolutionSample is the timestamp pair of one resolved issue.
type ResolutionSample struct {
	CreatedAt  time.Time
	ResolvedAt time.Time
}

// IssueRepository encapsulates issue persistence.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	Update(ctx context.Context, issue *domain.Issue) error
	GetByTrackingID(ctx context.Context, trackingID string) (*domain.Issue, error)
	ListWithFilter(ctx context.Context, filter IssueFilter) ([]domain.Issue, error)
	UnassignStaff(ctx context.Context, staffID string) error
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	ResolutionSamples(ctx context.Context) ([]ResolutionSample, error)
}

type issueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository instantiates repository.
func NewIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &issueRepository{pool: pool}
}

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	const query = `
        INSERT INTO issues (tracking_id, category, description, longitude, latitude, landmark, photo_ref, status, contact, department, assigned_staff_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		issue.TrackingID,
		issue.Category,
		issue.Description,
		issue.Location.Longitude,
		issue.Location.Latitude,
		issue.Location.Landmark,
		issue.PhotoRef,
		issue.Status,
		issue.Contact,
		issue.Department,
		issue.AssignedStaffID,
	).Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt)
}

func (r *issueRepository) Update(ctx context.Context, issue *domain.Issue) error {
	const query = `
        UPDATE issues SET category=$1, description=$2, longitude=$3, latitude=$4, landmark=$5,
            photo_ref=$6, status=$7, department=$8, assigned_staff_id=$9, resolved_at=$10, updated_at=NOW()
        WHERE id=$11
        RETURNING updated_at`
	if err := r.pool.QueryRow(ctx, query,
		issue.Category,
		issue.Description,
		issue.Location.Longitude,
		issue.Location.Latitude,
		issue.Location.Landmark,
		issue.PhotoRef,
		issue.Status,
		issue.Department,
		issue.AssignedStaffID,
		issue.ResolvedAt,
		issue.ID,
	).Scan(&issue.UpdatedAt); err != nil {
		return err
	}
	return nil
}

func (r *issueRepository) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Issue, error) {
	const query = `
        SELECT id, tracking_id, category, description, longitude, latitude, landmark, photo_ref,
               status, contact, department, assigned_staff_id, created_at, updated_at, resolved_at
        FROM issues WHERE tracking_id=$1`
	var issue domain.Issue
	if err := r.pool.QueryRow(ctx, query, trackingID).Scan(
		&issue.ID,
		&issue.TrackingID,
		&issue.Category,
		&issue.Description,
		&issue.Location.Longitude,
		&issue.Location.Latitude,
		&issue.Location.Landmark,
		&issue.PhotoRef,
		&issue.Status,
		&issue.Contact,
		&issue.Department,
		&issue.AssignedStaffID,
		&issue.CreatedAt,
		&issue.UpdatedAt,
		&issue.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *issueRepository) ListWithFilter(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	base := `SELECT id, tracking_id, category, description, longitude, latitude, landmark, photo_ref,
                    status, contact, department, assigned_staff_id, created_at, updated_at, resolved_at
             FROM issues`
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, category := range filter.Categories {
			args = append(args, category)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.AssignedStaff != nil {
		args = append(args, *filter.AssignedStaff)
		clauses = append(clauses, fmt.Sprintf("assigned_staff_id=$%d", len(args)))
	}
	if filter.TrackingSearch != nil && strings.TrimSpace(*filter.TrackingSearch) != "" {
		args = append(args, "%"+strings.TrimSpace(*filter.TrackingSearch)+"%")
		clauses = append(clauses, fmt.Sprintf("tracking_id LIKE $%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *issueRepository) UnassignStaff(ctx context.Context, staffID string) error {
	const query = `UPDATE issues SET assigned_staff_id=NULL, updated_at=NOW() WHERE assigned_staff_id=$1`
	_, err := r.pool.Exec(ctx, query, staffID)
	return err
}

func (r *issueRepository) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	const query = `SELECT category, COUNT(*) FROM issues GROUP BY category`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CategoryCount
	for rows.Next() {
		var bucket CategoryCount
		if err := rows.Scan(&bucket.Category, &bucket.Count); err != nil {
			return nil, err
		}
		result = append(result, bucket)
	}
	return result, rows.Err()
}

func (r *issueRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	const query = `SELECT status, COUNT(*) FROM issues GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StatusCount
	for rows.Next() {
		var bucket StatusCount
		if err := rows.Scan(&bucket.Status, &bucket.Count); err != nil {
			return nil, err
		}
		result = append(result, bucket)
	}
	return result, rows.Err()
}

func (r *issueRepository) ResolutionSamples(ctx context.Context) ([]ResolutionSample, error) {
	const query = `
        SELECT created_at, resolved_at FROM issues
        WHERE status=$1 AND resolved_at IS NOT NULL AND created_at IS NOT NULL`
	rows, err := r.pool.Query(ctx, query, domain.IssueStatusResolved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ResolutionSample
	for rows.Next() {
		var sample ResolutionSample
		if err := rows.Scan(&sample.CreatedAt, &sample.ResolvedAt); err != nil {
			return nil, err
		}
		result = append(result, sample)
	}
	return result, rows.Err()
}

func scanIssues(rows pgx.Rows) ([]domain.Issue, error) {
	var result []domain.Issue
	for rows.Next() {
		var issue domain.Issue
		if err := rows.Scan(
			&issue.ID,
			&issue.TrackingID,
			&issue.Category,
			&issue.Description,
			&issue.Location.Longitude,
			&issue.Location.Latitude,
			&issue.Location.Landmark,
			&issue.PhotoRef,
			&issue.Status,
			&issue.Contact,
			&issue.Department,
			&issue.AssignedStaffID,
			&issue.CreatedAt,
			&issue.UpdatedAt,
			&issue.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, issue)
	}
	return result, rows.Err()
}
