package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/civic-issue-service/internal/auth"
	"github.com/spec-kit/civic-issue-service/internal/config"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/repository"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

// StaffService manages municipal staff provisioning.
type StaffService struct {
	staff      repository.StaffRepository
	issues     repository.IssueRepository
	bcryptCost int
}

// StaffCreateInput describes a provisioning request.
type StaffCreateInput struct {
	Name       string
	Email      string
	Password   string
	Department domain.Department
}

// NewStaffService constructs the service.
func NewStaffService(cfg config.StaffConfig, staff repository.StaffRepository, issues repository.IssueRepository) *StaffService {
	return &StaffService{
		staff:      staff,
		issues:     issues,
		bcryptCost: cfg.BcryptCost,
	}
}

// Create provisions a staff member. The password is hashed before it ever
// reaches the store.
func (s *StaffService) Create(ctx context.Context, input StaffCreateInput) (*domain.StaffMember, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email, password required", nil)
	}
	if !domain.ValidDepartment(input.Department) {
		return nil, apperrors.NewValidationError("unknown department", map[string]any{"department": input.Department})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	member := &domain.StaffMember{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Department:   input.Department,
		Active:       true,
	}
	if err := s.staff.Create(ctx, member); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, apperrors.NewDuplicateKey("staff email", map[string]any{"email": member.Email})
		}
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// Get fetches a staff member by id.
func (s *StaffService) Get(ctx context.Context, id string) (*domain.StaffMember, error) {
	member, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// List returns staff members, optionally per department.
func (s *StaffService) List(ctx context.Context, department *domain.Department, limit, offset int) ([]domain.StaffMember, error) {
	members, err := s.staff.List(ctx, repository.StaffFilter{
		Department: department,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return members, nil
}

// Delete removes a staff member. Issues referencing them are unassigned first
// so no dangling reference survives.
func (s *StaffService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.issues.UnassignStaff(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	if err := s.staff.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("staff", map[string]any{"staff_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// VerifyCredentials compares a candidate password against the stored hash.
// One-way only; the hash never leaves the service layer in clear form.
func (s *StaffService) VerifyCredentials(ctx context.Context, email, password string) (*domain.StaffMember, error) {
	member, err := s.staff.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(member.PasswordHash, password); err != nil {
		return nil, apperrors.NewValidationError("invalid credentials", nil)
	}
	return member, nil
}
