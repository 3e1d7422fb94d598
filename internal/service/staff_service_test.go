package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/civic-issue-service/internal/config"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

func newTestStaffService(staff *fakeStaffRepo, issues *fakeIssueRepo) *StaffService {
	return NewStaffService(config.StaffConfig{BcryptCost: bcrypt.MinCost}, staff, issues)
}

func TestCreateStaffHashesPassword(t *testing.T) {
	svc := newTestStaffService(newFakeStaffRepo(), newFakeIssueRepo())

	member, err := svc.Create(context.Background(), StaffCreateInput{
		Name:       "Asha Rao",
		Email:      "Asha@City.gov",
		Password:   "correct horse battery staple",
		Department: domain.DepartmentPublicWorks,
	})
	require.NoError(t, err)

	assert.Equal(t, "asha@city.gov", member.Email)
	assert.NotEqual(t, "correct horse battery staple", member.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte("correct horse battery staple")))
}

func TestCreateStaffDuplicateEmail(t *testing.T) {
	svc := newTestStaffService(newFakeStaffRepo(), newFakeIssueRepo())

	input := StaffCreateInput{
		Name:       "Asha Rao",
		Email:      "asha@city.gov",
		Password:   "pw",
		Department: domain.DepartmentPublicWorks,
	}
	_, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), input)
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_KEY", domainErr.Code)
}

func TestCreateStaffUnknownDepartment(t *testing.T) {
	svc := newTestStaffService(newFakeStaffRepo(), newFakeIssueRepo())

	_, err := svc.Create(context.Background(), StaffCreateInput{
		Name:       "Asha Rao",
		Email:      "asha@city.gov",
		Password:   "pw",
		Department: "Parks and Recreation",
	})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestDeleteStaffUnassignsIssues(t *testing.T) {
	staff := newFakeStaffRepo()
	issues := newFakeIssueRepo()
	staffSvc := newTestStaffService(staff, issues)
	issueSvc := newTestService(issues, staff, newFakeHistoryRepo(), &captureDispatcher{})

	staffID := staff.seed(domain.StaffMember{
		Name:       "Asha Rao",
		Email:      "asha@city.gov",
		Department: domain.DepartmentPublicWorks,
		Active:     true,
	})

	created, err := issueSvc.Create(context.Background(), validInput())
	require.NoError(t, err)
	_, _, err = issueSvc.AssignStaff(context.Background(), created.TrackingID, staffID)
	require.NoError(t, err)

	require.NoError(t, staffSvc.Delete(context.Background(), staffID))

	tracked, err := issueSvc.Track(context.Background(), created.TrackingID)
	require.NoError(t, err)
	assert.Nil(t, tracked.AssignedStaffID, "staff deletion must clear assignment")

	_, err = staffSvc.Get(context.Background(), staffID)
	require.Error(t, err)
}

func TestDeleteStaffNotFound(t *testing.T) {
	svc := newTestStaffService(newFakeStaffRepo(), newFakeIssueRepo())

	err := svc.Delete(context.Background(), "staff-missing")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestVerifyCredentials(t *testing.T) {
	staff := newFakeStaffRepo()
	svc := newTestStaffService(staff, newFakeIssueRepo())

	_, err := svc.Create(context.Background(), StaffCreateInput{
		Name:       "Asha Rao",
		Email:      "asha@city.gov",
		Password:   "s3cret",
		Department: domain.DepartmentWaterSupply,
	})
	require.NoError(t, err)

	member, err := svc.VerifyCredentials(context.Background(), "asha@city.gov", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", member.Name)

	_, err = svc.VerifyCredentials(context.Background(), "asha@city.gov", "wrong")
	require.Error(t, err)
}
