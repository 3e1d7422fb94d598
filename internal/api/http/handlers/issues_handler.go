package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-issue-service/internal/api/dto"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/service"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

// IssuesHandler manages citizen-facing endpoints.
type IssuesHandler struct {
	service *service.IssueService
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issueService *service.IssueService) *IssuesHandler {
	return &IssuesHandler{service: issueService}
}

// CreateIssue POST /issues.
func (h *IssuesHandler) CreateIssue(c *fiber.Ctx) error {
	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	issue, err := h.service.Create(c.UserContext(), service.IssueCreateInput{
		Category:    req.Category,
		Description: req.Description,
		Longitude:   req.Longitude,
		Latitude:    req.Latitude,
		Landmark:    req.Landmark,
		PhotoRef:    req.PhotoRef,
		Contact:     req.Contact,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CreateIssueResponse{
		TrackingID: issue.TrackingID,
		Status:     issue.Status,
		Department: issue.Department,
	}})
}

// TrackIssue GET /issues/:trackingId.
func (h *IssuesHandler) TrackIssue(c *fiber.Ctx) error {
	issue, err := h.service.Track(c.UserContext(), c.Params("trackingId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueResponse(issue)})
}

func issueResponse(issue *domain.Issue) dto.IssueResponse {
	return dto.IssueResponse{
		TrackingID:  issue.TrackingID,
		Category:    issue.Category,
		Description: issue.Description,
		Location: dto.LocationResponse{
			Longitude: issue.Location.Longitude,
			Latitude:  issue.Location.Latitude,
			Landmark:  issue.Location.Landmark,
		},
		PhotoRef:        issue.PhotoRef,
		Status:          issue.Status,
		Department:      issue.Department,
		AssignedStaffID: issue.AssignedStaffID,
		CreatedAt:       issue.CreatedAt,
		UpdatedAt:       issue.UpdatedAt,
		ResolvedAt:      issue.ResolvedAt,
	}
}
