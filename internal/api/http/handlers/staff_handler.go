package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-issue-service/internal/api/dto"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/service"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

// StaffHandler manages the triage-desk endpoints.
type StaffHandler struct {
	issues *service.IssueService
	staff  *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(issueService *service.IssueService, staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{issues: issueService, staff: staffService}
}

// ListIssues GET /staff/issues.
func (h *StaffHandler) ListIssues(c *fiber.Ctx) error {
	filter := parseIssueQuery(c)
	issues, err := h.issues.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.IssueResponse, 0, len(issues))
	for i := range issues {
		items = append(items, issueResponse(&issues[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateStatus PATCH /staff/issues/:trackingId/status.
func (h *StaffHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	issue, err := h.issues.UpdateStatus(c.UserContext(), c.Params("trackingId"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueResponse(issue)})
}

// AssignStaff PATCH /staff/issues/:trackingId/assignee.
func (h *StaffHandler) AssignStaff(c *fiber.Ctx) error {
	var req dto.AssignStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.StaffID) == "" {
		return apperrors.NewValidationError("staff_id required", nil)
	}
	issue, member, err := h.issues.AssignStaff(c.UserContext(), c.Params("trackingId"), req.StaffID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AssignmentResponse{
		Issue: issueResponse(issue),
		Staff: staffSummary(member),
	}})
}

// IssueHistory GET /staff/issues/:trackingId/history.
func (h *StaffHandler) IssueHistory(c *fiber.Ctx) error {
	entries, err := h.issues.History(c.UserContext(), c.Params("trackingId"))
	if err != nil {
		return err
	}
	items := make([]dto.IssueHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.IssueHistoryResponse{
			ID:         entry.ID,
			ChangeType: entry.ChangeType,
			OldValue:   entry.OldValue,
			NewValue:   entry.NewValue,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListMembers GET /staff/members.
func (h *StaffHandler) ListMembers(c *fiber.Ctx) error {
	var department *domain.Department
	if deptStr := c.Query("department"); deptStr != "" {
		dept := domain.Department(deptStr)
		department = &dept
	}
	page := parseQueryInt(c.Query("page"), 1)
	pageSize := parseQueryInt(c.Query("page_size"), 50)

	members, err := h.staff.List(c.UserContext(), department, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.StaffSummaryResponse, 0, len(members))
	for i := range members {
		items = append(items, staffSummary(&members[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateMember POST /staff/members.
func (h *StaffHandler) CreateMember(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.staff.Create(c.UserContext(), service.StaffCreateInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": staffSummary(member)})
}

// DeleteMember DELETE /staff/members/:id.
func (h *StaffHandler) DeleteMember(c *fiber.Ctx) error {
	if err := h.staff.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseIssueQuery(c *fiber.Ctx) service.IssueListFilter {
	filter := service.IssueListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.IssueStatus(strings.TrimSpace(part)))
		}
	}
	if categoryStr := c.Query("category"); categoryStr != "" {
		for _, part := range strings.Split(categoryStr, ",") {
			filter.Categories = append(filter.Categories, domain.IssueCategory(strings.TrimSpace(part)))
		}
	}
	if deptStr := c.Query("department"); deptStr != "" {
		dept := domain.Department(deptStr)
		filter.Department = &dept
	}
	if search := c.Query("tracking_id"); search != "" {
		filter.TrackingSearch = &search
	}
	page := parseQueryInt(c.Query("page"), 1)
	pageSize := parseQueryInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseQueryInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func staffSummary(member *domain.StaffMember) dto.StaffSummaryResponse {
	return dto.StaffSummaryResponse{
		ID:         member.ID,
		Name:       member.Name,
		Email:      member.Email,
		Department: member.Department,
		Active:     member.Active,
		CreatedAt:  member.CreatedAt,
	}
}
