package dto

import (
	"time"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// CreateIssueRequest payload for citizen submissions.
type CreateIssueRequest struct {
	Category    domain.IssueCategory `json:"category"`
	Description string               `json:"description"`
	Longitude   *float64             `json:"longitude"`
	Latitude    *float64             `json:"latitude"`
	Landmark    *string              `json:"landmark"`
	PhotoRef    *string              `json:"photo_ref"`
	Contact     string               `json:"contact"`
}

// CreateIssueResponse returns the citizen-facing tracking id.
type CreateIssueResponse struct {
	TrackingID string             `json:"tracking_id"`
	Status     domain.IssueStatus `json:"status"`
	Department domain.Department  `json:"department"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.IssueStatus `json:"status"`
}

// AssignStaffRequest payload.
type AssignStaffRequest struct {
	StaffID string `json:"staff_id"`
}

// LocationResponse mirrors the stored point.
type LocationResponse struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Landmark  *string `json:"landmark,omitempty"`
}

// IssueResponse provides the full issue record.
type IssueResponse struct {
	TrackingID      string               `json:"tracking_id"`
	Category        domain.IssueCategory `json:"category"`
	Description     string               `json:"description"`
	Location        LocationResponse     `json:"location"`
	PhotoRef        *string              `json:"photo_ref,omitempty"`
	Status          domain.IssueStatus   `json:"status"`
	Department      domain.Department    `json:"department"`
	AssignedStaffID *string              `json:"assigned_staff_id,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	ResolvedAt      *time.Time           `json:"resolved_at,omitempty"`
}

// AssignmentResponse pairs the updated issue with the assignee details.
type AssignmentResponse struct {
	Issue IssueResponse        `json:"issue"`
	Staff StaffSummaryResponse `json:"staff"`
}

// IssueHistoryResponse is one audit trail entry.
type IssueHistoryResponse struct {
	ID         string                 `json:"id"`
	ChangeType domain.IssueChangeType `json:"change_type"`
	OldValue   map[string]any         `json:"old_value"`
	NewValue   map[string]any         `json:"new_value"`
	CreatedAt  time.Time              `json:"created_at"`
}
