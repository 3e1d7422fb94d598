package events

import (
	"time"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueCreated       EventType = "issue_created"
	EventIssueStatusChanged EventType = "issue_status_changed"
	EventIssueAssigned      EventType = "issue_assigned"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	IssueID    string      `json:"issue_id"`
	TrackingID string      `json:"tracking_id"`
	Contact    string      `json:"contact"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// IssueCreatedPayload payload.
type IssueCreatedPayload struct {
	Category   domain.IssueCategory `json:"category"`
	Department domain.Department    `json:"department"`
}

// IssueStatusChangedPayload payload.
type IssueStatusChangedPayload struct {
	OldStatus domain.IssueStatus `json:"old_status"`
	NewStatus domain.IssueStatus `json:"new_status"`
}

// IssueAssignedPayload payload.
type IssueAssignedPayload struct {
	StaffID    string            `json:"staff_id"`
	StaffName  string            `json:"staff_name"`
	Department domain.Department `json:"department"`
}
