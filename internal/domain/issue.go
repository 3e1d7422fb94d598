package domain

import "time"

// IssueStatus enumerates lifecycle states for reported issues.
type IssueStatus string

const (
	IssueStatusPending      IssueStatus = "PENDING"
	IssueStatusAcknowledged IssueStatus = "ACKNOWLEDGED"
	IssueStatusInProgress   IssueStatus = "IN_PROGRESS"
	IssueStatusResolved     IssueStatus = "RESOLVED"
)

// ValidStatus reports whether the value belongs to the status enumeration.
func ValidStatus(status IssueStatus) bool {
	switch status {
	case IssueStatusPending, IssueStatusAcknowledged, IssueStatusInProgress, IssueStatusResolved:
		return true
	}
	return false
}

// IssueCategory enumerates the report categories citizens can pick.
type IssueCategory string

const (
	CategoryPothole           IssueCategory = "POTHOLE"
	CategoryGarbageOverflow   IssueCategory = "GARBAGE_OVERFLOW"
	CategoryStreetlightOutage IssueCategory = "STREETLIGHT_OUTAGE"
	CategoryWaterLeakage      IssueCategory = "WATER_LEAKAGE"
	CategoryOther             IssueCategory = "OTHER"
)

// ValidCategory reports whether the value belongs to the category enumeration.
func ValidCategory(category IssueCategory) bool {
	switch category {
	case CategoryPothole, CategoryGarbageOverflow, CategoryStreetlightOutage, CategoryWaterLeakage, CategoryOther:
		return true
	}
	return false
}

// Location is the reported geospatial point plus an optional landmark hint.
type Location struct {
	Longitude float64
	Latitude  float64
	Landmark  *string
}

// Issue is the aggregate for citizen reports. TrackingID is the citizen-facing
// key and never changes after creation.
type Issue struct {
	ID              string
	TrackingID      string
	Category        IssueCategory
	Description     string
	Location        Location
	PhotoRef        *string
	Status          IssueStatus
	Contact         string
	Department      Department
	AssignedStaffID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ResolvedAt      *time.Time
}

// allowedTransitions is the forward-only lifecycle table. Staff may skip
// forward (e.g. resolve directly from PENDING) but never move back, and
// RESOLVED is terminal.
var allowedTransitions = map[IssueStatus][]IssueStatus{
	IssueStatusPending:      {IssueStatusAcknowledged, IssueStatusInProgress, IssueStatusResolved},
	IssueStatusAcknowledged: {IssueStatusInProgress, IssueStatusResolved},
	IssueStatusInProgress:   {IssueStatusResolved},
	IssueStatusResolved:     {},
}

// CanTransition reports whether the lifecycle permits moving current to next.
func CanTransition(current, next IssueStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
