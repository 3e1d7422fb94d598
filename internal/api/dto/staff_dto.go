package dto

import (
	"time"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// CreateStaffRequest payload for provisioning.
type CreateStaffRequest struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Password   string            `json:"password"`
	Department domain.Department `json:"department"`
}

// StaffSummaryResponse omits the credential hash.
type StaffSummaryResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Department domain.Department `json:"department"`
	Active     bool              `json:"active"`
	CreatedAt  time.Time         `json:"created_at"`
}
