package domain

import "time"

// StaffMember models a municipal employee who handles assigned issues.
// PasswordHash is an opaque one-way credential; plaintext is never stored.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Department   Department
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
