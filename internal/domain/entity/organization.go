package entity

import "time"

// Organization statuses.
const (
	OrgStatusActive    = "active"
	OrgStatusInactive  = "inactive"
	OrgStatusSuspended = "suspended"
)

// Organization is the tenant unit. Registration creates one lazily per new
// user; the admin creation endpoint enforces name uniqueness.
type Organization struct {
	ID          string
	Name        string
	Description string
	Address     string
	Phone       string
	Email       string
	Website     string
	Status      string // active, inactive, suspended
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
