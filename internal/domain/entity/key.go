package entity

import "time"

// Key types.
const (
	KeyTypeAgency  = "agency"
	KeyTypeAPI     = "api"
	KeyTypeService = "service"
	KeyTypeOther   = "other"
)

// Key is an API key record owned by a user. The (key, user) pair is unique.
type Key struct {
	ID          string
	Key         string
	UserID      string
	KeyType     string // agency, api, service, other
	Description string
	IsActive    bool
	ExpiresAt   *time.Time
	LastUsedAt  *time.Time
	UsageCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
