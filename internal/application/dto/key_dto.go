package dto

import "time"

// CreateKeyRequest input for saving an API key record.
type CreateKeyRequest struct {
	Key         string     `json:"key"`
	KeyType     string     `json:"key_type"`
	Description string     `json:"description"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// UpdateKeyRequest partial update; nil fields stay untouched.
type UpdateKeyRequest struct {
	Key         *string    `json:"key"`
	KeyType     *string    `json:"key_type"`
	Description *string    `json:"description"`
	IsActive    *bool      `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// KeyResponse outward-facing key view.
type KeyResponse struct {
	ID          string         `json:"id"`
	Key         string         `json:"key"`
	UserID      string         `json:"user_id"`
	KeyType     string         `json:"key_type"`
	Description string         `json:"description,omitempty"`
	IsActive    bool           `json:"is_active"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	LastUsedAt  *time.Time     `json:"last_used_at,omitempty"`
	UsageCount  int            `json:"usage_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Owner       *OwnerResponse `json:"user,omitempty"`
}

// OwnerResponse is the owner projection embedded in manager listings.
type OwnerResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}
