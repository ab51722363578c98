package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLocationRequest input for creating a user location.
type CreateLocationRequest struct {
	LocationName string           `json:"location_name"`
	Address      string           `json:"address"`
	City         string           `json:"city"`
	State        string           `json:"state"`
	Country      string           `json:"country"`
	PostalCode   string           `json:"postal_code"`
	Latitude     *decimal.Decimal `json:"latitude"`
	Longitude    *decimal.Decimal `json:"longitude"`
	LocationType string           `json:"location_type"`
	IsPrimary    bool             `json:"is_primary"`
	Phone        string           `json:"phone"`
	Email        string           `json:"email"`
	Notes        string           `json:"notes"`
}

// UpdateLocationRequest partial update; nil fields stay untouched.
type UpdateLocationRequest struct {
	LocationName *string          `json:"location_name"`
	Address      *string          `json:"address"`
	City         *string          `json:"city"`
	State        *string          `json:"state"`
	Country      *string          `json:"country"`
	PostalCode   *string          `json:"postal_code"`
	Latitude     *decimal.Decimal `json:"latitude"`
	Longitude    *decimal.Decimal `json:"longitude"`
	LocationType *string          `json:"location_type"`
	IsPrimary    *bool            `json:"is_primary"`
	Phone        *string          `json:"phone"`
	Email        *string          `json:"email"`
	Notes        *string          `json:"notes"`
}

// LocationResponse outward-facing location view.
type LocationResponse struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	LocationName string           `json:"location_name"`
	Address      string           `json:"address,omitempty"`
	City         string           `json:"city,omitempty"`
	State        string           `json:"state,omitempty"`
	Country      string           `json:"country,omitempty"`
	PostalCode   string           `json:"postal_code,omitempty"`
	Latitude     *decimal.Decimal `json:"latitude,omitempty"`
	Longitude    *decimal.Decimal `json:"longitude,omitempty"`
	LocationType string           `json:"location_type"`
	IsPrimary    bool             `json:"is_primary"`
	IsActive     bool             `json:"is_active"`
	Phone        string           `json:"phone,omitempty"`
	Email        string           `json:"email,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Owner        *OwnerResponse   `json:"user,omitempty"`
}
