package dto

import "time"

// UserResponse is the outward-facing user view: everything except password
// hash, salt, refresh token and reset fields.
type UserResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Firstname      string    `json:"firstname"`
	Lastname       string    `json:"lastname"`
	Role           string    `json:"role"`
	Manager        bool      `json:"manager"`
	OrganizationID string    `json:"organization_id"`
	UserType       string    `json:"user_type,omitempty"`
	Avatar         string    `json:"avatar,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UpdateProfileRequest partial profile update; nil fields stay untouched.
type UpdateProfileRequest struct {
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	Username  *string `json:"username"`
}

// AddUserRequest input for the manager add-user endpoint. Unlike
// self-registration it accepts explicit role and manager flags.
type AddUserRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	UserName     string `json:"userName"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
	Manager      bool   `json:"manager"`
}

// UserTypeRequest input for saving the caller's user type.
type UserTypeRequest struct {
	UserType string `json:"user_type"`
}

// UserTypeResponse output of the user-type lookup.
type UserTypeResponse struct {
	UserType string `json:"user_type"`
}
