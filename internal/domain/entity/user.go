package entity

import "time"

// Roles for User. New registrations default to RoleUser.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a registered identity scoped to an Organization.
// PasswordHash and PasswordSalt never leave the persistence layer; every
// outward-facing view goes through an identity projection (dto.UserResponse).
type User struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   string // bcrypt hash; verification always re-derives and compares
	PasswordSalt   string // bcrypt salt prefix, persisted alongside the hash
	Firstname      string
	Lastname       string
	Role           string // admin, user
	Manager        bool   // capability flag, independent of Role
	OrganizationID string
	UserType       string
	Avatar         string

	// RefreshToken holds the single live session credential: set on login,
	// cleared on logout. One slot per user, so a concurrent login silently
	// invalidates the previous session (one-active-session-per-credential).
	RefreshToken string

	// ResetToken and ResetTokenExpiresAt are set and cleared together. A new
	// reset request overwrites any unredeemed prior pair.
	ResetToken          string
	ResetTokenExpiresAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasLiveResetToken reports whether the reset pair is set and unexpired at now.
func (u *User) HasLiveResetToken(now time.Time) bool {
	return u.ResetToken != "" && now.Before(u.ResetTokenExpiresAt)
}
