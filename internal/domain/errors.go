package domain

import "errors"

// Domain errors (no external dependencies). Handlers map these to HTTP status
// codes at the boundary.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicate          = errors.New("duplicate resource")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("access denied")
	ErrConflict           = errors.New("conflict with current state")

	// Token verification failures stay distinct even though the HTTP boundary
	// currently returns 401 for all three.
	ErrMissingToken = errors.New("access token is required")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrResetTokenInvalid covers both an unknown and an expired reset token
	// so the response shape cannot distinguish the two.
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")
)
