package repository

import (
	"context"
	"time"

	"github.com/nabl-labs/accounts-api/internal/domain/entity"
)

// UserRepository is the persistence port for User. Lookups return (nil, nil)
// when no row matches so callers decide which not-found error applies.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateProfile(ctx context.Context, id string, firstname, lastname, username *string) error
	UpdateUserType(ctx context.Context, id, userType string) error

	// Credential rotation. UpdatePassword replaces hash and salt;
	// RotatePasswordAndClearReset additionally clears the reset pair in the
	// same statement so redemption cannot leave a live token behind.
	UpdatePassword(ctx context.Context, id, hash, salt string) error
	RotatePasswordAndClearReset(ctx context.Context, id, hash, salt string) error

	// Session slot. SetRefreshToken is last-writer-wins;
	// ClearRefreshTokenByValue logs out whichever user holds that exact value.
	SetRefreshToken(ctx context.Context, id, token string) error
	ClearRefreshTokenByValue(ctx context.Context, token string) error

	// Reset pair. SetResetToken overwrites any unredeemed prior pair;
	// GetByLiveResetToken only matches while expiry is in the future.
	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	GetByLiveResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error)

	CountByOrganization(ctx context.Context, organizationID string) (int, error)
}
