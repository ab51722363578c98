package repository

import (
	"context"

	"github.com/nabl-labs/accounts-api/internal/domain/entity"
)

// LocationWithOwner pairs a location with its owner's projection.
type LocationWithOwner struct {
	Location entity.Location
	Owner    KeyOwner
}

// LocationRepository is the persistence port for user locations.
type LocationRepository interface {
	Create(ctx context.Context, loc *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	GetWithOwner(ctx context.Context, id string) (*LocationWithOwner, error)
	ListActiveByUser(ctx context.Context, userID string) ([]*entity.Location, error)
	ListActiveByUserAndType(ctx context.Context, userID, locationType string) ([]*entity.Location, error)
	ListAllWithOwner(ctx context.Context) ([]*LocationWithOwner, error)
	GetPrimaryByUser(ctx context.Context, userID string) (*entity.Location, error)
	// ClearPrimary demotes the user's current primary location, optionally
	// excluding one id (used when promoting that id).
	ClearPrimary(ctx context.Context, userID, exceptID string) error
	Update(ctx context.Context, loc *entity.Location) error
	SetPrimary(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
