package repository

import (
	"context"

	"github.com/nabl-labs/accounts-api/internal/domain/entity"
)

// KeyOwner is the owner projection attached to key listings for managers.
type KeyOwner struct {
	ID        string
	Username  string
	Email     string
	Firstname string
	Lastname  string
}

// KeyWithOwner pairs a key with its owner's projection.
type KeyWithOwner struct {
	Key   entity.Key
	Owner KeyOwner
}

// KeyRepository is the persistence port for API key records.
type KeyRepository interface {
	Create(ctx context.Context, key *entity.Key) error
	GetByID(ctx context.Context, id string) (*entity.Key, error)
	GetByKeyAndUser(ctx context.Context, key, userID string) (*entity.Key, error)
	ListActiveByUser(ctx context.Context, userID string) ([]*entity.Key, error)
	ListAllWithOwner(ctx context.Context) ([]*KeyWithOwner, error)
	GetWithOwner(ctx context.Context, id string) (*KeyWithOwner, error)
	Update(ctx context.Context, key *entity.Key) error
	Delete(ctx context.Context, id string) error
}
