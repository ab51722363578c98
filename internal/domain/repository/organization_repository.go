package repository

import (
	"context"

	"github.com/nabl-labs/accounts-api/internal/domain/entity"
)

// OrganizationRepository is the persistence port for Organization.
type OrganizationRepository interface {
	Create(ctx context.Context, org *entity.Organization) error
	GetByID(ctx context.Context, id string) (*entity.Organization, error)
	GetByName(ctx context.Context, name string) (*entity.Organization, error)
	List(ctx context.Context) ([]*entity.Organization, error)
	Update(ctx context.Context, org *entity.Organization) error
	Delete(ctx context.Context, id string) error
}
