package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nabl-labs/accounts-api/internal/application/dto"
	"github.com/nabl-labs/accounts-api/internal/domain"
	"github.com/nabl-labs/accounts-api/internal/domain/entity"
	"github.com/nabl-labs/accounts-api/internal/domain/repository"
)

// OrganizationUseCase admin-facing organization CRUD. Unlike registration,
// direct creation enforces name uniqueness.
type OrganizationUseCase struct {
	orgs  repository.OrganizationRepository
	users repository.UserRepository
	now   nowFunc
}

// NewOrganizationUseCase builds the use case with its persistence ports.
func NewOrganizationUseCase(orgs repository.OrganizationRepository, users repository.UserRepository) *OrganizationUseCase {
	return &OrganizationUseCase{orgs: orgs, users: users, now: defaultNow}
}

// List returns all organizations ordered by name.
func (uc *OrganizationUseCase) List(ctx context.Context) ([]*dto.OrganizationResponse, error) {
	orgs, err := uc.orgs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	out := make([]*dto.OrganizationResponse, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, toOrganizationResponse(o))
	}
	return out, nil
}

// Get returns one organization.
func (uc *OrganizationUseCase) Get(ctx context.Context, id string) (*dto.OrganizationResponse, error) {
	org, err := uc.orgs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return toOrganizationResponse(org), nil
}

// Create adds an organization with a unique name.
func (uc *OrganizationUseCase) Create(ctx context.Context, in dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	existing, err := uc.orgs.GetByName(ctx, in.Name)
	if err != nil {
		return nil, fmt.Errorf("check organization name: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := uc.now()
	org := &entity.Organization{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		Phone:       in.Phone,
		Email:       in.Email,
		Website:     in.Website,
		Status:      entity.OrgStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.orgs.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}
	return toOrganizationResponse(org), nil
}

// Update applies a partial update; a name change re-checks uniqueness.
func (uc *OrganizationUseCase) Update(ctx context.Context, id string, in dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error) {
	org, err := uc.orgs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil && *in.Name != org.Name {
		existing, err := uc.orgs.GetByName(ctx, *in.Name)
		if err != nil {
			return nil, fmt.Errorf("check organization name: %w", err)
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
		org.Name = *in.Name
	}
	if in.Description != nil {
		org.Description = *in.Description
	}
	if in.Address != nil {
		org.Address = *in.Address
	}
	if in.Phone != nil {
		org.Phone = *in.Phone
	}
	if in.Email != nil {
		org.Email = *in.Email
	}
	if in.Website != nil {
		org.Website = *in.Website
	}
	if in.Status != nil && *in.Status != "" {
		org.Status = *in.Status
	}
	org.UpdatedAt = uc.now()

	if err := uc.orgs.Update(ctx, org); err != nil {
		return nil, fmt.Errorf("update organization: %w", err)
	}
	return toOrganizationResponse(org), nil
}

// Delete removes an organization; blocked while users still reference it.
// Returns the blocking user count alongside ErrConflict.
func (uc *OrganizationUseCase) Delete(ctx context.Context, id string) (int, error) {
	org, err := uc.orgs.GetByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("get organization: %w", err)
	}
	if org == nil {
		return 0, domain.ErrNotFound
	}
	count, err := uc.users.CountByOrganization(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return count, domain.ErrConflict
	}
	if err := uc.orgs.Delete(ctx, id); err != nil {
		return 0, fmt.Errorf("delete organization: %w", err)
	}
	return 0, nil
}

func toOrganizationResponse(o *entity.Organization) *dto.OrganizationResponse {
	if o == nil {
		return nil
	}
	return &dto.OrganizationResponse{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		Address:     o.Address,
		Phone:       o.Phone,
		Email:       o.Email,
		Website:     o.Website,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
