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

// LocationUseCase user location management. At most one location per user is
// primary; promoting one demotes the rest.
type LocationUseCase struct {
	repo repository.LocationRepository
	now  nowFunc
}

// NewLocationUseCase builds the use case with its persistence port.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo, now: defaultNow}
}

// MyLocations returns the caller's active locations, primary first.
func (uc *LocationUseCase) MyLocations(ctx context.Context, userID string) ([]*dto.LocationResponse, error) {
	locs, err := uc.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return toLocationResponses(locs), nil
}

// ByType returns the caller's active locations of one type.
func (uc *LocationUseCase) ByType(ctx context.Context, userID, locationType string) ([]*dto.LocationResponse, error) {
	locs, err := uc.repo.ListActiveByUserAndType(ctx, userID, locationType)
	if err != nil {
		return nil, fmt.Errorf("list locations by type: %w", err)
	}
	return toLocationResponses(locs), nil
}

// Primary returns the caller's primary active location, or nil when none is
// set (not an error; the original endpoint returns null data).
func (uc *LocationUseCase) Primary(ctx context.Context, userID string) (*dto.LocationResponse, error) {
	loc, err := uc.repo.GetPrimaryByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get primary location: %w", err)
	}
	if loc == nil {
		return nil, nil
	}
	return toLocationResponse(loc, nil), nil
}

// ListAll returns every location with its owner projection (manager endpoint).
func (uc *LocationUseCase) ListAll(ctx context.Context) ([]*dto.LocationResponse, error) {
	rows, err := uc.repo.ListAllWithOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	out := make([]*dto.LocationResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toLocationResponse(&row.Location, &row.Owner))
	}
	return out, nil
}

// Get returns one location with its owner; owner-or-admin only.
func (uc *LocationUseCase) Get(ctx context.Context, id string, caller dto.Identity) (*dto.LocationResponse, error) {
	row, err := uc.repo.GetWithOwner(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	if row.Location.UserID != caller.ID && caller.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return toLocationResponse(&row.Location, &row.Owner), nil
}

// Create adds a location for the caller. A new primary demotes the current
// one first.
func (uc *LocationUseCase) Create(ctx context.Context, userID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.IsPrimary {
		if err := uc.repo.ClearPrimary(ctx, userID, ""); err != nil {
			return nil, fmt.Errorf("clear primary: %w", err)
		}
	}

	locationType := in.LocationType
	if locationType == "" {
		locationType = entity.LocationTypeOther
	}
	now := uc.now()
	loc := &entity.Location{
		ID:           uuid.New().String(),
		UserID:       userID,
		LocationName: in.LocationName,
		Address:      in.Address,
		City:         in.City,
		State:        in.State,
		Country:      in.Country,
		PostalCode:   in.PostalCode,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		LocationType: locationType,
		IsPrimary:    in.IsPrimary,
		IsActive:     true,
		Phone:        in.Phone,
		Email:        in.Email,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, loc); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return toLocationResponse(loc, nil), nil
}

// Update applies a partial update; owner-or-admin only. Promoting to primary
// demotes the user's other locations.
func (uc *LocationUseCase) Update(ctx context.Context, id string, caller dto.Identity, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	loc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	if loc.UserID != caller.ID && caller.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	if in.IsPrimary != nil && *in.IsPrimary && !loc.IsPrimary {
		if err := uc.repo.ClearPrimary(ctx, loc.UserID, loc.ID); err != nil {
			return nil, fmt.Errorf("clear primary: %w", err)
		}
	}

	if in.LocationName != nil && *in.LocationName != "" {
		loc.LocationName = *in.LocationName
	}
	if in.Address != nil {
		loc.Address = *in.Address
	}
	if in.City != nil {
		loc.City = *in.City
	}
	if in.State != nil {
		loc.State = *in.State
	}
	if in.Country != nil {
		loc.Country = *in.Country
	}
	if in.PostalCode != nil {
		loc.PostalCode = *in.PostalCode
	}
	if in.Latitude != nil {
		loc.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		loc.Longitude = in.Longitude
	}
	if in.LocationType != nil && *in.LocationType != "" {
		loc.LocationType = *in.LocationType
	}
	if in.IsPrimary != nil {
		loc.IsPrimary = *in.IsPrimary
	}
	if in.Phone != nil {
		loc.Phone = *in.Phone
	}
	if in.Email != nil {
		loc.Email = *in.Email
	}
	if in.Notes != nil {
		loc.Notes = *in.Notes
	}
	loc.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, loc); err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}
	return toLocationResponse(loc, nil), nil
}

// SetPrimary promotes a location to primary; owner-or-admin only.
func (uc *LocationUseCase) SetPrimary(ctx context.Context, id string, caller dto.Identity) error {
	loc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get location: %w", err)
	}
	if loc == nil {
		return domain.ErrNotFound
	}
	if loc.UserID != caller.ID && caller.Role != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := uc.repo.ClearPrimary(ctx, loc.UserID, loc.ID); err != nil {
		return fmt.Errorf("clear primary: %w", err)
	}
	if err := uc.repo.SetPrimary(ctx, loc.ID); err != nil {
		return fmt.Errorf("set primary: %w", err)
	}
	return nil
}

// Delete removes a location; owner-or-admin only.
func (uc *LocationUseCase) Delete(ctx context.Context, id string, caller dto.Identity) error {
	loc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get location: %w", err)
	}
	if loc == nil {
		return domain.ErrNotFound
	}
	if loc.UserID != caller.ID && caller.Role != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}

func toLocationResponse(l *entity.Location, owner *repository.KeyOwner) *dto.LocationResponse {
	resp := &dto.LocationResponse{
		ID:           l.ID,
		UserID:       l.UserID,
		LocationName: l.LocationName,
		Address:      l.Address,
		City:         l.City,
		State:        l.State,
		Country:      l.Country,
		PostalCode:   l.PostalCode,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		LocationType: l.LocationType,
		IsPrimary:    l.IsPrimary,
		IsActive:     l.IsActive,
		Phone:        l.Phone,
		Email:        l.Email,
		Notes:        l.Notes,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	if owner != nil {
		resp.Owner = &dto.OwnerResponse{
			ID:        owner.ID,
			Username:  owner.Username,
			Email:     owner.Email,
			Firstname: owner.Firstname,
			Lastname:  owner.Lastname,
		}
	}
	return resp
}

func toLocationResponses(locs []*entity.Location) []*dto.LocationResponse {
	out := make([]*dto.LocationResponse, 0, len(locs))
	for _, l := range locs {
		out = append(out, toLocationResponse(l, nil))
	}
	return out
}
