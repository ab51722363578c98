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

// KeyUseCase API key record management. Non-admin callers can only touch
// their own keys.
type KeyUseCase struct {
	repo repository.KeyRepository
	now  nowFunc
}

// NewKeyUseCase builds the use case with its persistence port.
func NewKeyUseCase(repo repository.KeyRepository) *KeyUseCase {
	return &KeyUseCase{repo: repo, now: defaultNow}
}

// MyKeys returns the caller's active keys, newest first.
func (uc *KeyUseCase) MyKeys(ctx context.Context, userID string) ([]*dto.KeyResponse, error) {
	keys, err := uc.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	out := make([]*dto.KeyResponse, 0, len(keys))
	for _, k := range keys {
		out = append(out, toKeyResponse(k, nil))
	}
	return out, nil
}

// ListAll returns every key with its owner projection (manager endpoint).
func (uc *KeyUseCase) ListAll(ctx context.Context) ([]*dto.KeyResponse, error) {
	rows, err := uc.repo.ListAllWithOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	out := make([]*dto.KeyResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toKeyResponse(&row.Key, &row.Owner))
	}
	return out, nil
}

// Get returns one key with its owner; callers other than the owner need the
// admin role.
func (uc *KeyUseCase) Get(ctx context.Context, id string, caller dto.Identity) (*dto.KeyResponse, error) {
	row, err := uc.repo.GetWithOwner(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get key: %w", err)
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	if row.Key.UserID != caller.ID && caller.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return toKeyResponse(&row.Key, &row.Owner), nil
}

// Create saves a key for the caller. The same key value can only be saved
// once per user.
func (uc *KeyUseCase) Create(ctx context.Context, userID string, in dto.CreateKeyRequest) (*dto.KeyResponse, error) {
	existing, err := uc.repo.GetByKeyAndUser(ctx, in.Key, userID)
	if err != nil {
		return nil, fmt.Errorf("check key: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	keyType := in.KeyType
	if keyType == "" {
		keyType = entity.KeyTypeAgency
	}
	now := uc.now()
	key := &entity.Key{
		ID:          uuid.New().String(),
		Key:         in.Key,
		UserID:      userID,
		KeyType:     keyType,
		Description: in.Description,
		IsActive:    true,
		ExpiresAt:   in.ExpiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, key); err != nil {
		return nil, fmt.Errorf("create key: %w", err)
	}
	return toKeyResponse(key, nil), nil
}

// Update applies a partial update; owner-or-admin only.
func (uc *KeyUseCase) Update(ctx context.Context, id string, caller dto.Identity, in dto.UpdateKeyRequest) (*dto.KeyResponse, error) {
	key, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get key: %w", err)
	}
	if key == nil {
		return nil, domain.ErrNotFound
	}
	if key.UserID != caller.ID && caller.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	if in.Key != nil && *in.Key != "" {
		key.Key = *in.Key
	}
	if in.KeyType != nil && *in.KeyType != "" {
		key.KeyType = *in.KeyType
	}
	if in.Description != nil {
		key.Description = *in.Description
	}
	if in.IsActive != nil {
		key.IsActive = *in.IsActive
	}
	if in.ExpiresAt != nil {
		key.ExpiresAt = in.ExpiresAt
	}
	key.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, key); err != nil {
		return nil, fmt.Errorf("update key: %w", err)
	}
	return toKeyResponse(key, nil), nil
}

// Delete removes a key; owner-or-admin only.
func (uc *KeyUseCase) Delete(ctx context.Context, id string, caller dto.Identity) error {
	key, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get key: %w", err)
	}
	if key == nil {
		return domain.ErrNotFound
	}
	if key.UserID != caller.ID && caller.Role != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete key: %w", err)
	}
	return nil
}

func toKeyResponse(k *entity.Key, owner *repository.KeyOwner) *dto.KeyResponse {
	resp := &dto.KeyResponse{
		ID:          k.ID,
		Key:         k.Key,
		UserID:      k.UserID,
		KeyType:     k.KeyType,
		Description: k.Description,
		IsActive:    k.IsActive,
		ExpiresAt:   k.ExpiresAt,
		LastUsedAt:  k.LastUsedAt,
		UsageCount:  k.UsageCount,
		CreatedAt:   k.CreatedAt,
		UpdatedAt:   k.UpdatedAt,
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
