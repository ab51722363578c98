package usecase

import (
	"context"
	"fmt"

	"github.com/nabl-labs/accounts-api/internal/application/dto"
	"github.com/nabl-labs/accounts-api/internal/domain"
	"github.com/nabl-labs/accounts-api/internal/domain/entity"
	"github.com/nabl-labs/accounts-api/internal/domain/repository"
)

// UserUseCase profile and user administration operations.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase builds the use case with its persistence port.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// GetProfile returns the identity projection for a user id.
func (uc *UserUseCase) GetProfile(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// List returns all users, newest first (manager endpoint).
func (uc *UserUseCase) List(ctx context.Context) ([]*dto.UserResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out, nil
}

// UpdateProfile applies a partial profile update. A username change is
// rejected when another user already holds it.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, in dto.UpdateProfileRequest) error {
	if in.Firstname == nil && in.Lastname == nil && in.Username == nil {
		return domain.ErrInvalidInput
	}
	if in.Username != nil {
		existing, err := uc.repo.GetByUsername(ctx, *in.Username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if existing != nil && existing.ID != userID {
			return domain.ErrDuplicate
		}
	}
	if err := uc.repo.UpdateProfile(ctx, userID, in.Firstname, in.Lastname, in.Username); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// SaveUserType stores the caller's user type.
func (uc *UserUseCase) SaveUserType(ctx context.Context, userID, userType string) error {
	if err := uc.repo.UpdateUserType(ctx, userID, userType); err != nil {
		return fmt.Errorf("save user type: %w", err)
	}
	return nil
}

// GetUserType returns the caller's user type.
func (uc *UserUseCase) GetUserType(ctx context.Context, userID string) (*dto.UserTypeResponse, error) {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return &dto.UserTypeResponse{UserType: user.UserType}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Firstname:      u.Firstname,
		Lastname:       u.Lastname,
		Role:           u.Role,
		Manager:        u.Manager,
		OrganizationID: u.OrganizationID,
		UserType:       u.UserType,
		Avatar:         u.Avatar,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
