package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nabl-labs/accounts-api/internal/application/dto"
	"github.com/nabl-labs/accounts-api/internal/domain"
	"github.com/nabl-labs/accounts-api/internal/domain/entity"
	"github.com/nabl-labs/accounts-api/internal/domain/repository"
	"github.com/nabl-labs/accounts-api/pkg/password"
	"github.com/nabl-labs/accounts-api/pkg/token"
)

// AuthUseCase orchestrates the session lifecycle: registration, login, token
// verification, logout, password change and recovery.
type AuthUseCase struct {
	users       repository.UserRepository
	tx          TxRunner
	tokens      *token.Manager
	hasher      *password.Hasher
	mailer      Mailer
	frontendURL string
	now         func() time.Time
}

// NewAuthUseCase wires the session manager. Every collaborator is injected;
// there is no ambient store handle.
func NewAuthUseCase(users repository.UserRepository, tx TxRunner, tokens *token.Manager, hasher *password.Hasher, mailer Mailer, frontendURL string) *AuthUseCase {
	return &AuthUseCase{
		users:       users,
		tx:          tx,
		tokens:      tokens,
		hasher:      hasher,
		mailer:      mailer,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

// WithClock replaces the use case clock. Test seam for reset-token expiry.
func (uc *AuthUseCase) WithClock(now func() time.Time) *AuthUseCase {
	c := *uc
	c.now = now
	return &c
}

// newUserInput carries the fields shared by self-registration and the
// manager add-user path.
type newUserInput struct {
	firstName    string
	lastName     string
	userName     string
	email        string
	password     string
	organization string
	role         string
	manager      bool
}

// Register creates the named organization and the user inside one
// transaction. Registration never deduplicates organizations by name; each
// registration gets a fresh one. New users get the least-privileged role.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	user, err := uc.createUser(ctx, newUserInput{
		firstName:    in.FirstName,
		lastName:     in.LastName,
		userName:     in.UserName,
		email:        in.Email,
		password:     in.Password,
		organization: in.Organization,
		role:         entity.RoleUser,
	})
	if err != nil {
		return nil, err
	}
	return &dto.RegisterResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Firstname:      user.Firstname,
		Lastname:       user.Lastname,
		OrganizationID: user.OrganizationID,
	}, nil
}

// AddUser creates a user with explicit role and manager flags (manager
// endpoint). Shares the registration transaction and uniqueness checks.
func (uc *AuthUseCase) AddUser(ctx context.Context, in dto.AddUserRequest) (*dto.UserResponse, error) {
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	user, err := uc.createUser(ctx, newUserInput{
		firstName:    in.FirstName,
		lastName:     in.LastName,
		userName:     in.UserName,
		email:        in.Email,
		password:     in.Password,
		organization: in.Organization,
		role:         role,
		manager:      in.Manager,
	})
	if err != nil {
		return nil, err
	}
	return &dto.UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Firstname:      user.Firstname,
		Lastname:       user.Lastname,
		Role:           user.Role,
		Manager:        user.Manager,
		OrganizationID: user.OrganizationID,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}, nil
}

func (uc *AuthUseCase) createUser(ctx context.Context, in newUserInput) (*entity.User, error) {
	existing, err := uc.users.GetByEmailOrUsername(ctx, in.email, in.userName)
	if err != nil {
		return nil, fmt.Errorf("lookup existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	hash, salt, err := uc.hasher.Hash(in.password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := uc.now()
	org := &entity.Organization{
		ID:        uuid.New().String(),
		Name:      in.organization,
		Status:    entity.OrgStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user := &entity.User{
		ID:             uuid.New().String(),
		Username:       in.userName,
		Email:          in.email,
		PasswordHash:   hash,
		PasswordSalt:   salt,
		Firstname:      in.firstName,
		Lastname:       in.lastName,
		Role:           in.role,
		Manager:        in.manager,
		OrganizationID: org.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = uc.tx.RunRegistration(ctx, func(orgs repository.OrganizationRepository, users repository.UserRepository) error {
		if err := orgs.Create(ctx, org); err != nil {
			return fmt.Errorf("create organization: %w", err)
		}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrDuplicate
		}
		return nil, err
	}
	return user, nil
}

// Login verifies credentials, issues both tokens and persists the refresh
// token. The stored slot is last-writer-wins: a concurrent login replaces the
// previous refresh token and silently invalidates that session.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResult, error) {
	user, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	// Unknown email and wrong password fail with the same error kind.
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !uc.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, err := uc.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := uc.tokens.IssueRefresh(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	if err := uc.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return &dto.LoginResult{
		Body: dto.LoginResponse{
			AccessToken: accessToken,
			UserID:      user.ID,
			Username:    user.Username,
			Email:       user.Email,
			Role:        user.Role,
			Manager:     user.Manager,
		},
		RefreshToken: refreshToken,
	}, nil
}

// Authenticate verifies an access token and loads the identity projection.
// Verification failures never reach the store.
func (uc *AuthUseCase) Authenticate(ctx context.Context, accessToken string) (*dto.Identity, error) {
	if accessToken == "" {
		return nil, domain.ErrMissingToken
	}
	userID, err := uc.tokens.VerifyAccess(accessToken)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		// Deleted after issuance.
		return nil, domain.ErrUserNotFound
	}
	return &dto.Identity{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Role:           user.Role,
		Manager:        user.Manager,
		OrganizationID: user.OrganizationID,
	}, nil
}

// Logout clears the stored refresh token for whichever user holds this exact
// value. A token that matches no record is not an error; the cookie is
// cleared by the handler either way.
func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := uc.users.ClearRefreshTokenByValue(ctx, refreshToken); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}
