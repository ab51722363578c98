// Package memory provides map-backed repository implementations used by
// tests and local development without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nabl-labs/accounts-api/internal/domain"
	"github.com/nabl-labs/accounts-api/internal/domain/entity"
	"github.com/nabl-labs/accounts-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo is an in-memory UserRepository.
type UserRepo struct {
	mu    sync.RWMutex
	users map[string]*entity.User
}

func NewUserRepository() *UserRepo {
	return &UserRepo{users: make(map[string]*entity.User)}
}

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return domain.ErrDuplicate
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username })
}

func (r *UserRepo) GetByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email || u.Username == username })
}

func (r *UserRepo) GetByLiveResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	return r.find(func(u *entity.User) bool {
		return u.ResetToken == token && u.HasLiveResetToken(now)
	})
}

func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.mutate(user.ID, func(u *entity.User) error {
		for _, other := range r.users {
			if other.ID != user.ID && (other.Email == user.Email || other.Username == user.Username) {
				return domain.ErrDuplicate
			}
		}
		u.Username = user.Username
		u.Email = user.Email
		u.Firstname = user.Firstname
		u.Lastname = user.Lastname
		u.Role = user.Role
		u.Manager = user.Manager
		u.UserType = user.UserType
		u.Avatar = user.Avatar
		u.UpdatedAt = time.Now()
		return nil
	})
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id string, firstname, lastname, username *string) error {
	return r.mutate(id, func(u *entity.User) error {
		if username != nil {
			for _, other := range r.users {
				if other.ID != id && other.Username == *username {
					return domain.ErrDuplicate
				}
			}
			u.Username = *username
		}
		if firstname != nil {
			u.Firstname = *firstname
		}
		if lastname != nil {
			u.Lastname = *lastname
		}
		u.UpdatedAt = time.Now()
		return nil
	})
}

func (r *UserRepo) UpdateUserType(ctx context.Context, id, userType string) error {
	return r.mutate(id, func(u *entity.User) error {
		u.UserType = userType
		u.UpdatedAt = time.Now()
		return nil
	})
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash, salt string) error {
	return r.mutate(id, func(u *entity.User) error {
		u.PasswordHash = hash
		u.PasswordSalt = salt
		u.UpdatedAt = time.Now()
		return nil
	})
}

func (r *UserRepo) RotatePasswordAndClearReset(ctx context.Context, id, hash, salt string) error {
	return r.mutate(id, func(u *entity.User) error {
		u.PasswordHash = hash
		u.PasswordSalt = salt
		u.ResetToken = ""
		u.ResetTokenExpiresAt = time.Time{}
		u.UpdatedAt = time.Now()
		return nil
	})
}

func (r *UserRepo) SetRefreshToken(ctx context.Context, id, token string) error {
	return r.mutate(id, func(u *entity.User) error {
		u.RefreshToken = token
		return nil
	})
}

func (r *UserRepo) ClearRefreshTokenByValue(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.RefreshToken == token {
			u.RefreshToken = ""
		}
	}
	return nil
}

func (r *UserRepo) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	return r.mutate(id, func(u *entity.User) error {
		u.ResetToken = token
		u.ResetTokenExpiresAt = expiresAt
		return nil
	})
}

func (r *UserRepo) CountByOrganization(ctx context.Context, organizationID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, u := range r.users {
		if u.OrganizationID == organizationID {
			count++
		}
	}
	return count, nil
}

func (r *UserRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) mutate(id string, fn func(*entity.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	return fn(u)
}
