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

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo is an in-memory LocationRepository.
type LocationRepo struct {
	mu        sync.RWMutex
	locations map[string]*entity.Location
	users     *UserRepo
}

func NewLocationRepository(users *UserRepo) *LocationRepo {
	return &LocationRepo{locations: make(map[string]*entity.Location), users: users}
}

func (r *LocationRepo) Create(ctx context.Context, loc *entity.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *loc
	r.locations[loc.ID] = &cp
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if loc, ok := r.locations[id]; ok {
		cp := *loc
		return &cp, nil
	}
	return nil, nil
}

func (r *LocationRepo) GetWithOwner(ctx context.Context, id string) (*repository.LocationWithOwner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loc, ok := r.locations[id]
	if !ok {
		return nil, nil
	}
	return &repository.LocationWithOwner{Location: *loc, Owner: r.owner(ctx, loc.UserID)}, nil
}

func (r *LocationRepo) ListActiveByUser(ctx context.Context, userID string) ([]*entity.Location, error) {
	return r.filter(func(loc *entity.Location) bool {
		return loc.UserID == userID && loc.IsActive
	}), nil
}

func (r *LocationRepo) ListActiveByUserAndType(ctx context.Context, userID, locationType string) ([]*entity.Location, error) {
	return r.filter(func(loc *entity.Location) bool {
		return loc.UserID == userID && loc.LocationType == locationType && loc.IsActive
	}), nil
}

func (r *LocationRepo) ListAllWithOwner(ctx context.Context) ([]*repository.LocationWithOwner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*repository.LocationWithOwner
	for _, loc := range r.locations {
		list = append(list, &repository.LocationWithOwner{Location: *loc, Owner: r.owner(ctx, loc.UserID)})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Location.CreatedAt.After(list[j].Location.CreatedAt)
	})
	return list, nil
}

func (r *LocationRepo) GetPrimaryByUser(ctx context.Context, userID string) (*entity.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, loc := range r.locations {
		if loc.UserID == userID && loc.IsPrimary && loc.IsActive {
			cp := *loc
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *LocationRepo) ClearPrimary(ctx context.Context, userID, exceptID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, loc := range r.locations {
		if loc.UserID == userID && loc.IsPrimary && loc.ID != exceptID {
			loc.IsPrimary = false
			loc.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *LocationRepo) Update(ctx context.Context, loc *entity.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.locations[loc.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *loc
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = time.Now()
	r.locations[loc.ID] = &cp
	return nil
}

func (r *LocationRepo) SetPrimary(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	loc, ok := r.locations[id]
	if !ok {
		return domain.ErrNotFound
	}
	loc.IsPrimary = true
	loc.UpdatedAt = time.Now()
	return nil
}

func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locations, id)
	return nil
}

func (r *LocationRepo) filter(match func(*entity.Location) bool) []*entity.Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*entity.Location
	for _, loc := range r.locations {
		if match(loc) {
			cp := *loc
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].IsPrimary != list[j].IsPrimary {
			return list[i].IsPrimary
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

func (r *LocationRepo) owner(ctx context.Context, userID string) repository.KeyOwner {
	u, _ := r.users.GetByID(ctx, userID)
	if u == nil {
		return repository.KeyOwner{ID: userID}
	}
	return repository.KeyOwner{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
	}
}
