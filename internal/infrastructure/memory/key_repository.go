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

var _ repository.KeyRepository = (*KeyRepo)(nil)

// KeyRepo is an in-memory KeyRepository. It reads owners from the paired
// UserRepo to build the owner projections the port exposes.
type KeyRepo struct {
	mu    sync.RWMutex
	keys  map[string]*entity.Key
	users *UserRepo
}

func NewKeyRepository(users *UserRepo) *KeyRepo {
	return &KeyRepo{keys: make(map[string]*entity.Key), users: users}
}

func (r *KeyRepo) Create(ctx context.Context, key *entity.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.keys {
		if k.Key == key.Key && k.UserID == key.UserID {
			return domain.ErrDuplicate
		}
	}
	cp := *key
	r.keys[key.ID] = &cp
	return nil
}

func (r *KeyRepo) GetByID(ctx context.Context, id string) (*entity.Key, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if k, ok := r.keys[id]; ok {
		cp := *k
		return &cp, nil
	}
	return nil, nil
}

func (r *KeyRepo) GetByKeyAndUser(ctx context.Context, key, userID string) (*entity.Key, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, k := range r.keys {
		if k.Key == key && k.UserID == userID {
			cp := *k
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *KeyRepo) ListActiveByUser(ctx context.Context, userID string) ([]*entity.Key, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*entity.Key
	for _, k := range r.keys {
		if k.UserID == userID && k.IsActive {
			cp := *k
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *KeyRepo) ListAllWithOwner(ctx context.Context) ([]*repository.KeyWithOwner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*repository.KeyWithOwner
	for _, k := range r.keys {
		list = append(list, &repository.KeyWithOwner{Key: *k, Owner: r.owner(ctx, k.UserID)})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Key.CreatedAt.After(list[j].Key.CreatedAt) })
	return list, nil
}

func (r *KeyRepo) GetWithOwner(ctx context.Context, id string) (*repository.KeyWithOwner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.keys[id]
	if !ok {
		return nil, nil
	}
	return &repository.KeyWithOwner{Key: *k, Owner: r.owner(ctx, k.UserID)}, nil
}

func (r *KeyRepo) Update(ctx context.Context, key *entity.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.keys[key.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *key
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = time.Now()
	r.keys[key.ID] = &cp
	return nil
}

func (r *KeyRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.keys, id)
	return nil
}

func (r *KeyRepo) owner(ctx context.Context, userID string) repository.KeyOwner {
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
