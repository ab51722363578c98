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

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

// OrganizationRepo is an in-memory OrganizationRepository.
type OrganizationRepo struct {
	mu   sync.RWMutex
	orgs map[string]*entity.Organization
}

func NewOrganizationRepository() *OrganizationRepo {
	return &OrganizationRepo{orgs: make(map[string]*entity.Organization)}
}

func (r *OrganizationRepo) Create(ctx context.Context, org *entity.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *org
	r.orgs[org.ID] = &cp
	return nil
}

func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if org, ok := r.orgs[id]; ok {
		cp := *org
		return &cp, nil
	}
	return nil, nil
}

func (r *OrganizationRepo) GetByName(ctx context.Context, name string) (*entity.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, org := range r.orgs {
		if org.Name == name {
			cp := *org
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *OrganizationRepo) List(ctx context.Context) ([]*entity.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*entity.Organization, 0, len(r.orgs))
	for _, org := range r.orgs {
		cp := *org
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *OrganizationRepo) Update(ctx context.Context, org *entity.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.orgs[org.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *org
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = time.Now()
	r.orgs[org.ID] = &cp
	return nil
}

func (r *OrganizationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orgs, id)
	return nil
}
