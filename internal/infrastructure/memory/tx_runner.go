package memory

import (
	"context"

	"github.com/nabl-labs/accounts-api/internal/application/auth"
	"github.com/nabl-labs/accounts-api/internal/domain/repository"
)

var _ auth.TxRunner = (*TxRunner)(nil)

// TxRunner satisfies the registration transaction port without transactional
// semantics; map writes are already atomic per repository.
type TxRunner struct {
	Orgs  repository.OrganizationRepository
	Users repository.UserRepository
}

func NewTxRunner(orgs repository.OrganizationRepository, users repository.UserRepository) *TxRunner {
	return &TxRunner{Orgs: orgs, Users: users}
}

func (t *TxRunner) RunRegistration(ctx context.Context, fn func(
	orgs repository.OrganizationRepository,
	users repository.UserRepository,
) error) error {
	return fn(t.Orgs, t.Users)
}
