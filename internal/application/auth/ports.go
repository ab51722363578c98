package auth

import (
	"context"

	"github.com/nabl-labs/accounts-api/internal/domain/repository"
)

// TxRunner runs the registration writes (organization, then user) in one
// transaction so a failure cannot orphan an organization row.
type TxRunner interface {
	RunRegistration(ctx context.Context, fn func(
		orgs repository.OrganizationRepository,
		users repository.UserRepository,
	) error) error
}

// Mailer dispatches the password-reset email. The raw reset token is embedded
// in resetURL; implementations must not log it.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, firstname, resetURL string) error
}
