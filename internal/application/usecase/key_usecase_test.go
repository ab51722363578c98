package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabl-labs/accounts-api/internal/application/dto"
	"github.com/nabl-labs/accounts-api/internal/application/usecase"
	"github.com/nabl-labs/accounts-api/internal/domain"
	"github.com/nabl-labs/accounts-api/internal/domain/entity"
	"github.com/nabl-labs/accounts-api/internal/infrastructure/memory"
)

type keyEnv struct {
	uc    *usecase.KeyUseCase
	users *memory.UserRepo
}

func newKeyEnv() keyEnv {
	users := memory.NewUserRepository()
	return keyEnv{uc: usecase.NewKeyUseCase(memory.NewKeyRepository(users)), users: users}
}

func identityFor(u *entity.User) dto.Identity {
	return dto.Identity{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, Manager: u.Manager}
}

func TestKeyCreateAndMyKeys(t *testing.T) {
	env := newKeyEnv()
	ctx := context.Background()
	alice := seedUser(t, env.users, "alice", "alice@example.com")

	out, err := env.uc.Create(ctx, alice.ID, dto.CreateKeyRequest{Key: "sk-123"})
	require.NoError(t, err)
	assert.Equal(t, entity.KeyTypeAgency, out.KeyType, "empty type defaults to agency")
	assert.True(t, out.IsActive)

	// Saving the same key again for the same user is rejected.
	_, err = env.uc.Create(ctx, alice.ID, dto.CreateKeyRequest{Key: "sk-123"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// A different user can save the same key value.
	bob := seedUser(t, env.users, "bob", "bob@example.com")
	_, err = env.uc.Create(ctx, bob.ID, dto.CreateKeyRequest{Key: "sk-123"})
	require.NoError(t, err)

	mine, err := env.uc.MyKeys(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestKeyOwnerOrAdmin(t *testing.T) {
	env := newKeyEnv()
	ctx := context.Background()
	alice := seedUser(t, env.users, "alice", "alice@example.com")
	bob := seedUser(t, env.users, "bob", "bob@example.com")

	created, err := env.uc.Create(ctx, alice.ID, dto.CreateKeyRequest{Key: "sk-abc"})
	require.NoError(t, err)

	// Another plain user is rejected.
	_, err = env.uc.Get(ctx, created.ID, identityFor(bob))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	err = env.uc.Delete(ctx, created.ID, identityFor(bob))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// The owner and an admin both pass.
	_, err = env.uc.Get(ctx, created.ID, identityFor(alice))
	require.NoError(t, err)
	admin := identityFor(bob)
	admin.Role = entity.RoleAdmin
	got, err := env.uc.Get(ctx, created.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Owner.Username)
}

func TestKeyUpdate(t *testing.T) {
	env := newKeyEnv()
	ctx := context.Background()
	alice := seedUser(t, env.users, "alice", "alice@example.com")

	created, err := env.uc.Create(ctx, alice.ID, dto.CreateKeyRequest{Key: "sk-abc"})
	require.NoError(t, err)

	inactive := false
	desc := "rotated out"
	out, err := env.uc.Update(ctx, created.ID, identityFor(alice), dto.UpdateKeyRequest{
		IsActive:    &inactive,
		Description: &desc,
	})
	require.NoError(t, err)
	assert.False(t, out.IsActive)
	assert.Equal(t, "rotated out", out.Description)

	// Inactive keys drop out of the caller's listing.
	mine, err := env.uc.MyKeys(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestKeyListAllWithOwner(t *testing.T) {
	env := newKeyEnv()
	ctx := context.Background()
	alice := seedUser(t, env.users, "alice", "alice@example.com")

	_, err := env.uc.Create(ctx, alice.ID, dto.CreateKeyRequest{Key: "sk-abc"})
	require.NoError(t, err)

	all, err := env.uc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].Owner)
	assert.Equal(t, "alice", all[0].Owner.Username)
}
