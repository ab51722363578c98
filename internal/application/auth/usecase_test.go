package auth_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabl-labs/accounts-api/internal/application/auth"
	"github.com/nabl-labs/accounts-api/internal/application/dto"
	"github.com/nabl-labs/accounts-api/internal/domain"
	"github.com/nabl-labs/accounts-api/internal/infrastructure/memory"
	"github.com/nabl-labs/accounts-api/pkg/password"
	"github.com/nabl-labs/accounts-api/pkg/token"
)

const frontendURL = "http://localhost:3000"

// fakeMailer records the reset emails instead of sending them.
type fakeMailer struct {
	to       []string
	resetURL string
}

func (m *fakeMailer) SendPasswordReset(ctx context.Context, to, firstname, resetURL string) error {
	m.to = append(m.to, to)
	m.resetURL = resetURL
	return nil
}

// lastToken extracts the reset token from the most recent mailed URL.
func (m *fakeMailer) lastToken(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(m.resetURL)
	require.NoError(t, err)
	tok := u.Query().Get("token")
	require.NotEmpty(t, tok)
	return tok
}

type testEnv struct {
	uc     *auth.AuthUseCase
	users  *memory.UserRepo
	mailer *fakeMailer
	tokens *token.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := memory.NewUserRepository()
	orgs := memory.NewOrganizationRepository()
	hasher, err := password.NewHasher(4)
	require.NoError(t, err)
	tokens := token.NewManager(token.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "accounts-api-test",
	})
	mailer := &fakeMailer{}
	uc := auth.NewAuthUseCase(users, memory.NewTxRunner(orgs, users), tokens, hasher, mailer, frontendURL)
	return &testEnv{uc: uc, users: users, mailer: mailer, tokens: tokens}
}

func registerReq() dto.RegisterRequest {
	return dto.RegisterRequest{
		FirstName:       "Alice",
		LastName:        "Smith",
		UserName:        "alice",
		Email:           "alice@example.com",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
		Organization:    "Acme Corp",
	}
}

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.uc.Register(ctx, registerReq())
	require.NoError(t, err)
	assert.Equal(t, "alice", reg.Username)
	assert.NotEmpty(t, reg.OrganizationID)

	out, err := env.uc.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Body.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, reg.ID, out.Body.UserID)
	assert.Equal(t, "user", out.Body.Role, "self-registration gets the least-privileged role")

	// The identity the access token resolves to carries no credential fields.
	identity, err := env.uc.Authenticate(ctx, out.Body.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, identity.ID)
	assert.Equal(t, "alice", identity.Username)
}

func TestRegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.uc.Register(ctx, registerReq())
	require.NoError(t, err)

	// Same email, different username.
	in := registerReq()
	in.UserName = "alice2"
	_, err = env.uc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Same username, different email.
	in = registerReq()
	in.Email = "alice2@example.com"
	_, err = env.uc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.uc.Register(ctx, registerReq())
	require.NoError(t, err)

	_, err = env.uc.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Unknown email fails with the same kind as a wrong password.
	_, err = env.uc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginStoresRefreshTokenAndLogoutClearsIt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reg, err := env.uc.Register(ctx, registerReq())
	require.NoError(t, err)

	out, err := env.uc.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "hunter22"})
	require.NoError(t, err)

	stored, err := env.users.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, out.RefreshToken, stored.RefreshToken)

	// Logout with a value that matches nothing is a no-op.
	require.NoError(t, env.uc.Logout(ctx, "some-other-token"))
	stored, _ = env.users.GetByID(ctx, reg.ID)
	assert.Equal(t, out.RefreshToken, stored.RefreshToken)

	require.NoError(t, env.uc.Logout(ctx, out.RefreshToken))
	stored, _ = env.users.GetByID(ctx, reg.ID)
	assert.Empty(t, stored.RefreshToken)

	// Missing cookie logs out cleanly too.
	require.NoError(t, env.uc.Logout(ctx, ""))
}

func TestSecondLoginReplacesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reg, err := env.uc.Register(ctx, registerReq())
	require.NoError(t, err)

	first, err := env.uc.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "hunter22"})
	require.NoError(t, err)
	second, err := env.uc.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "hunter22"})
	require.NoError(t, err)

	stored, _ := env.users.GetByID(ctx, reg.ID)
	assert.Equal(t, second.RefreshToken, stored.RefreshToken)

	// Logging out with the replaced token no longer matches.
	require.NoError(t, env.uc.Logout(ctx, first.RefreshToken))
	stored, _ = env.users.GetByID(ctx, reg.ID)
	assert.Equal(t, second.RefreshToken, stored.RefreshToken)
}

func TestAuthenticateFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.uc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrMissingToken)

	_, err = env.uc.Authenticate(ctx, "garbage.token.value")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	// A token signed with a different secret is rejected before any lookup.
	forged, err := token.NewManager(token.Config{
		AccessSecret:  "attacker-secret",
		RefreshSecret: "r",
		AccessTTL:     time.Hour,
		RefreshTTL:    time.Hour,
	}).IssueAccess("any-user-id")
	require.NoError(t, err)
	_, err = env.uc.Authenticate(ctx, forged)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAuthenticateDeletedUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tok, err := env.tokens.IssueAccess("00000000-0000-0000-0000-00000000dead")
	require.NoError(t, err)
	_, err = env.uc.Authenticate(ctx, tok)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRequestResetUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	err := env.uc.RequestReset(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Empty(t, env.mailer.to, "no email goes out for an unknown address")
}

func TestResetFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.uc.Register(ctx, registerReq())
	require.NoError(t, err)

	require.NoError(t, env.uc.RequestReset(ctx, "alice@example.com"))
	require.Len(t, env.mailer.to, 1)
	assert.Equal(t, "alice@example.com", env.mailer.to[0])
	assert.True(t, strings.HasPrefix(env.mailer.resetURL, frontendURL+"/reset-password?token="))

	resetToken := env.mailer.lastToken(t)
	assert.Len(t, resetToken, 64, "32 random bytes, hex encoded")

	require.NoError(t, env.uc.RedeemReset(ctx, resetToken, "brand-new-pass"))

	// Old password no longer works, the new one does.
	_, err = env.uc.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = env.uc.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "brand-new-pass"})
	require.NoError(t, err)

	// A redeemed token cannot be redeemed again.
	err = env.uc.RedeemReset(ctx, resetToken, "another-pass")
	assert.ErrorIs(t, err, domain.ErrResetTokenInvalid)
}

func TestRedeemResetExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.uc.Register(ctx, registerReq())
	require.NoError(t, err)

	issued := time.Now()
	require.NoError(t, env.uc.RequestReset(ctx, "alice@example.com"))
	resetToken := env.mailer.lastToken(t)

	// Just past the one-hour window the token is dead.
	late := env.uc.WithClock(func() time.Time { return issued.Add(time.Hour + time.Minute) })
	err = late.RedeemReset(ctx, resetToken, "too-late-pass")
	assert.ErrorIs(t, err, domain.ErrResetTokenInvalid)

	// Inside the window it still redeems.
	early := env.uc.WithClock(func() time.Time { return issued.Add(time.Hour - time.Minute) })
	require.NoError(t, early.RedeemReset(ctx, resetToken, "in-time-pass"))
}

func TestNewResetRequestOverwritesPrior(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.uc.Register(ctx, registerReq())
	require.NoError(t, err)

	require.NoError(t, env.uc.RequestReset(ctx, "alice@example.com"))
	firstToken := env.mailer.lastToken(t)
	require.NoError(t, env.uc.RequestReset(ctx, "alice@example.com"))
	secondToken := env.mailer.lastToken(t)
	require.NotEqual(t, firstToken, secondToken)

	assert.ErrorIs(t, env.uc.RedeemReset(ctx, firstToken, "x-pass-123"), domain.ErrResetTokenInvalid)
	require.NoError(t, env.uc.RedeemReset(ctx, secondToken, "x-pass-123"))
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reg, err := env.uc.Register(ctx, registerReq())
	require.NoError(t, err)

	err = env.uc.ChangePassword(ctx, reg.ID, "wrong-current", "new-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	require.NoError(t, env.uc.ChangePassword(ctx, reg.ID, "hunter22", "new-password"))
	_, err = env.uc.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "new-password"})
	require.NoError(t, err)
}

func TestAddUserKeepsExplicitRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	out, err := env.uc.AddUser(ctx, dto.AddUserRequest{
		FirstName:    "Bob",
		LastName:     "Jones",
		UserName:     "bob",
		Email:        "bob@example.com",
		Password:     "secret123",
		Organization: "Bob LLC",
		Role:         "admin",
		Manager:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", out.Role)
	assert.True(t, out.Manager)

	// Empty role falls back to the default.
	out, err = env.uc.AddUser(ctx, dto.AddUserRequest{
		UserName:     "carol",
		Email:        "carol@example.com",
		Password:     "secret123",
		Organization: "Carol Inc",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", out.Role)
}
