package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabl-labs/accounts-api/pkg/token"
)

const (
	testUserID   = "00000000-0000-0000-0000-000000000001"
	testUsername = "alice"
	testEmail    = "alice@example.com"
)

func testConfig() token.Config {
	return token.Config{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "accounts-api-test",
	}
}

func TestIssueAndVerifyAccess(t *testing.T) {
	m := token.NewManager(testConfig())

	tok, err := m.IssueAccess(testUserID)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	subject, err := m.VerifyAccess(tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, subject)
}

func TestIssueAndVerifyRefresh(t *testing.T) {
	m := token.NewManager(testConfig())

	tok, err := m.IssueRefresh(testUserID, testUsername, testEmail)
	require.NoError(t, err)

	claims, err := m.VerifyRefresh(tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.Subject)
	assert.Equal(t, testUsername, claims.Username)
	assert.Equal(t, testEmail, claims.Email)
}

// Two refresh tokens issued at the same instant for the same user must still
// differ, or a stored token from one login would match another login's token.
func TestRefreshTokensAreUnique(t *testing.T) {
	frozen := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := token.NewManager(testConfig()).WithClock(func() time.Time { return frozen })

	first, err := m.IssueRefresh(testUserID, testUsername, testEmail)
	require.NoError(t, err)
	second, err := m.IssueRefresh(testUserID, testUsername, testEmail)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	claims, err := m.VerifyRefresh(first)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
}

// The two kinds are signed with independent secrets, so neither verifies as
// the other.
func TestTokenKindsDoNotCross(t *testing.T) {
	m := token.NewManager(testConfig())

	access, err := m.IssueAccess(testUserID)
	require.NoError(t, err)
	refresh, err := m.IssueRefresh(testUserID, testUsername, testEmail)
	require.NoError(t, err)

	_, err = m.VerifyRefresh(access)
	assert.ErrorIs(t, err, token.ErrInvalid)
	_, err = m.VerifyAccess(refresh)
	assert.ErrorIs(t, err, token.ErrInvalid)
}

func TestVerifyWrongSecret(t *testing.T) {
	m := token.NewManager(testConfig())
	tok, err := m.IssueAccess(testUserID)
	require.NoError(t, err)

	other := testConfig()
	other.AccessSecret = "a-completely-different-secret"
	_, err = token.NewManager(other).VerifyAccess(tok)
	assert.ErrorIs(t, err, token.ErrInvalid)
}

func TestVerifyMalformed(t *testing.T) {
	m := token.NewManager(testConfig())
	_, err := m.VerifyAccess("not.a.token")
	assert.ErrorIs(t, err, token.ErrInvalid)
}

// A token expiring at T+TTL verifies just before the boundary and fails just
// after it with ErrExpired.
func TestExpiryBoundary(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cfg := testConfig()

	issuer := token.NewManager(cfg).WithClock(func() time.Time { return issued })
	tok, err := issuer.IssueAccess(testUserID)
	require.NoError(t, err)

	before := token.NewManager(cfg).WithClock(func() time.Time {
		return issued.Add(cfg.AccessTTL - time.Second)
	})
	subject, err := before.VerifyAccess(tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, subject)

	after := token.NewManager(cfg).WithClock(func() time.Time {
		return issued.Add(cfg.AccessTTL + time.Second)
	})
	_, err = after.VerifyAccess(tok)
	assert.ErrorIs(t, err, token.ErrExpired)
}
