package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabl-labs/accounts-api/internal/application/auth"
	"github.com/nabl-labs/accounts-api/internal/application/dto"
	"github.com/nabl-labs/accounts-api/internal/infrastructure/memory"
	apphttp "github.com/nabl-labs/accounts-api/internal/interfaces/http"
	"github.com/nabl-labs/accounts-api/pkg/password"
	"github.com/nabl-labs/accounts-api/pkg/token"
)

type nullMailer struct{}

func (nullMailer) SendPasswordReset(ctx context.Context, to, firstname, resetURL string) error {
	return nil
}

// optionalAuthApp wires only OptionalAuth plus a handler reporting whether an
// identity was attached.
func optionalAuthApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	users := memory.NewUserRepository()
	orgs := memory.NewOrganizationRepository()
	hasher, err := password.NewHasher(4)
	require.NoError(t, err)
	tokens := token.NewManager(token.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    time.Hour,
	})
	uc := auth.NewAuthUseCase(users, memory.NewTxRunner(orgs, users), tokens, hasher, nullMailer{}, "http://localhost:3000")

	reg, err := uc.Register(context.Background(), dto.RegisterRequest{
		FirstName:       "Bob",
		LastName:        "Jones",
		UserName:        "bob",
		Email:           "bob@example.com",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
		Organization:    "Bob Inc",
	})
	require.NoError(t, err)
	access, err := tokens.IssueAccess(reg.ID)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/maybe", apphttp.OptionalAuth(uc), func(c *fiber.Ctx) error {
		_, authed := c.Locals("identity").(*dto.Identity)
		return c.JSON(fiber.Map{"anonymous": !authed})
	})
	return app, access
}

func TestOptionalAuth(t *testing.T) {
	app, access := optionalAuthApp(t)

	// No token: request passes through anonymously.
	req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body["anonymous"])

	// Garbage token: still passes, still anonymous.
	req = httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set("Authorization", "Bearer garbage.token.here")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body["anonymous"])

	// Valid token: identity attached.
	req = httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body["anonymous"])
}

// Malformed Authorization headers are treated as missing, not invalid.
func TestBearerHeaderShapes(t *testing.T) {
	s := newTestServer(t)

	for _, header := range []string{"Basic abc123", "Bearer", "token-without-scheme"} {
		resp := s.do(t, http.MethodGet, "/api/users/profile", nil, map[string]string{
			"Authorization": header,
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "header %q", header)
		resp.Body.Close()
	}
}
