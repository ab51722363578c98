package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabl-labs/accounts-api/internal/application/auth"
	"github.com/nabl-labs/accounts-api/internal/application/usecase"
	"github.com/nabl-labs/accounts-api/internal/infrastructure/memory"
	apphttp "github.com/nabl-labs/accounts-api/internal/interfaces/http"
	"github.com/nabl-labs/accounts-api/pkg/logger"
	"github.com/nabl-labs/accounts-api/pkg/password"
	"github.com/nabl-labs/accounts-api/pkg/token"
)

// recordingMailer captures reset emails for assertions.
type recordingMailer struct {
	resetURL string
}

func (m *recordingMailer) SendPasswordReset(ctx context.Context, to, firstname, resetURL string) error {
	m.resetURL = resetURL
	return nil
}

type testServer struct {
	app    *fiber.App
	mailer *recordingMailer
	users  *memory.UserRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	users := memory.NewUserRepository()
	orgs := memory.NewOrganizationRepository()
	keys := memory.NewKeyRepository(users)
	locations := memory.NewLocationRepository(users)

	hasher, err := password.NewHasher(4)
	require.NoError(t, err)
	tokens := token.NewManager(token.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "accounts-api-test",
	})
	mailer := &recordingMailer{}
	authUC := auth.NewAuthUseCase(users, memory.NewTxRunner(orgs, users), tokens, hasher, mailer, "http://localhost:3000")

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         authUC,
		UserUC:         usecase.NewUserUseCase(users),
		OrganizationUC: usecase.NewOrganizationUseCase(orgs, users),
		KeyUC:          usecase.NewKeyUseCase(keys),
		LocationUC:     usecase.NewLocationUseCase(locations),
		Log:            logger.New(logger.Config{Env: "development", Level: "error"}),
		Production:     false,
		MinPassword:    6,
		CookieMaxAge:   30 * 24 * time.Hour,
	})
	return &testServer{app: app, mailer: mailer, users: users}
}

// promoteToManager flips the manager flag in the store. The identity is
// reloaded on every authenticated request, so existing tokens pick it up.
func (s *testServer) promoteToManager(t *testing.T, userID string) {
	t.Helper()
	u, err := s.users.GetByID(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, u)
	u.Manager = true
	require.NoError(t, s.users.Update(context.Background(), u))
}

func (s *testServer) do(t *testing.T, method, path string, body any, header map[string]string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func validRegisterBody() map[string]any {
	return map[string]any{
		"firstName":       "Alice",
		"lastName":        "Smith",
		"userName":        "alice",
		"email":           "alice@example.com",
		"password":        "hunter22",
		"confirmPassword": "hunter22",
		"organization":    "Acme Corp",
	}
}

// register creates a user and returns the access token and user id from a
// follow-up login.
func (s *testServer) register(t *testing.T) (accessToken, userID string) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/users/register", validRegisterBody(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/users/login", map[string]any{
		"email": "alice@example.com", "password": "hunter22",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	var out struct {
		AccessToken string `json:"accessToken"`
		UserID      string `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out.AccessToken, out.UserID
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing email", func(b map[string]any) { b["email"] = "" }},
		{"missing username", func(b map[string]any) { b["userName"] = "" }},
		{"missing organization", func(b map[string]any) { b["organization"] = "" }},
		{"bad email", func(b map[string]any) { b["email"] = "not-an-email" }},
		{"short password", func(b map[string]any) { b["password"] = "abc"; b["confirmPassword"] = "abc" }},
		{"password mismatch", func(b map[string]any) { b["confirmPassword"] = "different" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := validRegisterBody()
			tc.mutate(body)
			resp := s.do(t, http.MethodPost, "/api/users/register", body, nil)
			env := decodeEnvelope(t, resp)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.False(t, env.Success)
		})
	}
}

func TestRegisterDuplicateReturns400(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/users/register", validRegisterBody(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/users/register", validRegisterBody(), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestLoginSetsRefreshCookie(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/users/register", validRegisterBody(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/users/login", map[string]any{
		"email": "alice@example.com", "password": "hunter22",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "refreshToken" {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "login must set the refresh cookie")
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	env := decodeEnvelope(t, resp)
	assert.True(t, env.Success)
	// The refresh token travels only in the cookie, never in the body.
	assert.NotContains(t, string(env.Data), cookie.Value)
}

func TestLoginWrongPassword(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/users/register", validRegisterBody(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/users/login", map[string]any{
		"email": "alice@example.com", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Unknown email gets the same status.
	resp = s.do(t, http.MethodPost, "/api/users/login", map[string]any{
		"email": "nobody@example.com", "password": "hunter22",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

// A malformed email is a validation failure, not a credential failure.
func TestLoginRejectsMalformedEmail(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/users/login", map[string]any{
		"email": "not-an-email", "password": "hunter22",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestLogoutClearsCookie(t *testing.T) {
	s := newTestServer(t)
	s.register(t)

	resp := s.do(t, http.MethodPost, "/api/users/logout", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == "refreshToken" {
			assert.Empty(t, c.Value)
			assert.True(t, c.Expires.Before(time.Now()), "cookie must be expired")
		}
	}
	resp.Body.Close()
}

func TestProfileRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/users/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/users/profile", nil, bearer("garbage.token.here"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestServer(t)
	access, userID := s.register(t)

	resp := s.do(t, http.MethodGet, "/api/users/profile", nil, bearer(access))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env := decodeEnvelope(t, resp)

	var profile map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, userID, profile["id"])
	assert.Equal(t, "alice", profile["username"])
	// Credential fields never serialize.
	assert.NotContains(t, profile, "password_hash")
	assert.NotContains(t, profile, "refresh_token")
	assert.NotContains(t, profile, "reset_token")

	resp = s.do(t, http.MethodPut, "/api/users/profile", map[string]any{
		"firstname": "Alicia",
	}, bearer(access))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/users/profile", nil, bearer(access))
	env = decodeEnvelope(t, resp)
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "Alicia", profile["firstname"])
}

func TestManagerGateBlocksPlainUsers(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.register(t)

	resp := s.do(t, http.MethodGet, "/api/users/all", nil, bearer(access))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/keys/all", nil, bearer(access))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/organizations/", nil, bearer(access))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/users/forgot-password", map[string]any{
		"email": "nobody@example.com",
	}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestPasswordResetFlow(t *testing.T) {
	s := newTestServer(t)
	s.register(t)

	resp := s.do(t, http.MethodPost, "/api/users/forgot-password", map[string]any{
		"email": "alice@example.com",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	u, err := url.Parse(s.mailer.resetURL)
	require.NoError(t, err)
	resetToken := u.Query().Get("token")
	require.NotEmpty(t, resetToken)

	// The confirmation is mandatory.
	resp = s.do(t, http.MethodPost, "/api/users/reset-password", map[string]any{
		"token":       resetToken,
		"newPassword": "fresh-password",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/users/reset-password", map[string]any{
		"token":           resetToken,
		"newPassword":     "fresh-password",
		"confirmPassword": "fresh-password",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The token burned on redemption.
	resp = s.do(t, http.MethodPost, "/api/users/reset-password", map[string]any{
		"token":           resetToken,
		"newPassword":     "another-password",
		"confirmPassword": "another-password",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Old password rejected, new one accepted.
	resp = s.do(t, http.MethodPost, "/api/users/login", map[string]any{
		"email": "alice@example.com", "password": "hunter22",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/users/login", map[string]any{
		"email": "alice@example.com", "password": "fresh-password",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestChangePassword(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.register(t)

	// Missing confirmation is a validation failure.
	resp := s.do(t, http.MethodPost, "/api/users/change-password", map[string]any{
		"currentPassword": "hunter22",
		"newPassword":     "next-password",
	}, bearer(access))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/users/change-password", map[string]any{
		"currentPassword": "wrong",
		"newPassword":     "next-password",
		"confirmPassword": "next-password",
	}, bearer(access))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/users/change-password", map[string]any{
		"currentPassword": "hunter22",
		"newPassword":     "next-password",
		"confirmPassword": "next-password",
	}, bearer(access))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/users/login", map[string]any{
		"email": "alice@example.com", "password": "next-password",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
