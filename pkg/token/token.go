// Package token issues and verifies the two JWT kinds used by the session
// layer. Access and refresh tokens are signed with independent HS256 secrets,
// so a token of one kind can never verify as the other.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failures. Expired is kept separate from Invalid so callers can
// preserve the distinction even where both map to the same HTTP status.
var (
	ErrExpired = errors.New("token: expired")
	ErrInvalid = errors.New("token: invalid")
)

// AccessClaims carries only the subject (user id).
type AccessClaims struct {
	jwt.RegisteredClaims
}

// RefreshClaims carries the subject plus username and email.
type RefreshClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Config for a Manager.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Manager signs and verifies both token kinds. The clock is injectable so
// expiry boundaries can be tested exactly.
type Manager struct {
	cfg Config
	now func() time.Time
}

// NewManager builds a Manager using the wall clock.
func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg, now: time.Now}
}

// WithClock returns a copy of the Manager that reads time from now. Issued
// and verified timestamps both use it.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	return &Manager{cfg: m.cfg, now: now}
}

// IssueAccess signs an access token for userID.
func (m *Manager) IssueAccess(userID string) (string, error) {
	if m.cfg.AccessSecret == "" {
		return "", errors.New("token: empty access secret")
	}
	now := m.now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.AccessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.AccessSecret))
}

// IssueRefresh signs a refresh token for userID with username and email claims.
func (m *Manager) IssueRefresh(userID, username, email string) (string, error) {
	if m.cfg.RefreshSecret == "" {
		return "", errors.New("token: empty refresh secret")
	}
	now := m.now()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti makes every refresh token distinct even when two logins
			// land inside the same second; the stored slot and logout-by-value
			// both compare exact token strings.
			ID:        uuid.NewString(),
			Issuer:    m.cfg.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.RefreshTTL)),
		},
		Username: username,
		Email:    email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.RefreshSecret))
}

// VerifyAccess validates an access token and returns its subject.
// Returns ErrExpired for an expired token and ErrInvalid for every other
// signature or structure failure.
func (m *Manager) VerifyAccess(tokenString string) (string, error) {
	var claims AccessClaims
	if err := m.parse(tokenString, &claims, m.cfg.AccessSecret); err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// VerifyRefresh validates a refresh token and returns its claims.
func (m *Manager) VerifyRefresh(tokenString string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := m.parse(tokenString, &claims, m.cfg.RefreshSecret); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (m *Manager) parse(tokenString string, claims jwt.Claims, secret string) error {
	tok, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalid
			}
			return []byte(secret), nil
		},
		jwt.WithTimeFunc(m.now),
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpired
		}
		return ErrInvalid
	}
	if !tok.Valid {
		return ErrInvalid
	}
	return nil
}
