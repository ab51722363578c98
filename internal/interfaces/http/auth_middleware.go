package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/nabl-labs/accounts-api/internal/application/auth"
	"github.com/nabl-labs/accounts-api/internal/application/dto"
	"github.com/nabl-labs/accounts-api/internal/domain/entity"
)

// localIdentity is the Locals key holding the authenticated identity.
const localIdentity = "identity"

// bearerToken extracts the token from the Authorization header; empty when
// the header is missing or malformed.
func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth verifies the bearer access token and stores the identity
// projection in Locals for downstream handlers.
func RequireAuth(uc *auth.AuthUseCase, r responder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := uc.Authenticate(c.UserContext(), bearerToken(c))
		if err != nil {
			return r.err(c, err)
		}
		c.Locals(localIdentity, identity)
		return c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and lets
// the request through either way.
func OptionalAuth(uc *auth.AuthUseCase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if identity, err := uc.Authenticate(c.UserContext(), bearerToken(c)); err == nil {
			c.Locals(localIdentity, identity)
		}
		return c.Next()
	}
}

// RequireManager rejects callers without the manager flag. Must run after
// RequireAuth.
func RequireManager(r responder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := identityFrom(c)
		if id == nil || !id.Manager {
			return r.fail(c, fiber.StatusForbidden, "Manager access required")
		}
		return c.Next()
	}
}

// RequireAdmin rejects callers without the admin role. Must run after
// RequireAuth.
func RequireAdmin(r responder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := identityFrom(c)
		if id == nil || id.Role != entity.RoleAdmin {
			return r.fail(c, fiber.StatusForbidden, "Admin access required")
		}
		return c.Next()
	}
}

// identityFrom returns the identity placed by RequireAuth, nil when absent.
func identityFrom(c *fiber.Ctx) *dto.Identity {
	id, _ := c.Locals(localIdentity).(*dto.Identity)
	return id
}
