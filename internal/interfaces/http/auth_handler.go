package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nabl-labs/accounts-api/internal/application/auth"
	"github.com/nabl-labs/accounts-api/internal/application/dto"
)

// refreshCookie is the name of the HTTP-only session cookie carrying the
// refresh token.
const refreshCookie = "refreshToken"

// AuthHandler registration, login/logout and the password flows.
type AuthHandler struct {
	uc           *auth.AuthUseCase
	r            responder
	minPassword  int
	cookieMaxAge time.Duration
	secureCookie bool
}

func NewAuthHandler(uc *auth.AuthUseCase, r responder, minPassword int, cookieMaxAge time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		uc:           uc,
		r:            r,
		minPassword:  minPassword,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
	}
}

// Register handles self-registration: organization plus user in one shot.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.UserName == "" || in.Email == "" || in.Password == "" || in.Organization == "" {
		return h.r.fail(c, fiber.StatusBadRequest, "Username, email, password and organization are required")
	}
	if !validEmail(in.Email) {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid email format")
	}
	if len(in.Password) < h.minPassword {
		return h.r.fail(c, fiber.StatusBadRequest, h.passwordTooShort())
	}
	if in.Password != in.ConfirmPassword {
		return h.r.fail(c, fiber.StatusBadRequest, "Passwords do not match")
	}

	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusCreated, out, "User registered successfully")
}

// Login verifies credentials, returns the access token in the body and sets
// the refresh token as an HTTP-only cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.Email == "" || in.Password == "" {
		return h.r.fail(c, fiber.StatusBadRequest, "Email and password are required")
	}
	if !validEmail(in.Email) {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid email format")
	}

	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return h.r.err(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    out.RefreshToken,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
		MaxAge:   int(h.cookieMaxAge.Seconds()),
	})
	return h.r.ok(c, fiber.StatusOK, out.Body, "Login successful")
}

// Logout clears the stored refresh token and the cookie. Succeeds even when
// no cookie is present or the token matches no session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.UserContext(), c.Cookies(refreshCookie)); err != nil {
		return h.r.err(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    "",
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
		Expires:  time.Now().Add(-time.Hour),
	})
	return h.r.ok(c, fiber.StatusOK, nil, "Logged out successfully")
}

// ForgotPassword sends the reset email. Unknown emails return 404; the
// original behavior is kept so the frontend can tell the user directly.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.Email == "" {
		return h.r.fail(c, fiber.StatusBadRequest, "Email is required")
	}
	if !validEmail(in.Email) {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid email format")
	}

	if err := h.uc.RequestReset(c.UserContext(), in.Email); err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, nil, "Password reset email sent")
}

// ResetPassword redeems a reset token for a new password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.Token == "" || in.NewPassword == "" || in.ConfirmPassword == "" {
		return h.r.fail(c, fiber.StatusBadRequest, "Token, new password and confirmation are required")
	}
	if len(in.NewPassword) < h.minPassword {
		return h.r.fail(c, fiber.StatusBadRequest, h.passwordTooShort())
	}
	if in.NewPassword != in.ConfirmPassword {
		return h.r.fail(c, fiber.StatusBadRequest, "Passwords do not match")
	}

	if err := h.uc.RedeemReset(c.UserContext(), in.Token, in.NewPassword); err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, nil, "Password has been reset successfully")
}

// ChangePassword rotates the authenticated caller's password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	identity := identityFrom(c)
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.CurrentPassword == "" || in.NewPassword == "" || in.ConfirmPassword == "" {
		return h.r.fail(c, fiber.StatusBadRequest, "Current password, new password and confirmation are required")
	}
	if len(in.NewPassword) < h.minPassword {
		return h.r.fail(c, fiber.StatusBadRequest, h.passwordTooShort())
	}
	if in.NewPassword != in.ConfirmPassword {
		return h.r.fail(c, fiber.StatusBadRequest, "Passwords do not match")
	}

	if err := h.uc.ChangePassword(c.UserContext(), identity.ID, in.CurrentPassword, in.NewPassword); err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, nil, "Password changed successfully")
}

func (h *AuthHandler) passwordTooShort() string {
	return fmt.Sprintf("Password must be at least %d characters long", h.minPassword)
}
