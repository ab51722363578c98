package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nabl-labs/accounts-api/internal/application/auth"
	"github.com/nabl-labs/accounts-api/internal/application/dto"
	"github.com/nabl-labs/accounts-api/internal/application/usecase"
)

// UserHandler profile and user administration endpoints.
type UserHandler struct {
	uc     *usecase.UserUseCase
	authUC *auth.AuthUseCase
	r      responder
}

func NewUserHandler(uc *usecase.UserUseCase, authUC *auth.AuthUseCase, r responder) *UserHandler {
	return &UserHandler{uc: uc, authUC: authUC, r: r}
}

// Profile returns the caller's own profile.
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	out, err := h.uc.GetProfile(c.UserContext(), identityFrom(c).ID)
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, out, "")
}

// UpdateProfile applies a partial update to the caller's profile.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.Username != nil && *in.Username == "" {
		return h.r.fail(c, fiber.StatusBadRequest, "Username cannot be empty")
	}
	if err := h.uc.UpdateProfile(c.UserContext(), identityFrom(c).ID, in); err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, nil, "Profile updated successfully")
}

// List returns all users (manager endpoint).
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, out, "")
}

// Add creates a user with explicit role and manager flags (manager endpoint).
func (h *UserHandler) Add(c *fiber.Ctx) error {
	var in dto.AddUserRequest
	if err := c.BodyParser(&in); err != nil {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.UserName == "" || in.Email == "" || in.Password == "" || in.Organization == "" {
		return h.r.fail(c, fiber.StatusBadRequest, "Username, email, password and organization are required")
	}
	if !validEmail(in.Email) {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid email format")
	}

	out, err := h.authUC.AddUser(c.UserContext(), in)
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusCreated, out, "User added successfully")
}

// GetByID returns one user (admin endpoint).
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetProfile(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, out, "")
}

// SaveUserType stores the caller's user type.
func (h *UserHandler) SaveUserType(c *fiber.Ctx) error {
	var in dto.UserTypeRequest
	if err := c.BodyParser(&in); err != nil {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.UserType == "" {
		return h.r.fail(c, fiber.StatusBadRequest, "User type is required")
	}
	if err := h.uc.SaveUserType(c.UserContext(), identityFrom(c).ID, in.UserType); err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, nil, "User type saved successfully")
}

// GetUserType returns the caller's user type.
func (h *UserHandler) GetUserType(c *fiber.Ctx) error {
	out, err := h.uc.GetUserType(c.UserContext(), identityFrom(c).ID)
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, out, "")
}
