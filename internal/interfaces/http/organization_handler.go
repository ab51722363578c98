package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/nabl-labs/accounts-api/internal/application/dto"
	"github.com/nabl-labs/accounts-api/internal/application/usecase"
	"github.com/nabl-labs/accounts-api/internal/domain"
)

// OrganizationHandler admin organization CRUD endpoints.
type OrganizationHandler struct {
	uc *usecase.OrganizationUseCase
	r  responder
}

func NewOrganizationHandler(uc *usecase.OrganizationUseCase, r responder) *OrganizationHandler {
	return &OrganizationHandler{uc: uc, r: r}
}

func (h *OrganizationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, out, "")
}

func (h *OrganizationHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, out, "")
}

func (h *OrganizationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrganizationRequest
	if err := c.BodyParser(&in); err != nil {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.Name == "" {
		return h.r.fail(c, fiber.StatusBadRequest, "Organization name is required")
	}

	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return h.r.fail(c, fiber.StatusBadRequest, "Organization with this name already exists")
		}
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusCreated, out, "Organization created successfully")
}

func (h *OrganizationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrganizationRequest
	if err := c.BodyParser(&in); err != nil {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.Name != nil && *in.Name == "" {
		return h.r.fail(c, fiber.StatusBadRequest, "Organization name cannot be empty")
	}

	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return h.r.fail(c, fiber.StatusBadRequest, "Organization with this name already exists")
		}
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, out, "Organization updated successfully")
}

// Delete removes an organization unless users still reference it.
func (h *OrganizationHandler) Delete(c *fiber.Ctx) error {
	count, err := h.uc.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return h.r.fail(c, fiber.StatusConflict,
				fmt.Sprintf("Cannot delete organization: %d user(s) still belong to it", count))
		}
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, nil, "Organization deleted successfully")
}
