package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/nabl-labs/accounts-api/internal/application/dto"
	"github.com/nabl-labs/accounts-api/internal/application/usecase"
	"github.com/nabl-labs/accounts-api/internal/domain"
)

// KeyHandler API key record endpoints.
type KeyHandler struct {
	uc *usecase.KeyUseCase
	r  responder
}

func NewKeyHandler(uc *usecase.KeyUseCase, r responder) *KeyHandler {
	return &KeyHandler{uc: uc, r: r}
}

// MyKeys returns the caller's active keys.
func (h *KeyHandler) MyKeys(c *fiber.Ctx) error {
	out, err := h.uc.MyKeys(c.UserContext(), identityFrom(c).ID)
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, out, "")
}

// ListAll returns every key with its owner (manager endpoint).
func (h *KeyHandler) ListAll(c *fiber.Ctx) error {
	out, err := h.uc.ListAll(c.UserContext())
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, out, "")
}

func (h *KeyHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"), *identityFrom(c))
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, out, "")
}

func (h *KeyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateKeyRequest
	if err := c.BodyParser(&in); err != nil {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.Key == "" {
		return h.r.fail(c, fiber.StatusBadRequest, "Key is required")
	}

	out, err := h.uc.Create(c.UserContext(), identityFrom(c).ID, in)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return h.r.fail(c, fiber.StatusBadRequest, "This key is already saved")
		}
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusCreated, out, "Key saved successfully")
}

func (h *KeyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateKeyRequest
	if err := c.BodyParser(&in); err != nil {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	out, err := h.uc.Update(c.UserContext(), c.Params("id"), *identityFrom(c), in)
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, out, "Key updated successfully")
}

func (h *KeyHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id"), *identityFrom(c)); err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, nil, "Key deleted successfully")
}
