package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nabl-labs/accounts-api/internal/application/dto"
	"github.com/nabl-labs/accounts-api/internal/application/usecase"
	"github.com/nabl-labs/accounts-api/internal/domain/entity"
)

// LocationHandler user location endpoints.
type LocationHandler struct {
	uc *usecase.LocationUseCase
	r  responder
}

func NewLocationHandler(uc *usecase.LocationUseCase, r responder) *LocationHandler {
	return &LocationHandler{uc: uc, r: r}
}

// MyLocations returns the caller's active locations, primary first.
func (h *LocationHandler) MyLocations(c *fiber.Ctx) error {
	out, err := h.uc.MyLocations(c.UserContext(), identityFrom(c).ID)
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, out, "")
}

// ByType returns the caller's active locations of one type.
func (h *LocationHandler) ByType(c *fiber.Ctx) error {
	locationType := c.Params("locationType")
	if !validLocationType(locationType) {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid location type")
	}
	out, err := h.uc.ByType(c.UserContext(), identityFrom(c).ID, locationType)
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, out, "")
}

// Primary returns the caller's primary location; data is null when none is
// set.
func (h *LocationHandler) Primary(c *fiber.Ctx) error {
	out, err := h.uc.Primary(c.UserContext(), identityFrom(c).ID)
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, out, "")
}

// ListAll returns every location with its owner (manager endpoint).
func (h *LocationHandler) ListAll(c *fiber.Ctx) error {
	out, err := h.uc.ListAll(c.UserContext())
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, out, "")
}

func (h *LocationHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"), *identityFrom(c))
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, out, "")
}

func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.LocationName == "" {
		return h.r.fail(c, fiber.StatusBadRequest, "Location name is required")
	}
	if in.LocationType != "" && !validLocationType(in.LocationType) {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid location type")
	}
	if !validCoordinates(in.Latitude, in.Longitude) {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid coordinates")
	}

	out, err := h.uc.Create(c.UserContext(), identityFrom(c).ID, in)
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusCreated, out, "Location created successfully")
}

func (h *LocationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.LocationType != nil && *in.LocationType != "" && !validLocationType(*in.LocationType) {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid location type")
	}
	if !validCoordinates(in.Latitude, in.Longitude) {
		return h.r.fail(c, fiber.StatusBadRequest, "Invalid coordinates")
	}

	out, err := h.uc.Update(c.UserContext(), c.Params("id"), *identityFrom(c), in)
	if err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, out, "Location updated successfully")
}

// SetPrimary promotes a location to primary.
func (h *LocationHandler) SetPrimary(c *fiber.Ctx) error {
	if err := h.uc.SetPrimary(c.UserContext(), c.Params("id"), *identityFrom(c)); err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, nil, "Primary location updated successfully")
}

func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id"), *identityFrom(c)); err != nil {
		return h.r.err(c, err)
	}
	return h.r.ok(c, fiber.StatusOK, nil, "Location deleted successfully")
}

func validLocationType(t string) bool {
	switch t {
	case entity.LocationTypeHome, entity.LocationTypeWork, entity.LocationTypeOffice,
		entity.LocationTypeBranch, entity.LocationTypeWarehouse, entity.LocationTypeOther:
		return true
	}
	return false
}
