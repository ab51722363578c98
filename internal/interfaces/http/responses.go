package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/nabl-labs/accounts-api/internal/application/dto"
	"github.com/nabl-labs/accounts-api/internal/domain"
	"github.com/nabl-labs/accounts-api/pkg/logger"
)

// responder maps domain errors to HTTP statuses and shapes every reply as the
// {success, message, data} envelope.
type responder struct {
	log  *logger.Logger
	prod bool
}

func newResponder(log *logger.Logger, prod bool) responder {
	return responder{log: log, prod: prod}
}

func (r responder) ok(c *fiber.Ctx, status int, data interface{}, message string) error {
	return c.Status(status).JSON(dto.OK(data, message))
}

func (r responder) fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.Fail(message))
}

// err maps a domain error onto an HTTP status. Unexpected errors are logged
// and, in production, replaced by a generic message.
func (r responder) err(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrResetTokenInvalid):
		return r.fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrMissingToken),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenExpired):
		return r.fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return r.fail(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return r.fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return r.fail(c, fiber.StatusConflict, err.Error())
	}

	r.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	msg := "Internal server error"
	if !r.prod {
		msg = err.Error()
	}
	return r.fail(c, fiber.StatusInternalServerError, msg)
}
