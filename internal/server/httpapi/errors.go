package httpapi

import (
	"errors"

	"github.com/dmitrijs2005/csemanager/internal/common"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the JSON body of every non-validation error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps service errors to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	var fe *fiber.Error

	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return fiber.StatusBadRequest, common.ErrInvalidCredentials.Error()
	case errors.Is(err, common.ErrConflict):
		return fiber.StatusBadRequest, common.ErrConflict.Error()
	case errors.Is(err, common.ErrForbidden):
		return fiber.StatusForbidden, common.ErrForbidden.Error()
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return fiber.StatusUnauthorized, common.ErrUnauthorized.Error()
	case errors.Is(err, common.ErrNotFound):
		return fiber.StatusNotFound, common.ErrNotFound.Error()
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	default:
		return fiber.StatusInternalServerError, common.ErrorInternal.Error()
	}
}

// writeError renders err. Validation errors are sent as a flat
// field -> message object.
func writeError(c *fiber.Ctx, err error) error {
	var verr *common.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(verr.Fields)
	}

	status, msg := statusFor(err)
	return c.Status(status).JSON(ErrorResponse{Error: msg})
}
