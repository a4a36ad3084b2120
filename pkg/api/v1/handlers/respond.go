package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	log "github.com/restbridge/restbridge/internal/logger"
	"github.com/restbridge/restbridge/internal/types"
)

// respondError translates a service error into the HTTP response. The
// message travels to the client verbatim except for internal errors,
// which are logged and replaced with an opaque message.
func respondError(c *fiber.Ctx, err error) error {
	switch types.KindOf(err) {
	case types.KindValidation:
		return respondErrorStatus(c, fiber.StatusBadRequest, err.Error())
	case types.KindAuth:
		return respondErrorStatus(c, fiber.StatusUnauthorized, err.Error())
	case types.KindPermission:
		return respondErrorStatus(c, fiber.StatusForbidden, err.Error())
	case types.KindNotFound:
		return respondErrorStatus(c, fiber.StatusNotFound, err.Error())
	default:
		log.ErrorWithFields("Unhandled error", map[string]interface{}{
			"error":  err.Error(),
			"method": c.Method(),
			"path":   c.Path(),
		})
		return respondErrorStatus(c, fiber.StatusInternalServerError, ErrMsgInternal)
	}
}

func respondErrorStatus(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(types.ErrorResponse{Error: msg})
}
