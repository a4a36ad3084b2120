package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/restbridge/restbridge/internal/auth"
	"github.com/restbridge/restbridge/internal/types"
)

// Authenticate issues a signed token for a valid credentials, token or
// oauth request.
func (h *AuthHandler) Authenticate(c *fiber.Ctx) error {
	var req auth.Request
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, types.NewValidation(ErrMsgInvalidReqBody))
	}

	token, err := h.dispatcher.Authenticate(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(types.AuthResponse{Token: token})
}
