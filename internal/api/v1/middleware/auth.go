package middleware

import (
	"strings"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/restbridge/restbridge/internal/auth"
	"github.com/restbridge/restbridge/internal/types"
)

const principalKey = "principal"

// BearerAuth validates the Authorization header on every protected route
// and stores the resolved principal on the request context. Requests
// without a valid bearer token never reach a handler.
func BearerAuth(codec *auth.TokenCodec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).
				JSON(types.ErrorResponse{Error: auth.ErrMsgAccessDenied})
		}

		principal, err := codec.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).
				JSON(types.ErrorResponse{Error: err.Error()})
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// Principal returns the authenticated principal of the current request.
// The bool is false on routes that skipped BearerAuth.
func Principal(c *fiber.Ctx) (auth.Principal, bool) {
	p, ok := c.Locals(principalKey).(auth.Principal)
	return p, ok
}
