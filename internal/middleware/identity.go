package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

const userIDHeader = "X-User-ID"

// Identity resolves the caller identity supplied by the upstream auth
// layer. Authentication itself happens outside this service; by the time a
// request arrives here the gateway has verified the credential and stamped
// the resolved user id on the request.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := c.Get(userIDHeader)
		if uid == "" {
			return fiber.NewError(http.StatusUnauthorized, "missing caller identity")
		}
		c.Locals("user_id", uid)
		return c.Next()
	}
}
