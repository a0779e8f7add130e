package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"nicecatcher/internal/auth"
)

// UserIDLocalKey is the key under which the authenticated user id is stored
// in Fiber's context locals.
const UserIDLocalKey = "user_id"

// Auth guards a route group behind bearer-token authentication.
//
// Behavior:
// - Rejects requests without an Authorization header.
// - Accepts only "Bearer <token>" (scheme is case-insensitive).
// - Resolves the token to a user id through the verifier.
// - Stores the user id in context locals under UserIDLocalKey.
func Auth(verifier auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing Authorization header")
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid Authorization header")
		}

		userID, err := verifier.VerifyToken(c.UserContext(), parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals(UserIDLocalKey, userID)
		return c.Next()
	}
}
