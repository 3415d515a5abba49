package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/notehive/notehive/internal/apperr"
	"github.com/notehive/notehive/internal/auth"
	"github.com/notehive/notehive/internal/user"
)

// Auth validates the bearer token and attaches the authenticated user to the
// request. A token for a since-deleted user is rejected the same way as an
// invalid one.
func Auth(tokens *auth.TokenIssuer, users user.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return apperr.Unauthorized("Authentication required")
		}

		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		userID, err := tokens.Verify(tokenStr)
		if err != nil {
			return apperr.Unauthorized("Invalid authentication token")
		}

		u, err := users.FindByID(c.UserContext(), userID)
		if err != nil {
			return apperr.Unauthorized("Invalid authentication token")
		}

		c.Locals(user.LocalsKey, u)
		return c.Next()
	}
}

// RequireVerifiedEmail gates a route group on a verified address. Must run
// after Auth.
func RequireVerifiedEmail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, ok := user.FromContext(c)
		if !ok {
			return apperr.Unauthorized("Authentication required")
		}
		if !u.IsEmailVerified {
			return apperr.Forbidden("Email verification required")
		}
		return c.Next()
	}
}
