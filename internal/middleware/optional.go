// optional.go — opportunistic authentication.
// Several endpoints (adding players, editing the roster) work both for the
// logged-in organizer and for anonymous guests who only hold the game code.
// OptionalAuth attaches the user's identity when a valid token is present
// and lets the request through either way.
package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/trentd187/open-invitational/internal/config"
)

// OptionalAuth parses a bearer token if one is supplied but never rejects
// the request. A malformed or expired token is treated the same as no token:
// the request proceeds anonymously and UserID(c) reports false.
//
// OptionalAuth must be used INSTEAD of Auth on a route, never together —
// Auth would already have rejected the anonymous case.
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			return c.Next()
		}

		claims, err := parseToken(cfg.JWTSecret, tokenStr)
		if err != nil {
			// Invalid credentials on an optional route: proceed as anonymous
			// rather than failing an action a guest could have performed.
			return c.Next()
		}

		c.Locals("userID", claims.UserID)
		c.Locals("userEmail", claims.Email)
		return c.Next()
	}
}
