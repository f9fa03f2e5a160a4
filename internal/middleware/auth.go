// Package middleware contains HTTP middleware functions for the Open
// Invitational API. Middleware sits between the HTTP server and route
// handlers — it runs on every request that passes through it, making it the
// right place for cross-cutting concerns like authentication.
package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	// jwt signs and parses the JSON Web Tokens used as session credentials
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/trentd187/open-invitational/internal/config"
)

// tokenLifetime matches the original product decision: a login is good for a
// week, comfortably covering a tournament's whole scoring window.
const tokenLifetime = 7 * 24 * time.Hour

// Claims is the payload of our auth tokens: the user's internal UUID and
// email on top of the standard registered fields (expiry, issued-at).
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// GenerateToken creates a signed HS256 token for the given user. Handlers
// call this after register/login and hand the token to the client, which
// sends it back as "Authorization: Bearer <token>".
func GenerateToken(secret string, userID uuid.UUID, email string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID.String(),
		Email:  email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// parseToken validates the signature and expiry of a bearer token and
// returns its claims. Only HS256 is accepted — restricting the method stops
// the classic "alg: none" downgrade.
func parseToken(secret, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// bearerToken pulls the raw token out of an "Authorization: Bearer x" header.
// Returns "" if the header is missing or malformed.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// Auth returns a middleware handler that rejects requests without a valid
// token. On success it stores the caller's ID and email in the request
// context (c.Locals), where handlers read them without re-parsing the token.
func Auth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}

		claims, err := parseToken(cfg.JWTSecret, tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		c.Locals("userID", claims.UserID)
		c.Locals("userEmail", claims.Email)
		return c.Next()
	}
}

// UserID reads the authenticated user's UUID from the request context.
// Returns uuid.Nil and false when the request is anonymous (possible under
// OptionalAuth) or the stored value is unparsable.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	idStr, _ := c.Locals("userID").(string)
	if idStr == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
