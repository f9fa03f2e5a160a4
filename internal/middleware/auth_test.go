package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trentd187/open-invitational/internal/config"
)

const testSecret = "test-secret"

// echoApp mounts a route behind the given middleware that echoes back the
// user ID the middleware stored in the request context.
func echoApp(mw fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", mw, func(c *fiber.Ctx) error {
		id, ok := UserID(c)
		return c.JSON(fiber.Map{"id": id.String(), "authenticated": ok})
	})
	return app
}

func TestAuthAcceptsSignedToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	userID := uuid.New()

	token, err := GenerateToken(testSecret, userID, "golfer@example.com")
	require.NoError(t, err)

	app := echoApp(Auth(cfg))
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := echoApp(Auth(cfg))

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header"},
		{name: "not a bearer header", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestAuthRejectsTokenSignedWithOtherSecret(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	token, err := GenerateToken("some-other-secret", uuid.New(), "golfer@example.com")
	require.NoError(t, err)

	app := echoApp(Auth(cfg))
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := echoApp(OptionalAuth(cfg))

	// No token at all: request passes through, identity absent.
	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// A broken token is treated the same as none.
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer junk")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
