package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"educa_backend/internals/constants"
)

const testSecret = "test-secret"

func sign(t *testing.T, secret, role string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role":      role,
		"user_name": "secretaria",
		"exp":       exp.Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func newApp() *fiber.App {
	app := fiber.New()
	admin := app.Group("/a", AuthMiddleware(testSecret, zap.NewNop()), RequireRole("", constants.AdminOnly...))
	admin.Get("/ping", func(c *fiber.Ctx) error {
		p, _ := PrincipalFrom(c)
		return c.SendString(p.UserName)
	})
	app.Get("/pub", OptionalAuth(testSecret), func(c *fiber.Ctx) error {
		if p, ok := PrincipalFrom(c); ok && p.IsAdmin() {
			return c.SendString("admin")
		}
		return c.SendString("anon")
	})
	return app
}

func do(t *testing.T, app *fiber.App, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	buf := make([]byte, 256)
	n, _ := resp.Body.Read(buf)
	return resp.StatusCode, string(buf[:n])
}

func TestAuthMiddleware(t *testing.T) {
	app := newApp()
	hour := time.Now().Add(time.Hour)

	code, body := do(t, app, "/a/ping", sign(t, testSecret, constants.RoleAdmin, hour))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "secretaria", body)

	code, _ = do(t, app, "/a/ping", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = do(t, app, "/a/ping", sign(t, "other", constants.RoleAdmin, hour))
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = do(t, app, "/a/ping", sign(t, testSecret, constants.RoleAdmin, time.Now().Add(-time.Hour)))
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = do(t, app, "/a/ping", sign(t, testSecret, "viewer", hour))
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestOptionalAuth(t *testing.T) {
	app := newApp()

	_, body := do(t, app, "/pub", "")
	assert.Equal(t, "anon", body)

	_, body = do(t, app, "/pub", "garbage")
	assert.Equal(t, "anon", body)

	_, body = do(t, app, "/pub", sign(t, testSecret, constants.RoleAdmin, time.Now().Add(time.Hour)))
	assert.Equal(t, "admin", body)
}

func TestAuthMiddleware_NoSecret(t *testing.T) {
	app := fiber.New()
	app.Get("/x", AuthMiddleware("", zap.NewNop()), func(c *fiber.Ctx) error { return nil })

	code, _ := do(t, app, "/x", "anything")
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
}

type revokedSet map[string]bool

func (s revokedSet) IsRevoked(_ context.Context, raw string) (bool, error) { return s[raw], nil }

func TestRejectRevoked(t *testing.T) {
	good := sign(t, testSecret, constants.RoleAdmin, time.Now().Add(time.Hour))
	gone := sign(t, testSecret, constants.RoleAdmin, time.Now().Add(2*time.Hour))

	app := fiber.New()
	app.Get("/x",
		AuthMiddleware(testSecret, zap.NewNop()),
		RejectRevoked(revokedSet{gone: true}, zap.NewNop()),
		func(c *fiber.Ctx) error { return c.SendString("ok") },
	)

	code, _ := do(t, app, "/x", good)
	assert.Equal(t, fiber.StatusOK, code)
	code, _ = do(t, app, "/x", gone)
	assert.Equal(t, fiber.StatusUnauthorized, code)
}
