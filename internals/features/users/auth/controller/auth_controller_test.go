package controller_test

import (
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"educa_backend/internals/features/users/auth/route"
	"educa_backend/internals/features/users/auth/service"
	"educa_backend/internals/middlewares"
	authMw "educa_backend/internals/middlewares/auth"
)

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "auth.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	revoked := service.NewRevocationStore(db, "secret")
	require.NoError(t, revoked.Migrate())
	auth := service.NewAuthService(service.AdminAccount{UserName: "admin", Password: "1234"}, "secret", time.Hour)

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler(zap.NewNop())})
	route.AuthRoutes(app, auth, revoked)
	app.Get("/a/me",
		authMw.AuthMiddleware("secret", zap.NewNop()),
		authMw.RejectRevoked(revoked, zap.NewNop()),
		func(c *fiber.Ctx) error { return c.SendString("ok") },
	)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out := map[string]any{}
	_ = sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestLoginLogout(t *testing.T) {
	app := newAuthApp(t)

	code, _ := call(t, app, fiber.MethodPost, "/api/auth/login", `{"username":"admin","password":"nope"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, body := call(t, app, fiber.MethodPost, "/api/auth/login", `{"username":"admin","password":"1234"}`, "")
	require.Equal(t, fiber.StatusOK, code)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	tok, _ := data["access_token"].(string)
	require.NotEmpty(t, tok)

	code, _ = call(t, app, fiber.MethodGet, "/a/me", "", tok)
	assert.Equal(t, fiber.StatusOK, code)

	code, _ = call(t, app, fiber.MethodPost, "/api/auth/logout", "", tok)
	assert.Equal(t, fiber.StatusOK, code)

	code, _ = call(t, app, fiber.MethodGet, "/a/me", "", tok)
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestLogin_MissingFields(t *testing.T) {
	app := newAuthApp(t)
	code, _ := call(t, app, fiber.MethodPost, "/api/auth/login", `{"username":"admin"}`, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
}
