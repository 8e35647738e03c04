package controller_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"educa_backend/internals/features/schools/directory/controller"
	"educa_backend/internals/features/schools/directory/route"
	"educa_backend/internals/features/schools/directory/service"
	seedSchool "educa_backend/internals/seeds/schools/schools"
)

func setup(t *testing.T, ping func(context.Context) error) (*fiber.App, *service.Directory) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "educa.db")), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := service.NewGormStore(db)
	require.NoError(t, store.Migrate())
	dir := service.NewDirectory(store, seedSchool.MustDefault())
	require.NoError(t, dir.Load(context.Background()))

	app := fiber.New()
	route.SystemAdminRoutes(app.Group("/api/a"), dir, ping, zap.NewNop())
	return app, dir
}

func send(t *testing.T, app *fiber.App, method, target, body string) (int, controller.StatusResponse) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var env struct {
		Data controller.StatusResponse `json:"data"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env.Data
}

func TestStatusAndBackup(t *testing.T) {
	app, _ := setup(t, nil)

	code, st := send(t, app, http.MethodGet, "/api/a/system/status", "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, st.Loaded)
	assert.Equal(t, 6, st.Schools)
	assert.Equal(t, 14, st.Students)
	assert.Nil(t, st.LastBackup)
	assert.Empty(t, st.LastBackupLabel)
	assert.Equal(t, "ok", st.Database)

	code, _ = send(t, app, http.MethodPost, "/api/a/system/backup", "")
	require.Equal(t, http.StatusOK, code)
	_, st = send(t, app, http.MethodGet, "/api/a/system/status", "")
	assert.NotNil(t, st.LastBackup)
	assert.Regexp(t, `^\d{2}/\d{2}/\d{4} \d{2}:\d{2}$`, st.LastBackupLabel)
}

func TestStatus_DatabaseDown(t *testing.T) {
	app, _ := setup(t, func(context.Context) error { return errors.New("down") })
	_, st := send(t, app, http.MethodGet, "/api/a/system/status", "")
	assert.Equal(t, "unreachable", st.Database)
}

func TestResetAndWipe_RequireConfirmation(t *testing.T) {
	app, dir := setup(t, nil)
	require.NoError(t, dir.RemoveSchool(context.Background(), "sch-001"))

	for _, path := range []string{"/api/a/system/reset", "/api/a/system/wipe"} {
		code, _ := send(t, app, http.MethodPost, path, `{}`)
		assert.Equal(t, http.StatusBadRequest, code, path)
		code, _ = send(t, app, http.MethodPost, path, `{"confirm":false}`)
		assert.Equal(t, http.StatusBadRequest, code, path)
	}
	schools, _ := dir.Counts()
	assert.Equal(t, 5, schools)

	code, st := send(t, app, http.MethodPost, "/api/a/system/reset", `{"confirm":true}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 6, st.Schools)

	require.NoError(t, dir.RemoveSchool(context.Background(), "sch-002"))
	code, st = send(t, app, http.MethodPost, "/api/a/system/wipe", `{"confirm":true}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 6, st.Schools)
	assert.Nil(t, st.LastBackup)
}
