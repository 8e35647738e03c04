package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"educa_backend/internals/constants"
	dirService "educa_backend/internals/features/schools/directory/service"
	"educa_backend/internals/features/schools/schools/route"
	authService "educa_backend/internals/features/users/auth/service"
	"educa_backend/internals/helpers/media"
	seedSchool "educa_backend/internals/seeds/schools/schools"
)

const secret = "test-secret"

type envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Data       json.RawMessage     `json:"data"`
	Errors     map[string][]string `json:"errors"`
	Pagination struct {
		Total int `json:"total"`
		Count int `json:"count"`
	} `json:"pagination"`
}

func newDirectory(t *testing.T) *dirService.Directory {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "educa.db")), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := dirService.NewGormStore(db)
	require.NoError(t, store.Migrate())
	dir := dirService.NewDirectory(store, seedSchool.MustDefault())
	require.NoError(t, dir.Load(context.Background()))
	return dir
}

func newApp(t *testing.T, dir *dirService.Directory, store media.Storage) *fiber.App {
	t.Helper()
	app := fiber.New()
	route.AllSchoolRoutes(app.Group("/api/public"), dir, secret, zap.NewNop())
	route.SchoolAdminRoutes(app.Group("/api/a"), dir, store, zap.NewNop())
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func jsonReq(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestList_Filters(t *testing.T) {
	app := newApp(t, newDirectory(t), nil)

	code, env := do(t, app, httptest.NewRequest(http.MethodGet, "/api/public/schools", nil))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 6, env.Pagination.Total)

	code, env = do(t, app, httptest.NewRequest(http.MethodGet, "/api/public/schools?availability=full", nil))
	require.Equal(t, http.StatusOK, code)
	var rows []struct {
		SchoolID     string `json:"school_id"`
		Availability struct {
			Bucket string `json:"bucket"`
		} `json:"availability"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	ids := []string{}
	for _, r := range rows {
		ids = append(ids, r.SchoolID)
		assert.Equal(t, "full", r.Availability.Bucket)
	}
	assert.Equal(t, []string{"sch-003", "sch-004", "sch-006"}, ids)

	_, env = do(t, app, httptest.NewRequest(http.MethodGet, "/api/public/schools?type=eja", nil))
	assert.Equal(t, 2, env.Pagination.Total)

	_, env = do(t, app, httptest.NewRequest(http.MethodGet, "/api/public/schools?type=Todas&q=paraizo", nil))
	assert.Equal(t, 1, env.Pagination.Total)

	_, env = do(t, app, httptest.NewRequest(http.MethodGet, "/api/public/schools?per_page=4&page=2", nil))
	assert.Equal(t, 2, env.Pagination.Count)

	code, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/public/schools?availability=half", nil))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestLookup_ByINEP(t *testing.T) {
	app := newApp(t, newDirectory(t), nil)

	code, env := do(t, app, httptest.NewRequest(http.MethodGet, "/api/public/schools/lookup/29123402", nil))
	require.Equal(t, http.StatusOK, code)
	var detail struct {
		SchoolID   string `json:"school_id"`
		RosterSize int    `json:"roster_size"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "sch-002", detail.SchoolID)
	assert.Equal(t, 3, detail.RosterSize)

	code, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/public/schools/lookup/nope", nil))
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRoster_MasksCPFForAnonymous(t *testing.T) {
	app := newApp(t, newDirectory(t), nil)

	type roster struct {
		Students []struct {
			StudentID  string `json:"student_id"`
			StudentCPF string `json:"student_cpf"`
		} `json:"students"`
		RosterTotal int `json:"roster_total"`
	}
	cpfOf := func(r roster, id string) string {
		for _, s := range r.Students {
			if s.StudentID == id {
				return s.StudentCPF
			}
		}
		return ""
	}

	code, env := do(t, app, httptest.NewRequest(http.MethodGet, "/api/public/schools/sch-003/students", nil))
	require.Equal(t, http.StatusOK, code)
	var anon roster
	require.NoError(t, json.Unmarshal(env.Data, &anon))
	assert.Equal(t, 4, anon.RosterTotal)
	assert.Equal(t, "***.***.*77-88", cpfOf(anon, "stu-006"))
	assert.Equal(t, "-", cpfOf(anon, "stu-007"))

	tok, err := authService.NewAuthService(authService.AdminAccount{}, secret, time.Hour).IssueToken("admin", constants.RoleAdmin)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/public/schools/sch-003/students", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	_, env = do(t, app, req)
	var admin roster
	require.NoError(t, json.Unmarshal(env.Data, &admin))
	assert.Equal(t, "555.666.777-88", cpfOf(admin, "stu-006"))
}

func TestAdmin_CreateUpdateDelete(t *testing.T) {
	dir := newDirectory(t)
	app := newApp(t, dir, nil)

	code, env := do(t, app, jsonReq(http.MethodPost, "/api/a/schools", `{"school_address":"Rua A","school_lat":-12.5,"school_lng":-40.2}`))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "school_name")

	code, env = do(t, app, jsonReq(http.MethodPost, "/api/a/schools", `{"school_name":"Nova","school_address":"Rua A","school_lat":-12.5,"school_lng":-40.2,"school_types":["Ensino Médio"]}`))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "school_types")

	code, env = do(t, app, jsonReq(http.MethodPost, "/api/a/schools", `{"school_id":"sch-100","school_name":" Nova Escola ","school_address":"Rua A","school_lat":-12.5,"school_lng":-40.2,"school_available_slots":10,"school_types":["eja","creche"]}`))
	require.Equal(t, http.StatusCreated, code)
	s, ok := dir.SchoolByID("sch-100")
	require.True(t, ok)
	assert.Equal(t, "Nova Escola", s.SchoolName)
	assert.Equal(t, []string{"EJA", "Creche"}, []string(s.SchoolTypes))

	code, _ = do(t, app, jsonReq(http.MethodPut, "/api/a/schools/sch-100", `{"school_available_slots":0}`))
	require.Equal(t, http.StatusOK, code)
	s, _ = dir.SchoolByID("sch-100")
	assert.Equal(t, 0, s.SchoolAvailableSlots)
	assert.Equal(t, "Rua A", s.SchoolAddress)

	code, _ = do(t, app, jsonReq(http.MethodPut, "/api/a/schools/sch-100", `{"school_available_slots":-1}`))
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = do(t, app, httptest.NewRequest(http.MethodDelete, "/api/a/schools/sch-100", nil))
	require.Equal(t, http.StatusOK, code)
	code, _ = do(t, app, httptest.NewRequest(http.MethodDelete, "/api/a/schools/sch-100", nil))
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAdmin_BulkUpsertIsAllOrNothing(t *testing.T) {
	dir := newDirectory(t)
	app := newApp(t, dir, nil)

	body := `[{"school_id":"sch-001","school_name":"Creche Renomeada","school_address":"Rua das Flores","school_lat":-12.5,"school_lng":-40.2},
	          {"school_id":"sch-200","school_name":"","school_address":"x","school_lat":0,"school_lng":0}]`
	code, env := do(t, app, jsonReq(http.MethodPut, "/api/a/schools", body))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "[1].school_name")
	s, _ := dir.SchoolByID("sch-001")
	assert.Equal(t, "CRECHE PARAISO DA CRIANCA", s.SchoolName)
}

func TestAdmin_UploadImage(t *testing.T) {
	dir := newDirectory(t)
	store, err := media.NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)
	app := newApp(t, dir, store)

	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for x := 0; x < 20; x++ {
		img.Set(x, 5, color.RGBA{R: 200, A: 255})
	}
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "fachada.png")
	require.NoError(t, err)
	_, err = fw.Write(pngBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("cover", "true"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/a/schools/sch-002/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	code, _ := do(t, app, req)
	require.Equal(t, http.StatusCreated, code)

	s, _ := dir.SchoolByID("sch-002")
	require.Len(t, s.SchoolGallery, 1)
	assert.True(t, strings.HasSuffix(s.SchoolGallery[0], ".webp"))
	require.NotNil(t, s.SchoolImage)
	assert.Equal(t, s.SchoolGallery[0], *s.SchoolImage)
}
