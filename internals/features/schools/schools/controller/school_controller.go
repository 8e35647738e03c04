package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"educa_backend/internals/features/schools/availability"
	dirService "educa_backend/internals/features/schools/directory/service"
	"educa_backend/internals/features/schools/schools/dto"
	"educa_backend/internals/features/schools/schools/model"
	studentDTO "educa_backend/internals/features/schools/students/dto"
	studentModel "educa_backend/internals/features/schools/students/model"
	helper "educa_backend/internals/helpers"
	"educa_backend/internals/helpers/media"
	"educa_backend/internals/middlewares/auth"
)

type SchoolController struct {
	Dir   *dirService.Directory
	Media media.Storage
	Log   *zap.Logger
}

func NewSchoolController(dir *dirService.Directory, store media.Storage, log *zap.Logger) *SchoolController {
	return &SchoolController{Dir: dir, Media: store, Log: log}
}

/* =========================================================
   PUBLIC
========================================================= */

type listIncludes struct {
	Types        []model.SchoolType `json:"types"`
	Availability []bucketOption     `json:"availability"`
}

type bucketOption struct {
	Value availability.Bucket `json:"value"`
	Label string              `json:"label"`
	Color string              `json:"color"`
}

var bucketOptions = []bucketOption{
	{availability.BucketAvailable, availability.BucketAvailable.Label(), availability.BucketAvailable.Color()},
	{availability.BucketNearFull, availability.BucketNearFull.Label(), availability.BucketNearFull.Color()},
	{availability.BucketFull, availability.BucketFull.Label(), availability.BucketFull.Color()},
}

// GET /api/public/schools?q=&type=&availability=&page=&per_page=
func (sc *SchoolController) List(c *fiber.Ctx) error {
	f := dirService.SchoolFilter{
		Query: strings.TrimSpace(c.Query("q")),
		Type:  strings.TrimSpace(c.Query("type")),
	}
	if f.Type != "" && !strings.EqualFold(f.Type, model.SchoolTypeAll) {
		t, ok := model.ParseSchoolType(f.Type)
		if !ok {
			return helper.JsonError(c, fiber.StatusBadRequest, "Tipo de ensino desconhecido")
		}
		f.Type = string(t)
	}
	if raw := strings.TrimSpace(c.Query("availability")); raw != "" && !strings.EqualFold(raw, "all") {
		b, ok := availability.ParseBucket(raw)
		if !ok {
			return helper.JsonError(c, fiber.StatusBadRequest, "Filtro de disponibilidade inválido (all|available|near_full|full)")
		}
		f.Bucket = b
	}

	paging := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	views := sc.Dir.SearchSchools(f)
	page, meta := helper.PageSlice(views, paging)

	return helper.JsonListEx(c, "ok", dto.FromViews(page), meta, listIncludes{
		Types:        model.AllSchoolTypes,
		Availability: bucketOptions,
	})
}

// GET /api/public/schools/:id
func (sc *SchoolController) Get(c *fiber.Ctx) error {
	s, ok := sc.Dir.SchoolByID(c.Params("id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Escola não encontrada")
	}
	return helper.JsonOK(c, "ok", dto.FromView(sc.Dir.View(s)))
}

// GET /api/public/schools/lookup/:key  (id or INEP code, used by deep links)
func (sc *SchoolController) Lookup(c *fiber.Ctx) error {
	s, ok := sc.Dir.FindSchool(c.Params("key"))
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Escola não encontrada")
	}
	return helper.JsonOK(c, "ok", dto.SchoolDetailResponse{
		SchoolResponse: dto.FromView(sc.Dir.View(s)),
		RosterSize:     len(sc.Dir.Roster(s.SchoolName)),
	})
}

// GET /api/public/schools/:id/students?q=&status=
// CPFs are masked unless the caller is an admin.
func (sc *SchoolController) Roster(c *fiber.Ctx) error {
	s, ok := sc.Dir.SchoolByID(c.Params("id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Escola não encontrada")
	}

	f := dirService.StudentFilter{Query: c.Query("q"), School: s.SchoolName}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" && !strings.EqualFold(raw, "all") {
		st, err := studentModel.ParseStudentStatus(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Status inválido")
		}
		f.Status = st
	}

	p, _ := auth.PrincipalFrom(c)
	students := sc.Dir.SearchStudents(f)
	return helper.JsonOK(c, "ok", fiber.Map{
		"school":       dto.FromView(sc.Dir.View(s)),
		"students":     studentDTO.FromModels(students, !p.IsAdmin()),
		"roster_total": len(sc.Dir.Roster(s.SchoolName)),
	})
}

/* =========================================================
   ADMIN
========================================================= */

// POST /api/a/schools
func (sc *SchoolController) Create(c *fiber.Ctx) error {
	var req dto.SchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if ok, err := helper.ValidateStruct(c, &req); !ok {
		return err
	}
	m, unknown := req.ToModel()
	if len(unknown) > 0 {
		return helper.JsonValidationError(c, map[string][]string{"school_types": {"unknown: " + strings.Join(unknown, ", ")}})
	}

	saved, err := sc.Dir.AddSchool(c.UserContext(), m)
	if err != nil {
		return sc.mutationError(c, err)
	}
	return helper.JsonCreated(c, "Escola cadastrada", dto.FromView(sc.Dir.View(saved)))
}

// PUT /api/a/schools/:id  (partial)
func (sc *SchoolController) Update(c *fiber.Ctx) error {
	cur, ok := sc.Dir.SchoolByID(c.Params("id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Escola não encontrada")
	}
	var req dto.SchoolUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if ok, err := helper.ValidateStruct(c, &req); !ok {
		return err
	}
	m, unknown := req.ApplyTo(cur)
	if len(unknown) > 0 {
		return helper.JsonValidationError(c, map[string][]string{"school_types": {"unknown: " + strings.Join(unknown, ", ")}})
	}

	saved, err := sc.Dir.AddSchool(c.UserContext(), m)
	if err != nil {
		return sc.mutationError(c, err)
	}
	return helper.JsonUpdated(c, "Escola atualizada", dto.FromView(sc.Dir.View(saved)))
}

// PUT /api/a/schools  (bulk upsert; all or nothing)
func (sc *SchoolController) BulkUpsert(c *fiber.Ctx) error {
	var reqs []dto.SchoolRequest
	if err := c.BodyParser(&reqs); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if len(reqs) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Lista vazia")
	}

	rows := make([]model.SchoolModel, 0, len(reqs))
	for i := range reqs {
		if err := helper.Validate.Struct(&reqs[i]); err != nil {
			return helper.JsonValidationError(c, prefixed(i, helper.ValidationErrors(err)))
		}
		m, unknown := reqs[i].ToModel()
		if len(unknown) > 0 {
			return helper.JsonValidationError(c, prefixed(i, map[string][]string{"school_types": {"unknown: " + strings.Join(unknown, ", ")}}))
		}
		rows = append(rows, m)
	}

	saved, err := sc.Dir.UpdateSchools(c.UserContext(), rows)
	if err != nil {
		return sc.mutationError(c, err)
	}
	views := make([]dirService.SchoolView, 0, len(saved))
	for _, s := range saved {
		views = append(views, sc.Dir.View(s))
	}
	return helper.JsonUpdated(c, "Escolas atualizadas", dto.FromViews(views))
}

// DELETE /api/a/schools/:id
func (sc *SchoolController) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := sc.Dir.RemoveSchool(c.UserContext(), id); err != nil {
		return sc.mutationError(c, err)
	}
	return helper.JsonDeleted(c, "Escola removida", fiber.Map{"school_id": id})
}

func (sc *SchoolController) mutationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, dirService.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Escola não encontrada")
	case errors.Is(err, dirService.ErrMissingName):
		return helper.JsonValidationError(c, map[string][]string{"school_name": {"is required"}})
	case errors.Is(err, dirService.ErrInvalidCapacity):
		return helper.JsonValidationError(c, map[string][]string{"school_available_slots": {"must be at least 0"}})
	}
	sc.Log.Error("school mutation failed", zap.Error(err))
	return helper.JsonError(c, fiber.StatusInternalServerError, "Não foi possível salvar os dados. Nenhuma alteração foi aplicada.")
}

func prefixed(i int, errs map[string][]string) map[string][]string {
	out := make(map[string][]string, len(errs))
	for k, v := range errs {
		out["["+itoa(i)+"]."+k] = v
	}
	return out
}
