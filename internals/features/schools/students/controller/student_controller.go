package controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	dirService "educa_backend/internals/features/schools/directory/service"
	"educa_backend/internals/features/schools/students/dto"
	"educa_backend/internals/features/schools/students/model"
	helper "educa_backend/internals/helpers"
)

type StudentController struct {
	Dir *dirService.Directory
	Log *zap.Logger
}

func NewStudentController(dir *dirService.Directory, log *zap.Logger) *StudentController {
	return &StudentController{Dir: dir, Log: log}
}

type studentIncludes struct {
	Statuses []statusOption `json:"statuses"`
}

type statusOption struct {
	Value model.StudentStatus `json:"value"`
	Label string              `json:"label"`
}

var statusOptions = []statusOption{
	{model.StudentStatusEnrolled, model.StudentStatusEnrolled.Label()},
	{model.StudentStatusPending, model.StudentStatusPending.Label()},
	{model.StudentStatusUnderReview, model.StudentStatusUnderReview.Label()},
}

// GET /api/a/students?q=&school=&status=&page=&per_page=
func (sc *StudentController) List(c *fiber.Ctx) error {
	f := dirService.StudentFilter{
		Query:  strings.TrimSpace(c.Query("q")),
		School: strings.TrimSpace(c.Query("school")),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" && !strings.EqualFold(raw, "all") {
		st, err := model.ParseStudentStatus(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Status inválido")
		}
		f.Status = st
	}

	paging := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	page, meta := helper.PageSlice(sc.Dir.SearchStudents(f), paging)
	return helper.JsonListEx(c, "ok", dto.FromModels(page, false), meta, studentIncludes{Statuses: statusOptions})
}

// GET /api/a/students/:id
func (sc *StudentController) Get(c *fiber.Ctx) error {
	st, ok := sc.Dir.StudentByID(c.Params("id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Aluno não encontrado")
	}
	return helper.JsonOK(c, "ok", dto.FromModel(st, false))
}

// POST /api/a/students
func (sc *StudentController) Create(c *fiber.Ctx) error {
	var req dto.StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if ok, err := helper.ValidateStruct(c, &req); !ok {
		return err
	}
	m, err := req.ToModel()
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"student_status": {err.Error()}})
	}

	saved, err := sc.Dir.AddStudent(c.UserContext(), m)
	if err != nil {
		return sc.mutationError(c, err)
	}
	return helper.JsonCreated(c, "Aluno cadastrado", dto.FromModel(saved, false))
}

// PUT /api/a/students/:id  (partial)
func (sc *StudentController) Update(c *fiber.Ctx) error {
	cur, ok := sc.Dir.StudentByID(c.Params("id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Aluno não encontrado")
	}
	var req dto.StudentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if ok, err := helper.ValidateStruct(c, &req); !ok {
		return err
	}
	m, err := req.ApplyTo(cur)
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"student_status": {err.Error()}})
	}

	saved, err := sc.Dir.AddStudent(c.UserContext(), m)
	if err != nil {
		return sc.mutationError(c, err)
	}
	return helper.JsonUpdated(c, "Aluno atualizado", dto.FromModel(saved, false))
}

// PUT /api/a/students  (bulk upsert; all or nothing)
func (sc *StudentController) BulkUpsert(c *fiber.Ctx) error {
	var reqs []dto.StudentRequest
	if err := c.BodyParser(&reqs); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if len(reqs) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Lista vazia")
	}

	rows := make([]model.StudentModel, 0, len(reqs))
	for i := range reqs {
		if err := helper.Validate.Struct(&reqs[i]); err != nil {
			return helper.JsonValidationError(c, prefixed(i, helper.ValidationErrors(err)))
		}
		m, err := reqs[i].ToModel()
		if err != nil {
			return helper.JsonValidationError(c, prefixed(i, map[string][]string{"student_status": {err.Error()}}))
		}
		rows = append(rows, m)
	}

	saved, err := sc.Dir.UpdateStudents(c.UserContext(), rows)
	if err != nil {
		return sc.mutationError(c, err)
	}
	return helper.JsonUpdated(c, "Alunos atualizados", dto.FromModels(saved, false))
}

// DELETE /api/a/students/:id
func (sc *StudentController) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := sc.Dir.RemoveStudent(c.UserContext(), id); err != nil {
		return sc.mutationError(c, err)
	}
	return helper.JsonDeleted(c, "Aluno removido", fiber.Map{"student_id": id})
}

func (sc *StudentController) mutationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, dirService.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Aluno não encontrado")
	case errors.Is(err, dirService.ErrMissingName):
		return helper.JsonValidationError(c, map[string][]string{"student_name": {"is required"}})
	case errors.Is(err, dirService.ErrInvalidStatus):
		return helper.JsonValidationError(c, map[string][]string{"student_status": {"must be one of enrolled, pending, under_review"}})
	}
	sc.Log.Error("student mutation failed", zap.Error(err))
	return helper.JsonError(c, fiber.StatusInternalServerError, "Não foi possível salvar os dados. Nenhuma alteração foi aplicada.")
}

func prefixed(i int, errs map[string][]string) map[string][]string {
	out := make(map[string][]string, len(errs))
	for k, v := range errs {
		out["["+strconv.Itoa(i)+"]."+k] = v
	}
	return out
}
