package controller

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"educa_backend/internals/features/schools/directory/service"
	helper "educa_backend/internals/helpers"
	"educa_backend/internals/helpers/dbtime"
)

type SystemController struct {
	Dir *service.Directory
	// Ping checks the database; nil skips the check.
	Ping func(ctx context.Context) error
	Log  *zap.Logger
}

func NewSystemController(dir *service.Directory, ping func(context.Context) error, log *zap.Logger) *SystemController {
	return &SystemController{Dir: dir, Ping: ping, Log: log}
}

type ConfirmRequest struct {
	Confirm bool `json:"confirm"`
}

type StatusResponse struct {
	Loaded     bool       `json:"loaded"`
	Database   string     `json:"database"`
	Schools    int        `json:"schools"`
	Students   int        `json:"students"`
	LastBackup *time.Time `json:"last_backup"`
	// "02/01/2006 15:04" in the municipality's zone, empty when never backed up
	LastBackupLabel string `json:"last_backup_label"`
}

func (sc *SystemController) status(ctx context.Context) StatusResponse {
	schools, students := sc.Dir.Counts()
	last := sc.Dir.LastBackup()
	st := StatusResponse{
		Loaded:          sc.Dir.Loaded(),
		Database:        "ok",
		Schools:         schools,
		Students:        students,
		LastBackup:      last,
		LastBackupLabel: dbtime.Format(last),
	}
	if sc.Ping != nil {
		if err := sc.Ping(ctx); err != nil {
			sc.Log.Warn("database ping failed", zap.Error(err))
			st.Database = "unreachable"
		}
	}
	return st
}

// GET /api/a/system/status
func (sc *SystemController) Status(c *fiber.Ctx) error {
	return helper.JsonOK(c, "ok", sc.status(c.UserContext()))
}

// POST /api/a/system/backup
func (sc *SystemController) RegisterBackup(c *fiber.Ctx) error {
	at, err := sc.Dir.RegisterBackup(c.UserContext())
	if err != nil {
		sc.Log.Error("register backup failed", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Não foi possível registrar o backup")
	}
	return helper.JsonOK(c, "Backup registrado", fiber.Map{"last_backup": at})
}

// POST /api/a/system/reset  {"confirm": true}
func (sc *SystemController) Reset(c *fiber.Ctx) error {
	if !confirmed(c) {
		return helper.JsonError(c, fiber.StatusBadRequest, service.ErrConfirmationRequired.Error())
	}
	if err := sc.Dir.Reset(c.UserContext()); err != nil {
		sc.Log.Error("factory reset failed", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao resetar sistema.")
	}
	return helper.JsonOK(c, "Sistema restaurado para os dados padrão", sc.status(c.UserContext()))
}

// POST /api/a/system/wipe  {"confirm": true}
// Emergency exit offered by the recovery panel: clears everything, then loads as on first run.
func (sc *SystemController) Wipe(c *fiber.Ctx) error {
	if !confirmed(c) {
		return helper.JsonError(c, fiber.StatusBadRequest, service.ErrConfirmationRequired.Error())
	}
	if err := sc.Dir.Wipe(c.UserContext()); err != nil {
		sc.Log.Error("wipe failed", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao limpar os dados.")
	}
	return helper.JsonOK(c, "Dados locais limpos", sc.status(c.UserContext()))
}

func confirmed(c *fiber.Ctx) bool {
	var req ConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return false
	}
	return req.Confirm
}
