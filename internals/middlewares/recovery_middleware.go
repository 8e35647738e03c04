package middlewares

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	helper "educa_backend/internals/helpers"
)

// RecoveryMiddleware turns panics into errors handled by ErrorHandler.
func RecoveryMiddleware(log *zap.Logger) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Error("panic recovered",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Any("panic", e),
				zap.ByteString("stack", debug.Stack()),
			)
		},
	})
}

/* ===================== RECOVERY PANEL ===================== */

type RecoveryAction struct {
	ID      string         `json:"id"`
	Label   string         `json:"label"`
	Method  string         `json:"method"`
	Href    string         `json:"href"`
	Body    map[string]any `json:"body,omitempty"`
	Confirm string         `json:"confirm,omitempty"`
}

type RecoveryPanel struct {
	Title   string           `json:"title"`
	Detail  string           `json:"detail"`
	Actions []RecoveryAction `json:"actions"`
}

type errorWithPanel struct {
	helper.ErrorResponse
	Recovery *RecoveryPanel `json:"recovery,omitempty"`
}

func newRecoveryPanel(detail string) *RecoveryPanel {
	if detail == "" {
		detail = "Erro desconhecido"
	}
	return &RecoveryPanel{
		Title:  "Ops! Algo deu errado.",
		Detail: detail,
		Actions: []RecoveryAction{
			{ID: "reload", Label: "Recarregar Página", Method: fiber.MethodGet, Href: "/"},
			{ID: "home", Label: "Voltar ao Início", Method: fiber.MethodGet, Href: "/#/"},
			{
				ID:      "wipe",
				Label:   "Resetar dados de emergência",
				Method:  fiber.MethodPost,
				Href:    "/api/a/system/wipe",
				Body:    map[string]any{"confirm": true},
				Confirm: "Isso limpará os dados locais para tentar recuperar o sistema. Deseja continuar?",
			},
		},
	}
}

// ErrorHandler is the app-wide fiber error handler. Client errors keep the standard envelope;
// server faults additionally carry the recovery panel.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := err.Error()

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		}

		if code < fiber.StatusInternalServerError {
			return helper.FromFiberError(c, err)
		}

		log.Error("request failed",
			zap.Int("status", code),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Any("request_id", c.Locals("requestid")),
			zap.Error(err),
		)
		return c.Status(code).JSON(errorWithPanel{
			ErrorResponse: helper.ErrorResponse{
				Success:   false,
				Message:   "Ocorreu um erro inesperado na aplicação.",
				ErrorCode: "INTERNAL_ERROR",
			},
			Recovery: newRecoveryPanel(fmt.Sprint(msg)),
		})
	}
}
