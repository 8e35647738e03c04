package route

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"educa_backend/internals/features/chat/assistant/controller"
	"educa_backend/internals/features/chat/assistant/service"
)

// Public, anonymous. No limiter on this path.
func ChatRoutes(app fiber.Router, sessions *service.Manager, timeout time.Duration, log *zap.Logger) {
	ctrl := controller.NewChatController(sessions, timeout, log)

	chat := app.Group("/api/chat/sessions")
	chat.Post("/", ctrl.CreateSession)
	chat.Get("/:id", ctrl.GetSession)
	chat.Delete("/:id", ctrl.DeleteSession)
	chat.Post("/:id/reset", ctrl.ResetSession)
	chat.Post("/:id/messages", ctrl.SendMessage)
}
