package details

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	chatRoute "educa_backend/internals/features/chat/assistant/route"
	chatService "educa_backend/internals/features/chat/assistant/service"
)

func ChatRoutes(app *fiber.App, sessions *chatService.Manager, timeout time.Duration, log *zap.Logger) {
	chatRoute.ChatRoutes(app, sessions, timeout, log)
}
