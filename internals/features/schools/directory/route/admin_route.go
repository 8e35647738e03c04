package route

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"educa_backend/internals/features/schools/directory/controller"
	"educa_backend/internals/features/schools/directory/service"
)

// Mounted under the admin group.
func SystemAdminRoutes(admin fiber.Router, dir *service.Directory, ping func(context.Context) error, log *zap.Logger) {
	ctrl := controller.NewSystemController(dir, ping, log)

	sys := admin.Group("/system")
	sys.Get("/status", ctrl.Status)
	sys.Post("/backup", ctrl.RegisterBackup)
	sys.Post("/reset", ctrl.Reset)
	sys.Post("/wipe", ctrl.Wipe)
}
