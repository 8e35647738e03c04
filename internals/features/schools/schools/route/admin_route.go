package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	dirService "educa_backend/internals/features/schools/directory/service"
	"educa_backend/internals/features/schools/schools/controller"
	"educa_backend/internals/helpers/media"
)

// Mounted under the admin group (auth + admin role already applied).
func SchoolAdminRoutes(admin fiber.Router, dir *dirService.Directory, store media.Storage, log *zap.Logger) {
	ctrl := controller.NewSchoolController(dir, store, log)

	schools := admin.Group("/schools")
	schools.Get("/", ctrl.List)
	schools.Post("/", ctrl.Create)
	schools.Put("/", ctrl.BulkUpsert)
	schools.Put("/:id", ctrl.Update)
	schools.Patch("/:id", ctrl.Update)
	schools.Delete("/:id", ctrl.Delete)
	schools.Post("/:id/images", ctrl.UploadImage)
}
