package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	dirService "educa_backend/internals/features/schools/directory/service"
	"educa_backend/internals/features/schools/students/controller"
)

// Mounted under the admin group. Full student records are never public.
func StudentAdminRoutes(admin fiber.Router, dir *dirService.Directory, log *zap.Logger) {
	ctrl := controller.NewStudentController(dir, log)

	students := admin.Group("/students")
	students.Get("/", ctrl.List)
	students.Post("/", ctrl.Create)
	students.Put("/", ctrl.BulkUpsert)
	students.Get("/:id", ctrl.Get)
	students.Put("/:id", ctrl.Update)
	students.Patch("/:id", ctrl.Update)
	students.Delete("/:id", ctrl.Delete)
}
