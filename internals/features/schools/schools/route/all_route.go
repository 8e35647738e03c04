package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	dirService "educa_backend/internals/features/schools/directory/service"
	"educa_backend/internals/features/schools/schools/controller"
	authMiddleware "educa_backend/internals/middlewares/auth"
)

// No login needed. The roster reads an optional token so admins see full documents.
func AllSchoolRoutes(api fiber.Router, dir *dirService.Directory, secret string, log *zap.Logger) {
	ctrl := controller.NewSchoolController(dir, nil, log)

	schools := api.Group("/schools")
	schools.Get("/", ctrl.List)
	schools.Get("/lookup/:key", ctrl.Lookup)
	schools.Get("/:id", ctrl.Get)
	schools.Get("/:id/students", authMiddleware.OptionalAuth(secret), ctrl.Roster)
}
