// file: internals/features/users/auth/route/auth_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"educa_backend/internals/features/users/auth/controller"
	"educa_backend/internals/features/users/auth/service"
	rateLimiter "educa_backend/internals/middlewares"
)

// AuthRoutes mounts /api/auth.
func AuthRoutes(app fiber.Router, auth *service.AuthService, revocations *service.RevocationStore) {
	ctrl := controller.NewAuthController(auth, revocations)

	baseAuth := app.Group("/api/auth")
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), ctrl.Login)
	baseAuth.Post("/logout", ctrl.Logout)
}
