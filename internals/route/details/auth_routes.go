package details

import (
	"github.com/gofiber/fiber/v2"

	authRoute "educa_backend/internals/features/users/auth/route"
	authService "educa_backend/internals/features/users/auth/service"
)

func AuthRoutes(app *fiber.App, auth *authService.AuthService, revocations *authService.RevocationStore) {
	authRoute.AuthRoutes(app, auth, revocations)
}
