package auth

import (
	"slices"

	"github.com/gofiber/fiber/v2"

	helper "educa_backend/internals/helpers"
)

// RequireRole lets the request through only when the principal holds one of roles.
func RequireRole(customForbiddenMessage string, roles ...string) fiber.Handler {
	if customForbiddenMessage == "" {
		customForbiddenMessage = "Forbidden: you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Role not found")
		}
		if slices.Contains(roles, p.Role) {
			return c.Next()
		}
		return helper.JsonError(c, fiber.StatusForbidden, customForbiddenMessage)
	}
}
