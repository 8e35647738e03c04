// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const expirySkew = 30 * time.Second

// AuthMiddleware rejects requests without a valid admin-issued token.
func AuthMiddleware(secret string, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			log.Error("JWT secret is empty, refusing authenticated request")
			return fiber.NewError(fiber.StatusServiceUnavailable, "Autenticação não configurada")
		}

		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		claims, err := parseToken(tokenString, secret)
		if err != nil {
			log.Debug("token parse failed", zap.Error(err))
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}
		if err := validateTokenExpiry(claims, expirySkew); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		storeBasicClaimsToLocals(c, claims)
		c.Locals(LocRawToken, tokenString)
		return c.Next()
	}
}

// OptionalAuth stores the principal when a valid token is present and otherwise continues
// as anonymous.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return c.Next()
		}
		claims, err := parseToken(tokenString, secret)
		if err != nil || validateTokenExpiry(claims, expirySkew) != nil {
			return c.Next()
		}
		storeBasicClaimsToLocals(c, claims)
		return c.Next()
	}
}
