package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RevocationChecker interface {
	IsRevoked(ctx context.Context, raw string) (bool, error)
}

// RejectRevoked refuses tokens that were logged out. Mount it after AuthMiddleware.
// A failed lookup lets the request through.
func RejectRevoked(check RevocationChecker, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if check == nil {
			return c.Next()
		}
		raw, _ := c.Locals(LocRawToken).(string)
		if raw == "" {
			return c.Next()
		}
		revoked, err := check.IsRevoked(c.UserContext(), raw)
		if err != nil {
			log.Warn("revocation lookup failed", zap.Error(err))
			return c.Next()
		}
		if revoked {
			return fiber.NewError(fiber.StatusUnauthorized, "Sessão encerrada. Faça login novamente.")
		}
		return c.Next()
	}
}

// BearerToken returns the raw access token from the Authorization header or cookie, or "".
func BearerToken(c *fiber.Ctx) string {
	tok, err := extractBearerToken(c)
	if err != nil {
		return ""
	}
	return tok
}
