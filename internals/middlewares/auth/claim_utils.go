// internals/middlewares/auth/claims_utils.go
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"educa_backend/internals/constants"
)

// Locals keys
const (
	LocRole     = "userRole"
	LocUserName = "user_name"
	LocRawToken = "raw_token"
)

// Principal is who the request acts as, set by AuthMiddleware / OptionalAuth.
type Principal struct {
	UserName string
	Role     string
}

func (p Principal) IsAdmin() bool { return p.Role == constants.RoleAdmin }

// PrincipalFrom reads the principal stored in the request. ok is false for anonymous requests.
func PrincipalFrom(c *fiber.Ctx) (Principal, bool) {
	role, _ := c.Locals(LocRole).(string)
	if role == "" {
		return Principal{}, false
	}
	name, _ := c.Locals(LocUserName).(string)
	return Principal{UserName: name, Role: role}, true
}

/* ======== Extractors ======== */

func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if auth == "" {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", errors.New("unauthorized - No token provided")
	}

	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", errors.New("unauthorized - Invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", errors.New("unauthorized - Empty token")
	}
	return tok, nil
}

// parseToken verifies the HS256 signature; expiry is checked separately with clock skew.
func parseToken(raw, secret string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.Parser{
		SkipClaimsValidation: true,
		ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
	}
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}); err != nil {
		return nil, err
	}
	return claims, nil
}

func validateTokenExpiry(claims jwt.MapClaims, skew time.Duration) error {
	expVal, ok := claims["exp"]
	if !ok {
		return errors.New("token has no exp")
	}

	var expUnix int64
	switch t := expVal.(type) {
	case float64:
		expUnix = int64(t)
	case int64:
		expUnix = t
	default:
		return fmt.Errorf("invalid exp type %T", expVal)
	}

	expTime := time.Unix(expUnix, 0).UTC()
	if time.Now().UTC().After(expTime.Add(skew)) {
		return fmt.Errorf("token expired at %v", expTime)
	}
	return nil
}

func storeBasicClaimsToLocals(c *fiber.Ctx, claims jwt.MapClaims) {
	if role, ok := claims["role"].(string); ok {
		c.Locals(LocRole, role)
	}
	if userName, ok := claims["user_name"].(string); ok {
		c.Locals(LocUserName, userName)
	}
}
