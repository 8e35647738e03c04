package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"educa_backend/internals/features/users/auth/service"
	helper "educa_backend/internals/helpers"
	authMw "educa_backend/internals/middlewares/auth"
)

type LoginRequest struct {
	UserName string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthController struct {
	Auth        *service.AuthService
	Revocations *service.RevocationStore
}

func NewAuthController(auth *service.AuthService, revocations *service.RevocationStore) *AuthController {
	return &AuthController{Auth: auth, Revocations: revocations}
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if ok, err := helper.ValidateStruct(c, &req); !ok {
		return err
	}

	tok, err := ac.Auth.Login(req.UserName, req.Password)
	switch {
	case errors.Is(err, service.ErrAuthDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Usuário ou senha incorretos.")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, "Falha ao emitir token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    tok.AccessToken,
		Expires:  tok.ExpiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return helper.JsonOK(c, "Login realizado", tok)
}

// POST /api/auth/logout
// The presented token stays revoked for the longest lifetime a token can have.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if raw := authMw.BearerToken(c); raw != "" && ac.Revocations != nil {
		until := ac.Auth.Now().Add(ac.Auth.TTL)
		if err := ac.Revocations.Revoke(c.UserContext(), raw, until); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Falha ao encerrar a sessão")
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return helper.JsonOK(c, "Logout realizado", nil)
}
