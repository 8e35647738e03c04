// file: internals/route/index.go
package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"educa_backend/internals/configs"
	"educa_backend/internals/constants"
	database "educa_backend/internals/databases"
	chatService "educa_backend/internals/features/chat/assistant/service"
	dirService "educa_backend/internals/features/schools/directory/service"
	geoService "educa_backend/internals/features/schools/geocoding/service"
	mapService "educa_backend/internals/features/schools/maps/service"
	authService "educa_backend/internals/features/users/auth/service"
	"educa_backend/internals/helpers/media"
	middlewares "educa_backend/internals/middlewares"
	authMiddleware "educa_backend/internals/middlewares/auth"
	routeDetails "educa_backend/internals/route/details"
)

var startTime time.Time

// Deps is everything the HTTP layer needs, built once in main.
type Deps struct {
	Config    configs.Config
	DB        *gorm.DB
	Directory *dirService.Directory
	Media     media.Storage
	Geocoder  geoService.Geocoder
	Markers   *mapService.MarkerService
	Chat      *chatService.Manager
	Auth      *authService.AuthService
	Revoked   *authService.RevocationStore
	Log       *zap.Logger
}

func (d Deps) ping(ctx context.Context) error {
	if d.DB == nil {
		return nil
	}
	return database.Ping(ctx, d.DB)
}

// avoids a typed-nil interface when revocation is not configured
func revocationChecker(r *authService.RevocationStore) authMiddleware.RevocationChecker {
	if r == nil {
		return nil
	}
	return r
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()

	BaseRoutes(app, d)

	// ===================== AUTH =====================
	d.Log.Info("setting up auth routes")
	routeDetails.AuthRoutes(app, d.Auth, d.Revoked)

	// ===================== CHAT (anonymous, no limiter) =====================
	d.Log.Info("setting up chat routes")
	routeDetails.ChatRoutes(app, d.Chat, d.Config.ChatTimeout, d.Log)

	// ===================== GROUPS =====================

	// PUBLIC → JWT optional where a route asks for it
	public := app.Group("/api/public", middlewares.GlobalRateLimiter())

	// ADMIN → JWT + role admin
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(d.Config.JWTSecret, d.Log),
		authMiddleware.RejectRevoked(revocationChecker(d.Revoked), d.Log),
		authMiddleware.RequireRole(constants.RoleErrorAdmin("a área administrativa"), constants.AdminOnly...),
	)

	// ===================== MOUNT ROUTES =====================
	d.Log.Info("mounting school routes")
	routeDetails.SchoolPublicRoutes(public, routeDetails.SchoolDeps{
		Directory: d.Directory,
		Markers:   d.Markers,
		Geocoder:  d.Geocoder,
		JWTSecret: d.Config.JWTSecret,
		Log:       d.Log,
	})
	routeDetails.SchoolAdminRoutes(admin, routeDetails.SchoolDeps{
		Directory: d.Directory,
		Media:     d.Media,
		Ping:      d.ping,
		Log:       d.Log,
	})
}
