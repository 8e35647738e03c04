// internals/route/details/school_routes.go
package details

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	DirectoryRoutes "educa_backend/internals/features/schools/directory/route"
	dirService "educa_backend/internals/features/schools/directory/service"
	GeocodingRoutes "educa_backend/internals/features/schools/geocoding/route"
	geoService "educa_backend/internals/features/schools/geocoding/service"
	MapRoutes "educa_backend/internals/features/schools/maps/route"
	mapService "educa_backend/internals/features/schools/maps/service"
	SchoolRoutes "educa_backend/internals/features/schools/schools/route"
	StudentRoutes "educa_backend/internals/features/schools/students/route"
	"educa_backend/internals/helpers/media"
)

type SchoolDeps struct {
	Directory *dirService.Directory
	Markers   *mapService.MarkerService
	Geocoder  geoService.Geocoder
	Media     media.Storage
	Ping      func(context.Context) error
	JWTSecret string
	Log       *zap.Logger
}

/* ===================== PUBLIC ===================== */
// No login needed; the roster reads an optional token.
func SchoolPublicRoutes(r fiber.Router, d SchoolDeps) {
	SchoolRoutes.AllSchoolRoutes(r, d.Directory, d.JWTSecret, d.Log)
	MapRoutes.AllMapRoutes(r, d.Markers)
	GeocodingRoutes.AllGeocodingRoutes(r, d.Geocoder, d.Log)
}

/* ===================== ADMIN ===================== */
func SchoolAdminRoutes(r fiber.Router, d SchoolDeps) {
	SchoolRoutes.SchoolAdminRoutes(r, d.Directory, d.Media, d.Log)
	StudentRoutes.StudentAdminRoutes(r, d.Directory, d.Log)
	DirectoryRoutes.SystemAdminRoutes(r, d.Directory, d.Ping, d.Log)
}
