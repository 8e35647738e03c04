package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"educa_backend/internals/features/schools/geocoding/controller"
	"educa_backend/internals/features/schools/geocoding/service"
	rateLimiter "educa_backend/internals/middlewares"
)

// Upstream is a shared public service; keep our footprint small.
func AllGeocodingRoutes(api fiber.Router, g service.Geocoder, log *zap.Logger) {
	ctrl := controller.NewGeocodingController(g, log)
	api.Get("/geocode", rateLimiter.GeocodeRateLimiter(), ctrl.Geocode)
}
