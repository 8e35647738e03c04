package route

import (
	"github.com/gofiber/fiber/v2"

	"educa_backend/internals/features/schools/maps/controller"
	"educa_backend/internals/features/schools/maps/service"
)

func AllMapRoutes(api fiber.Router, markers *service.MarkerService) {
	ctrl := controller.NewMapController(markers)

	m := api.Group("/map")
	m.Get("/markers", ctrl.GetMarkers)
}
