package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"educa_backend/internals/features/schools/availability"
	dirService "educa_backend/internals/features/schools/directory/service"
	"educa_backend/internals/features/schools/maps/service"
	"educa_backend/internals/features/schools/schools/model"
	helper "educa_backend/internals/helpers"
)

type MapController struct {
	Markers *service.MarkerService
}

func NewMapController(s *service.MarkerService) *MapController {
	return &MapController{Markers: s}
}

// GET /api/public/map/markers?bbox=south,west,north,east&type=&availability=
func (mc *MapController) GetMarkers(c *fiber.Ctx) error {
	var viewport *service.Bounds
	if raw := strings.TrimSpace(c.Query("bbox")); raw != "" {
		b, err := service.ParseBounds(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		viewport = &b
	}

	f := dirService.SchoolFilter{Query: strings.TrimSpace(c.Query("q"))}
	if raw := strings.TrimSpace(c.Query("type")); raw != "" && !strings.EqualFold(raw, model.SchoolTypeAll) {
		t, ok := model.ParseSchoolType(raw)
		if !ok {
			return helper.JsonError(c, fiber.StatusBadRequest, "Tipo de ensino desconhecido")
		}
		f.Type = string(t)
	}
	if raw := strings.TrimSpace(c.Query("availability")); raw != "" && !strings.EqualFold(raw, "all") {
		b, ok := availability.ParseBucket(raw)
		if !ok {
			return helper.JsonError(c, fiber.StatusBadRequest, "Filtro de disponibilidade inválido (all|available|near_full|full)")
		}
		f.Bucket = b
	}

	return helper.JsonOK(c, "ok", fiber.Map{
		"map":     mc.Markers.Config,
		"markers": mc.Markers.Markers(f, viewport),
	})
}
