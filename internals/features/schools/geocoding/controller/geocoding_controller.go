package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"educa_backend/internals/features/schools/geocoding/service"
	helper "educa_backend/internals/helpers"
)

type GeocodingController struct {
	Geocoder service.Geocoder
	Log      *zap.Logger
}

func NewGeocodingController(g service.Geocoder, log *zap.Logger) *GeocodingController {
	return &GeocodingController{Geocoder: g, Log: log}
}

// GET /api/public/geocode?address=
func (gc *GeocodingController) Geocode(c *fiber.Ctx) error {
	res, err := gc.Geocoder.Geocode(c.UserContext(), c.Query("address"))
	switch {
	case err == nil:
		return helper.JsonOK(c, "ok", res)
	case errors.Is(err, service.ErrEmptyAddress):
		return helper.JsonError(c, fiber.StatusBadRequest, "Informe um endereço")
	case errors.Is(err, service.ErrNoMatch):
		return helper.JsonError(c, fiber.StatusNotFound, "Endereço não encontrado")
	default:
		gc.Log.Warn("geocoding failed", zap.Error(err))
		return helper.JsonError(c, fiber.StatusBadGateway, "Serviço de geolocalização indisponível no momento")
	}
}
