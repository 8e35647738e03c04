package controller

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"educa_backend/internals/features/schools/geocoding/service"
)

type fakeGeocoder struct {
	res service.Result
	err error
}

func (f fakeGeocoder) Geocode(_ context.Context, address string) (service.Result, error) {
	if address == "" {
		return service.Result{}, service.ErrEmptyAddress
	}
	return f.res, f.err
}

func TestGeocode_StatusMapping(t *testing.T) {
	cases := []struct {
		name  string
		g     fakeGeocoder
		query string
		want  int
	}{
		{"ok", fakeGeocoder{res: service.Result{Lat: 1, Lng: 2}}, "?address=Rua+A", http.StatusOK},
		{"empty", fakeGeocoder{}, "", http.StatusBadRequest},
		{"not found", fakeGeocoder{err: service.ErrNoMatch}, "?address=x", http.StatusNotFound},
		{"network", fakeGeocoder{err: fmt.Errorf("%w: dial tcp", service.ErrUpstream)}, "?address=x", http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/geocode", NewGeocodingController(tc.g, zap.NewNop()).Geocode)
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/geocode"+tc.query, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
