package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

var (
	ErrNoMatch      = errors.New("address not found")
	ErrEmptyAddress = errors.New("address is required")
	ErrUpstream     = errors.New("geocoder unavailable")
)

type Result struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"display_name"`
}

// Geocoder resolves a free-text address to its first match.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Result, error)
}

// Nominatim talks to any Nominatim-compatible search endpoint.
type Nominatim struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

func NewNominatim(baseURL, userAgent string, timeout time.Duration) *Nominatim {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Nominatim{BaseURL: baseURL, UserAgent: userAgent, Timeout: timeout}
}

// lat/lon come back as strings
type nominatimHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (n *Nominatim) searchURL(address string) string {
	sep := "?"
	if strings.Contains(n.BaseURL, "?") {
		sep = "&"
	}
	return n.BaseURL + sep + "format=json&limit=1&q=" + url.QueryEscape(address)
}

func (n *Nominatim) Geocode(ctx context.Context, address string) (Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Result{}, ErrEmptyAddress
	}

	timeout := n.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return Result{}, fmt.Errorf("%w: %v", ErrUpstream, context.DeadlineExceeded)
	}

	a := fiber.Get(n.searchURL(address))
	a.UserAgent(n.UserAgent)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	a.Timeout(timeout)
	a.JSONDecoder(sonic.Unmarshal)

	var hits []nominatimHit
	code, body, errs := a.Struct(&hits)
	if len(errs) > 0 {
		return Result{}, fmt.Errorf("%w: %v", ErrUpstream, errors.Join(errs...))
	}
	if code != fiber.StatusOK {
		return Result{}, fmt.Errorf("%w: status %d: %.120s", ErrUpstream, code, body)
	}
	if len(hits) == 0 {
		return Result{}, ErrNoMatch
	}

	lat, err1 := strconv.ParseFloat(hits[0].Lat, 64)
	lng, err2 := strconv.ParseFloat(hits[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return Result{}, fmt.Errorf("%w: bad coordinates %q,%q", ErrUpstream, hits[0].Lat, hits[0].Lon)
	}
	return Result{Lat: lat, Lng: lng, DisplayName: hits[0].DisplayName}, nil
}
