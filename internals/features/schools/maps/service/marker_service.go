package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"educa_backend/internals/features/schools/availability"
	dirService "educa_backend/internals/features/schools/directory/service"
)

var ErrInvalidBounds = errors.New("bbox must be south,west,north,east")

// Bounds is a lat/lng box as sent by the map viewport.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// ParseBounds reads "south,west,north,east".
func ParseBounds(raw string) (Bounds, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return Bounds{}, ErrInvalidBounds
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Bounds{}, fmt.Errorf("%w: %v", ErrInvalidBounds, err)
		}
		v[i] = f
	}
	b := Bounds{South: v[0], West: v[1], North: v[2], East: v[3]}
	if b.South > b.North || b.West > b.East || b.South < -90 || b.North > 90 || b.West < -180 || b.East > 180 {
		return Bounds{}, ErrInvalidBounds
	}
	return b, nil
}

// Pad grows the box by ratio of its size on every side, so markers just outside the
// viewport are already loaded when the user pans.
func (b Bounds) Pad(ratio float64) Bounds {
	dLat := (b.North - b.South) * ratio
	dLng := (b.East - b.West) * ratio
	return Bounds{
		South: b.South - dLat,
		West:  b.West - dLng,
		North: b.North + dLat,
		East:  b.East + dLng,
	}
}

func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= b.South && lat <= b.North && lng >= b.West && lng <= b.East
}

type Marker struct {
	SchoolID string              `json:"school_id"`
	Name     string              `json:"name"`
	Lat      float64             `json:"lat"`
	Lng      float64             `json:"lng"`
	Bucket   availability.Bucket `json:"bucket"`
	Color    string              `json:"color"`
	Label    string              `json:"label"`
}

// Tile layer and initial viewport handed to the client map.
type MapConfig struct {
	TileURL     string     `json:"tile_url"`
	Attribution string     `json:"attribution"`
	Center      [2]float64 `json:"center"`
	Zoom        int        `json:"zoom"`
}

type MarkerService struct {
	Dir    *dirService.Directory
	Config MapConfig
	// PadRatio applied to a requested viewport; 0.5 by default.
	PadRatio float64
}

func NewMarkerService(dir *dirService.Directory, cfg MapConfig) *MarkerService {
	return &MarkerService{Dir: dir, Config: cfg, PadRatio: 0.5}
}

// Markers returns one marker per school, colored by availability. A nil viewport returns all.
func (s *MarkerService) Markers(f dirService.SchoolFilter, viewport *Bounds) []Marker {
	var box *Bounds
	if viewport != nil {
		padded := viewport.Pad(s.PadRatio)
		box = &padded
	}

	views := s.Dir.SearchSchools(f)
	out := make([]Marker, 0, len(views))
	for _, v := range views {
		if box != nil && !box.Contains(v.School.SchoolLat, v.School.SchoolLng) {
			continue
		}
		out = append(out, Marker{
			SchoolID: v.School.SchoolID,
			Name:     v.School.SchoolName,
			Lat:      v.School.SchoolLat,
			Lng:      v.School.SchoolLng,
			Bucket:   v.Availability.Bucket,
			Color:    v.Availability.Color,
			Label:    v.Availability.Label,
		})
	}
	return out
}
