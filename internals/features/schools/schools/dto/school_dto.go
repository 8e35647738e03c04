package dto

import (
	"strings"
	"time"

	"educa_backend/internals/features/schools/availability"
	dirService "educa_backend/internals/features/schools/directory/service"
	"educa_backend/internals/features/schools/schools/model"
)

/* =========================================================
   Request / Response
========================================================= */

// Create / replace. An empty school_id on create gets a generated uuid.
type SchoolRequest struct {
	SchoolID             string   `json:"school_id,omitempty" validate:"omitempty,max=64"`
	SchoolName           string   `json:"school_name" validate:"required,max=200"`
	SchoolAddress        string   `json:"school_address" validate:"required,max=300"`
	SchoolLat            float64  `json:"school_lat" validate:"latitude"`
	SchoolLng            float64  `json:"school_lng" validate:"longitude"`
	SchoolAvailableSlots int      `json:"school_available_slots" validate:"gte=0"`
	SchoolTypes          []string `json:"school_types"`
	SchoolImage          *string  `json:"school_image,omitempty" validate:"omitempty,max=500"`
	SchoolGallery        []string `json:"school_gallery,omitempty" validate:"omitempty,dive,max=500"`
	SchoolINEP           *string  `json:"school_inep,omitempty" validate:"omitempty,max=20"`
}

// Partial update: nil means "keep".
type SchoolUpdateRequest struct {
	SchoolName           *string   `json:"school_name" validate:"omitempty,min=1,max=200"`
	SchoolAddress        *string   `json:"school_address" validate:"omitempty,min=1,max=300"`
	SchoolLat            *float64  `json:"school_lat" validate:"omitempty,latitude"`
	SchoolLng            *float64  `json:"school_lng" validate:"omitempty,longitude"`
	SchoolAvailableSlots *int      `json:"school_available_slots" validate:"omitempty,gte=0"`
	SchoolTypes          *[]string `json:"school_types"`
	SchoolImage          *string   `json:"school_image"`
	SchoolGallery        *[]string `json:"school_gallery"`
	SchoolINEP           *string   `json:"school_inep"`
}

type SchoolResponse struct {
	SchoolID             string                    `json:"school_id"`
	SchoolName           string                    `json:"school_name"`
	SchoolAddress        string                    `json:"school_address"`
	SchoolLat            float64                   `json:"school_lat"`
	SchoolLng            float64                   `json:"school_lng"`
	SchoolAvailableSlots int                       `json:"school_available_slots"`
	SchoolTypes          []string                  `json:"school_types"`
	SchoolImage          *string                   `json:"school_image,omitempty"`
	SchoolGallery        []string                  `json:"school_gallery"`
	SchoolINEP           *string                   `json:"school_inep,omitempty"`
	Availability         availability.Availability `json:"availability"`
	SchoolUpdatedAt      *time.Time                `json:"school_updated_at,omitempty"`
}

// Deep-link payload
type SchoolDetailResponse struct {
	SchoolResponse
	RosterSize int `json:"roster_size"`
}

/* =========================================================
   Converters
========================================================= */

// NormalizeTypes maps free-form tags onto the known stages. Unknown tags are returned separately.
func NormalizeTypes(in []string) (known []string, unknown []string) {
	known = make([]string, 0, len(in))
	seen := map[model.SchoolType]bool{}
	for _, raw := range in {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		t, ok := model.ParseSchoolType(raw)
		if !ok {
			unknown = append(unknown, raw)
			continue
		}
		if !seen[t] {
			seen[t] = true
			known = append(known, string(t))
		}
	}
	return known, unknown
}

func (r *SchoolRequest) ToModel() (model.SchoolModel, []string) {
	types, unknown := NormalizeTypes(r.SchoolTypes)
	return model.SchoolModel{
		SchoolID:             strings.TrimSpace(r.SchoolID),
		SchoolName:           strings.TrimSpace(r.SchoolName),
		SchoolAddress:        strings.TrimSpace(r.SchoolAddress),
		SchoolLat:            r.SchoolLat,
		SchoolLng:            r.SchoolLng,
		SchoolAvailableSlots: r.SchoolAvailableSlots,
		SchoolTypes:          types,
		SchoolImage:          trimmedOrNil(r.SchoolImage),
		SchoolGallery:        append([]string{}, r.SchoolGallery...),
		SchoolINEP:           trimmedOrNil(r.SchoolINEP),
	}, unknown
}

// ApplyTo merges the partial update into a copy of m.
func (r *SchoolUpdateRequest) ApplyTo(m model.SchoolModel) (model.SchoolModel, []string) {
	out := m.Clone()
	var unknown []string
	if r.SchoolName != nil {
		out.SchoolName = strings.TrimSpace(*r.SchoolName)
	}
	if r.SchoolAddress != nil {
		out.SchoolAddress = strings.TrimSpace(*r.SchoolAddress)
	}
	if r.SchoolLat != nil {
		out.SchoolLat = *r.SchoolLat
	}
	if r.SchoolLng != nil {
		out.SchoolLng = *r.SchoolLng
	}
	if r.SchoolAvailableSlots != nil {
		out.SchoolAvailableSlots = *r.SchoolAvailableSlots
	}
	if r.SchoolTypes != nil {
		out.SchoolTypes, unknown = NormalizeTypes(*r.SchoolTypes)
	}
	if r.SchoolImage != nil {
		out.SchoolImage = trimmedOrNil(r.SchoolImage)
	}
	if r.SchoolGallery != nil {
		out.SchoolGallery = append([]string{}, (*r.SchoolGallery)...)
	}
	if r.SchoolINEP != nil {
		out.SchoolINEP = trimmedOrNil(r.SchoolINEP)
	}
	return out, unknown
}

func FromView(v dirService.SchoolView) SchoolResponse {
	m := v.School
	resp := SchoolResponse{
		SchoolID:             m.SchoolID,
		SchoolName:           m.SchoolName,
		SchoolAddress:        m.SchoolAddress,
		SchoolLat:            m.SchoolLat,
		SchoolLng:            m.SchoolLng,
		SchoolAvailableSlots: m.SchoolAvailableSlots,
		SchoolTypes:          append([]string{}, m.SchoolTypes...),
		SchoolImage:          m.SchoolImage,
		SchoolGallery:        append([]string{}, m.SchoolGallery...),
		SchoolINEP:           m.SchoolINEP,
		Availability:         v.Availability,
	}
	if !m.SchoolUpdatedAt.IsZero() {
		t := m.SchoolUpdatedAt
		resp.SchoolUpdatedAt = &t
	}
	return resp
}

func FromViews(vs []dirService.SchoolView) []SchoolResponse {
	out := make([]SchoolResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, FromView(v))
	}
	return out
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
