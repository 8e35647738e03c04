// internals/features/schools/schools/model/school_model.go
package model

import (
	"slices"
	"strings"
	"time"

	"gorm.io/datatypes"

	"educa_backend/internals/helpers/fuzzy"
)

/*
Education stages offered by a school (tags, a school may offer several):
- "Creche"
- "Pré-escola"
- "Ensino Fundamental I"
- "Ensino Fundamental II"
- "EJA"
- "Educação Especial"
*/
type SchoolType string

const (
	SchoolTypeCreche        SchoolType = "Creche"
	SchoolTypePreEscola     SchoolType = "Pré-escola"
	SchoolTypeFundamentalI  SchoolType = "Ensino Fundamental I"
	SchoolTypeFundamentalII SchoolType = "Ensino Fundamental II"
	SchoolTypeEJA           SchoolType = "EJA"
	SchoolTypeEspecial      SchoolType = "Educação Especial"

	// filter value meaning "no stage filter"
	SchoolTypeAll = "Todas"
)

var AllSchoolTypes = []SchoolType{
	SchoolTypeCreche,
	SchoolTypePreEscola,
	SchoolTypeFundamentalI,
	SchoolTypeFundamentalII,
	SchoolTypeEJA,
	SchoolTypeEspecial,
}

// ParseSchoolType resolves a stage tag ignoring case and accents ("pre-escola" → Pré-escola).
func ParseSchoolType(v string) (SchoolType, bool) {
	key := fuzzy.Normalize(strings.TrimSpace(v))
	for _, t := range AllSchoolTypes {
		if fuzzy.Normalize(string(t)) == key {
			return t, true
		}
	}
	return "", false
}

type SchoolModel struct {
	SchoolID string `gorm:"type:varchar(64);primaryKey;column:school_id" json:"school_id"`

	// Identity & location
	SchoolName    string  `gorm:"type:varchar(200);not null;column:school_name" json:"school_name"`
	SchoolAddress string  `gorm:"type:varchar(300);not null;column:school_address" json:"school_address"`
	SchoolLat     float64 `gorm:"type:decimal(9,6);column:school_lat" json:"school_lat"`
	SchoolLng     float64 `gorm:"type:decimal(9,6);column:school_lng" json:"school_lng"`

	// Total capacity; remaining seats are derived from enrollments
	SchoolAvailableSlots int `gorm:"not null;default:0;column:school_available_slots" json:"school_available_slots"`

	SchoolTypes datatypes.JSONSlice[string] `gorm:"column:school_types" json:"school_types"`

	// Media
	SchoolImage   *string                     `gorm:"column:school_image" json:"school_image,omitempty"`
	SchoolGallery datatypes.JSONSlice[string] `gorm:"column:school_gallery" json:"school_gallery,omitempty"`

	// External registry code (INEP)
	SchoolINEP *string `gorm:"type:varchar(20);index;column:school_inep" json:"school_inep,omitempty"`

	SchoolCreatedAt time.Time `gorm:"column:school_created_at;autoCreateTime" json:"school_created_at"`
	SchoolUpdatedAt time.Time `gorm:"column:school_updated_at;autoUpdateTime" json:"school_updated_at"`
}

func (SchoolModel) TableName() string { return "schools" }

// HasType compares stage tags case-insensitively on trimmed input.
func (m *SchoolModel) HasType(t string) bool {
	t = strings.TrimSpace(t)
	return slices.ContainsFunc(m.SchoolTypes, func(s string) bool {
		return strings.EqualFold(strings.TrimSpace(s), t)
	})
}

func (m *SchoolModel) RegistryCode() string {
	if m.SchoolINEP == nil {
		return ""
	}
	return strings.TrimSpace(*m.SchoolINEP)
}

// Clone returns a copy that shares no slices with m.
func (m SchoolModel) Clone() SchoolModel {
	out := m
	out.SchoolTypes = slices.Clone(m.SchoolTypes)
	out.SchoolGallery = slices.Clone(m.SchoolGallery)
	if m.SchoolImage != nil {
		v := *m.SchoolImage
		out.SchoolImage = &v
	}
	if m.SchoolINEP != nil {
		v := *m.SchoolINEP
		out.SchoolINEP = &v
	}
	return out
}
