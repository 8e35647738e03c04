package school

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	schoolModel "educa_backend/internals/features/schools/schools/model"
	studentModel "educa_backend/internals/features/schools/students/model"
)

//go:embed data_schools.yaml
var defaultSeedYAML []byte

// File layout of data_schools.yaml
type SchoolSeed struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Address        string   `yaml:"address"`
	Lat            float64  `yaml:"lat"`
	Lng            float64  `yaml:"lng"`
	AvailableSlots int      `yaml:"available_slots"`
	Types          []string `yaml:"types"`
	Image          string   `yaml:"image"`
	Gallery        []string `yaml:"gallery"`
	INEP           string   `yaml:"inep"`
}

type StudentSeed struct {
	ID               string `yaml:"id"`
	Name             string `yaml:"name"`
	BirthDate        string `yaml:"birth_date"`
	CPF              string `yaml:"cpf"`
	GuardianName     string `yaml:"guardian_name"`
	GuardianCPF      string `yaml:"guardian_cpf"`
	School           string `yaml:"school"`
	Status           string `yaml:"status"`
	ClassName        string `yaml:"class_name"`
	Shift            string `yaml:"shift"`
	TransportRequest bool   `yaml:"transport_request"`
	SpecialNeeds     bool   `yaml:"special_needs"`
}

type seedFile struct {
	Schools  []SchoolSeed  `yaml:"schools"`
	Students []StudentSeed `yaml:"students"`
}

// Dataset is the fixed default content written on first run and on reset.
type Dataset struct {
	Schools  []schoolModel.SchoolModel
	Students []studentModel.StudentModel
}

// Default parses the embedded municipal dataset.
func Default() (Dataset, error) {
	return SeedFromYAML(defaultSeedYAML)
}

// MustDefault panics on a broken embedded file; the file ships with the binary.
func MustDefault() Dataset {
	ds, err := Default()
	if err != nil {
		panic(err)
	}
	return ds
}

func SeedFromYAML(raw []byte) (Dataset, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Dataset{}, fmt.Errorf("decode seed yaml: %w", err)
	}

	ds := Dataset{
		Schools:  make([]schoolModel.SchoolModel, 0, len(f.Schools)),
		Students: make([]studentModel.StudentModel, 0, len(f.Students)),
	}

	seen := map[string]struct{}{}
	for _, s := range f.Schools {
		if strings.TrimSpace(s.ID) == "" || strings.TrimSpace(s.Name) == "" {
			return Dataset{}, fmt.Errorf("seed school without id or name: %+v", s)
		}
		if _, dup := seen[s.ID]; dup {
			return Dataset{}, fmt.Errorf("duplicate seed school id %q", s.ID)
		}
		if s.AvailableSlots < 0 {
			return Dataset{}, fmt.Errorf("seed school %q has negative capacity", s.ID)
		}
		seen[s.ID] = struct{}{}

		ds.Schools = append(ds.Schools, schoolModel.SchoolModel{
			SchoolID:             s.ID,
			SchoolName:           s.Name,
			SchoolAddress:        s.Address,
			SchoolLat:            s.Lat,
			SchoolLng:            s.Lng,
			SchoolAvailableSlots: s.AvailableSlots,
			SchoolTypes:          append([]string{}, s.Types...),
			SchoolImage:          optional(s.Image),
			SchoolGallery:        append([]string{}, s.Gallery...),
			SchoolINEP:           optional(s.INEP),
		})
	}

	clear(seen)
	for _, s := range f.Students {
		if strings.TrimSpace(s.ID) == "" {
			return Dataset{}, fmt.Errorf("seed student without id: %+v", s)
		}
		if _, dup := seen[s.ID]; dup {
			return Dataset{}, fmt.Errorf("duplicate seed student id %q", s.ID)
		}
		seen[s.ID] = struct{}{}

		status, err := studentModel.ParseStudentStatus(s.Status)
		if err != nil {
			return Dataset{}, fmt.Errorf("seed student %q: %w", s.ID, err)
		}
		ds.Students = append(ds.Students, studentModel.StudentModel{
			StudentID:               s.ID,
			StudentName:             s.Name,
			StudentBirthDate:        s.BirthDate,
			StudentCPF:              optional(s.CPF),
			StudentGuardianName:     optional(s.GuardianName),
			StudentGuardianCPF:      optional(s.GuardianCPF),
			StudentSchool:           s.School,
			StudentStatus:           status,
			StudentClassName:        s.ClassName,
			StudentShift:            s.Shift,
			StudentTransportRequest: s.TransportRequest,
			StudentSpecialNeeds:     s.SpecialNeeds,
		})
	}
	return ds, nil
}

// Clone deep-copies the dataset so callers can hand it to the store and the cache independently.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Schools:  make([]schoolModel.SchoolModel, len(d.Schools)),
		Students: make([]studentModel.StudentModel, len(d.Students)),
	}
	for i, s := range d.Schools {
		out.Schools[i] = s.Clone()
	}
	copy(out.Students, d.Students)
	return out
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
