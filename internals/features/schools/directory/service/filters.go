// internals/features/schools/directory/service/filters.go
package service

import (
	"strings"

	"educa_backend/internals/features/schools/availability"
	schoolModel "educa_backend/internals/features/schools/schools/model"
	studentModel "educa_backend/internals/features/schools/students/model"
	"educa_backend/internals/helpers/fuzzy"
)

// SchoolFilter: empty fields mean "no constraint".
type SchoolFilter struct {
	Query  string
	Type   string
	Bucket availability.Bucket
}

type SchoolView struct {
	School       schoolModel.SchoolModel
	Availability availability.Availability
}

// SearchSchools applies fuzzy matching over name and address as one text, the stage tag and
// the occupancy bucket, keeping directory order.
func (d *Directory) SearchSchools(f SchoolFilter) []SchoolView {
	typ := strings.TrimSpace(f.Type)
	if strings.EqualFold(typ, schoolModel.SchoolTypeAll) {
		typ = ""
	}

	enrolled := d.enrolledBySchool()
	out := make([]SchoolView, 0)
	for _, s := range d.Schools() {
		if !fuzzy.Match(f.Query, s.SchoolName+" "+s.SchoolAddress) {
			continue
		}
		if typ != "" && !s.HasType(typ) {
			continue
		}
		av := availability.Compute(s.SchoolAvailableSlots, enrolled[rosterKey(s.SchoolName)])
		if f.Bucket != "" && av.Bucket != f.Bucket {
			continue
		}
		out = append(out, SchoolView{School: s, Availability: av})
	}
	return out
}

// View pairs one school with its current availability.
func (d *Directory) View(s schoolModel.SchoolModel) SchoolView {
	return SchoolView{School: s, Availability: d.Availability(s)}
}

type StudentFilter struct {
	Query  string
	School string
	Status studentModel.StudentStatus
}

// SearchStudents matches the query fuzzily against student and guardian names, or as a digit
// substring of either CPF. School restriction is exact on the normalized name.
func (d *Directory) SearchStudents(f StudentFilter) []studentModel.StudentModel {
	var pool []studentModel.StudentModel
	if strings.TrimSpace(f.School) != "" {
		pool = d.Roster(f.School)
	} else {
		pool = d.Students()
	}

	out := make([]studentModel.StudentModel, 0, len(pool))
	for _, st := range pool {
		if f.Status != "" && st.StudentStatus != f.Status {
			continue
		}
		if !matchStudent(f.Query, st) {
			continue
		}
		out = append(out, st)
	}
	return out
}

func matchStudent(q string, st studentModel.StudentModel) bool {
	if strings.TrimSpace(q) == "" {
		return true
	}
	if fuzzy.MatchAny(q, st.StudentName, st.GuardianName()) {
		return true
	}
	return fuzzy.MatchCPF(q, st.CPF()) || fuzzy.MatchCPF(q, st.GuardianCPF())
}

func (d *Directory) enrolledBySchool() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]int, len(d.schools))
	for _, st := range d.students {
		if st.StudentStatus == studentModel.StudentStatusEnrolled {
			out[rosterKey(st.StudentSchool)]++
		}
	}
	return out
}
