package school

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	studentModel "educa_backend/internals/features/schools/students/model"
)

func TestDefaultDataset(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, ds.Schools)
	require.NotEmpty(t, ds.Students)

	names := map[string]bool{}
	for _, s := range ds.Schools {
		assert.GreaterOrEqual(t, s.SchoolAvailableSlots, 0, s.SchoolID)
		names[s.SchoolName] = true
	}
	for _, st := range ds.Students {
		assert.True(t, st.StudentStatus.Valid(), st.StudentID)
		assert.True(t, names[st.StudentSchool], "student %s points at unknown school %q", st.StudentID, st.StudentSchool)
	}
}

func TestSeedFromYAML_Errors(t *testing.T) {
	_, err := SeedFromYAML([]byte("schools:\n  - id: a\n    name: A\n    available_slots: -1\n"))
	assert.Error(t, err)

	_, err = SeedFromYAML([]byte("schools:\n  - id: a\n    name: A\n  - id: a\n    name: B\n"))
	assert.Error(t, err)

	_, err = SeedFromYAML([]byte("students:\n  - id: s\n    status: graduated\n"))
	assert.Error(t, err)
}

func TestSeedFromYAML_Fields(t *testing.T) {
	raw := []byte(`
schools:
  - id: a
    name: Escola A
    address: Rua 1
    available_slots: 30
    types: ["EJA"]
    inep: " 123 "
students:
  - id: s1
    name: Aluno
    school: Escola A
    status: Matriculado
    guardian_name: Mãe
`)
	ds, err := SeedFromYAML(raw)
	require.NoError(t, err)
	require.Len(t, ds.Schools, 1)
	require.Len(t, ds.Students, 1)

	assert.Equal(t, "123", ds.Schools[0].RegistryCode())
	assert.Nil(t, ds.Schools[0].SchoolImage)
	assert.Equal(t, studentModel.StudentStatusEnrolled, ds.Students[0].StudentStatus)
	assert.Equal(t, "Mãe", ds.Students[0].GuardianName())
	assert.Nil(t, ds.Students[0].StudentCPF)
}

func TestDatasetClone_Independent(t *testing.T) {
	ds := MustDefault()
	cp := ds.Clone()
	cp.Schools[0].SchoolTypes[0] = "changed"
	cp.Students[0].StudentName = "changed"

	assert.NotEqual(t, "changed", ds.Schools[0].SchoolTypes[0])
	assert.NotEqual(t, "changed", ds.Students[0].StudentName)
}
