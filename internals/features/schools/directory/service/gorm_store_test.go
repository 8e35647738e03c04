package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	schoolModel "educa_backend/internals/features/schools/schools/model"
	studentModel "educa_backend/internals/features/schools/students/model"
	seedSchool "educa_backend/internals/seeds/schools/schools"
)

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "educa.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	st := NewGormStore(db)
	require.NoError(t, st.Migrate())
	return st
}

func TestGormStore_ReseedAndFlags(t *testing.T) {
	ctx := context.Background()
	st := newSQLiteStore(t)

	ok, err := st.IsInitialized(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, st.SetLastBackup(ctx, at))

	ds := seedSchool.MustDefault()
	require.NoError(t, st.Reseed(ctx, ds.Schools, ds.Students))

	ok, err = st.IsInitialized(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	b, err := st.LastBackup(ctx)
	require.NoError(t, err)
	assert.Nil(t, b, "reseed clears the backup timestamp")

	schools, err := st.ListSchools(ctx)
	require.NoError(t, err)
	assert.Len(t, schools, len(ds.Schools))

	students, err := st.ListStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, students, len(ds.Students))
}

func TestGormStore_BackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newSQLiteStore(t)

	at := time.Date(2025, 3, 4, 5, 6, 7, 890, time.UTC)
	require.NoError(t, st.SetLastBackup(ctx, at))
	require.NoError(t, st.SetLastBackup(ctx, at.Add(time.Hour)))

	b, err := st.LastBackup(ctx)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, at.Add(time.Hour).Equal(*b))

	require.NoError(t, st.ClearLastBackup(ctx))
	b, err = st.LastBackup(ctx)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestGormStore_UpsertAndDelete(t *testing.T) {
	ctx := context.Background()
	st := newSQLiteStore(t)

	inep := "29000001"
	s := schoolModel.SchoolModel{
		SchoolID:             "s1",
		SchoolName:           "Escola Um",
		SchoolAddress:        "Rua 1",
		SchoolAvailableSlots: 10,
		SchoolTypes:          []string{"EJA", "Creche"},
		SchoolINEP:           &inep,
	}
	require.NoError(t, st.PutSchool(ctx, s))

	s.SchoolAvailableSlots = 15
	require.NoError(t, st.PutSchool(ctx, s))

	rows, err := st.ListSchools(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 15, rows[0].SchoolAvailableSlots)
	assert.Equal(t, []string{"EJA", "Creche"}, []string(rows[0].SchoolTypes))
	assert.Equal(t, inep, rows[0].RegistryCode())

	require.NoError(t, st.PutStudents(ctx, []studentModel.StudentModel{
		{StudentID: "a", StudentName: "A", StudentSchool: "Escola Um", StudentStatus: studentModel.StudentStatusEnrolled},
		{StudentID: "b", StudentName: "B", StudentSchool: "Escola Um", StudentStatus: studentModel.StudentStatusPending},
	}))
	require.NoError(t, st.DeleteStudent(ctx, "a"))

	students, err := st.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, studentModel.StudentStatusPending, students[0].StudentStatus)

	require.NoError(t, st.DeleteSchool(ctx, "s1"))
	rows, err = st.ListSchools(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGormStore_WipeClearsFlags(t *testing.T) {
	ctx := context.Background()
	st := newSQLiteStore(t)

	ds := seedSchool.MustDefault()
	require.NoError(t, st.Reseed(ctx, ds.Schools, ds.Students))
	require.NoError(t, st.Wipe(ctx))

	ok, err := st.IsInitialized(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	rows, err := st.ListSchools(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDirectory_OverSQLite(t *testing.T) {
	ctx := context.Background()
	st := newSQLiteStore(t)

	d := NewDirectory(st, seedSchool.MustDefault())
	require.NoError(t, d.Load(ctx))
	require.NoError(t, d.RemoveSchool(ctx, "sch-001"))

	// a second process sees the removal and does not reseed
	d2 := NewDirectory(st, seedSchool.MustDefault())
	require.NoError(t, d2.Load(ctx))
	_, ok := d2.SchoolByID("sch-001")
	assert.False(t, ok)
	assert.Len(t, d2.Schools(), len(d.Schools()))
}
