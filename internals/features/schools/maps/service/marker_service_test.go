package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"educa_backend/internals/features/schools/availability"
	dirService "educa_backend/internals/features/schools/directory/service"
	seedSchool "educa_backend/internals/seeds/schools/schools"
)

func newDirectory(t *testing.T) *dirService.Directory {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "educa.db")), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := dirService.NewGormStore(db)
	require.NoError(t, store.Migrate())
	dir := dirService.NewDirectory(store, seedSchool.MustDefault())
	require.NoError(t, dir.Load(context.Background()))
	return dir
}

func TestParseBounds(t *testing.T) {
	b, err := ParseBounds("-12.54, -40.31, -12.52, -40.28")
	require.NoError(t, err)
	assert.Equal(t, Bounds{South: -12.54, West: -40.31, North: -12.52, East: -40.28}, b)

	for _, raw := range []string{"1,2,3", "a,b,c,d", "10,0,5,1", "0,10,1,5", "-91,0,0,1"} {
		_, err := ParseBounds(raw)
		assert.ErrorIs(t, err, ErrInvalidBounds, raw)
	}
}

func TestBounds_Pad(t *testing.T) {
	b := Bounds{South: 0, West: 0, North: 2, East: 4}.Pad(0.5)
	assert.Equal(t, Bounds{South: -1, West: -2, North: 3, East: 6}, b)
	assert.True(t, b.Contains(2.5, 5.5))
	assert.False(t, b.Contains(3.5, 0))
}

func TestMarkers(t *testing.T) {
	s := NewMarkerService(newDirectory(t), MapConfig{Zoom: 13})

	all := s.Markers(dirService.SchoolFilter{}, nil)
	require.Len(t, all, 6)
	byID := map[string]Marker{}
	for _, m := range all {
		byID[m.SchoolID] = m
	}
	assert.Equal(t, availability.BucketFull, byID["sch-006"].Bucket)
	assert.Equal(t, "#dc2626", byID["sch-006"].Color)
	assert.Equal(t, "Lotada", byID["sch-006"].Label)
	assert.Equal(t, availability.BucketAvailable, byID["sch-001"].Bucket)

	// A tight box around the centre still pulls in schools within the 50% margin.
	vp := Bounds{South: -12.527, West: -40.294, North: -12.524, East: -40.289}
	inView := s.Markers(dirService.SchoolFilter{}, &vp)
	ids := []string{}
	for _, m := range inView {
		ids = append(ids, m.SchoolID)
	}
	assert.ElementsMatch(t, []string{"sch-001", "sch-004"}, ids)

	full := s.Markers(dirService.SchoolFilter{Bucket: availability.BucketFull}, nil)
	assert.Len(t, full, 3)
}
