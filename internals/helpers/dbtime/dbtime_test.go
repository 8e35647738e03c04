package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToLocal(t *testing.T) {
	SetZone("America/Bahia")
	utc := time.Date(2025, 2, 10, 15, 30, 0, 0, time.UTC)

	got := ToLocal(utc)
	assert.True(t, got.Equal(utc))
	_, offset := got.Zone()
	assert.Equal(t, -3*3600, offset)
	assert.Equal(t, "10/02/2025 12:30", Format(&utc))

	assert.True(t, ToLocal(time.Time{}).IsZero())
	assert.Nil(t, ToLocalPtr(nil))
	assert.Equal(t, "", Format(nil))
}
