package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_NearFullScenario(t *testing.T) {
	a := Compute(100, 91)

	assert.Equal(t, 9, a.Remaining)
	assert.InDelta(t, 0.91, a.OccupancyRatio, 1e-9)
	assert.Equal(t, BucketNearFull, a.Bucket)
	assert.Equal(t, "Poucas Vagas", a.Label)
	assert.Equal(t, "#ca8a04", a.Color)
}

func TestCompute_Boundaries(t *testing.T) {
	cases := []struct {
		name     string
		capacity int
		enrolled int
		want     Bucket
	}{
		{"empty school", 100, 0, BucketAvailable},
		{"half full", 100, 50, BucketAvailable},
		{"just under near-full", 100, 89, BucketAvailable},
		{"exactly 90%", 100, 90, BucketNearFull},
		{"99%", 100, 99, BucketNearFull},
		{"exactly full", 100, 100, BucketFull},
		{"over capacity", 100, 130, BucketFull},
		{"no capacity", 0, 0, BucketFull},
		{"no capacity with students", 0, 3, BucketFull},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Compute(tc.capacity, tc.enrolled).Bucket)
		})
	}
}

func TestCompute_RemainingNeverNegative(t *testing.T) {
	a := Compute(10, 25)
	assert.Equal(t, 0, a.Remaining)
	assert.InDelta(t, 2.5, a.OccupancyRatio, 1e-9)
}

func TestCompute_ZeroCapacityRatio(t *testing.T) {
	a := Compute(0, 5)
	assert.Equal(t, 0.0, a.OccupancyRatio)
	assert.Equal(t, 0, a.Remaining)
}

func TestCompute_NegativeInputsClamp(t *testing.T) {
	a := Compute(-5, -1)
	assert.Equal(t, 0, a.Capacity)
	assert.Equal(t, 0, a.Enrolled)
	assert.Equal(t, BucketFull, a.Bucket)
}

// Every (capacity, enrolled) pair lands in exactly one bucket with label and color.
func TestCompute_TotalAndExclusive(t *testing.T) {
	for capacity := 0; capacity <= 60; capacity++ {
		for enrolled := 0; enrolled <= 80; enrolled++ {
			a := Compute(capacity, enrolled)

			hits := 0
			for _, b := range []Bucket{BucketAvailable, BucketNearFull, BucketFull} {
				if a.Bucket == b {
					hits++
				}
			}
			require.Equal(t, 1, hits, "capacity=%d enrolled=%d", capacity, enrolled)
			require.NotEmpty(t, a.Label)
			require.NotEmpty(t, a.Color)
		}
	}
}

func TestParseBucket(t *testing.T) {
	b, ok := ParseBucket("near-full")
	assert.True(t, ok)
	assert.Equal(t, BucketNearFull, b)

	b, ok = ParseBucket(" FULL ")
	assert.True(t, ok)
	assert.Equal(t, BucketFull, b)

	_, ok = ParseBucket("all")
	assert.False(t, ok)
	_, ok = ParseBucket("")
	assert.False(t, ok)
}
