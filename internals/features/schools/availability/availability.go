// file: internals/features/schools/availability/availability.go
package availability

import "strings"

/*
Occupancy buckets. One canonical rule for the whole API (cards, filters, map markers):

	full      : capacity == 0, or enrolled/capacity >= 1.0
	near_full : enrolled/capacity >= 0.9
	available : everything else
*/
type Bucket string

const (
	BucketAvailable Bucket = "available"
	BucketNearFull  Bucket = "near_full"
	BucketFull      Bucket = "full"
)

const (
	FullRatio     = 1.0
	NearFullRatio = 0.9
)

var buckets = map[Bucket]struct {
	label string
	color string
}{
	BucketAvailable: {label: "Disponível", color: "#16a34a"},
	BucketNearFull:  {label: "Poucas Vagas", color: "#ca8a04"},
	BucketFull:      {label: "Lotada", color: "#dc2626"},
}

type Availability struct {
	Capacity       int     `json:"capacity"`
	Enrolled       int     `json:"enrolled"`
	Remaining      int     `json:"remaining"`
	OccupancyRatio float64 `json:"occupancy_ratio"`
	Bucket         Bucket  `json:"bucket"`
	Label          string  `json:"label"`
	Color          string  `json:"color"`
}

// Compute derives remaining seats, occupancy ratio and bucket. Negative inputs count as zero.
func Compute(capacity, enrolled int) Availability {
	capacity = max(capacity, 0)
	enrolled = max(enrolled, 0)

	a := Availability{
		Capacity:  capacity,
		Enrolled:  enrolled,
		Remaining: max(capacity-enrolled, 0),
	}
	if capacity > 0 {
		a.OccupancyRatio = float64(enrolled) / float64(capacity)
	}
	a.Bucket = Classify(capacity, a.OccupancyRatio)

	meta := buckets[a.Bucket]
	a.Label = meta.label
	a.Color = meta.color
	return a
}

// Classify maps an occupancy ratio to its bucket. A school without capacity has no seats to offer.
func Classify(capacity int, ratio float64) Bucket {
	switch {
	case capacity <= 0 || ratio >= FullRatio:
		return BucketFull
	case ratio >= NearFullRatio:
		return BucketNearFull
	default:
		return BucketAvailable
	}
}

func (b Bucket) Label() string { return buckets[b].label }
func (b Bucket) Color() string { return buckets[b].color }

// ParseBucket accepts the bucket names plus "near-full"; "" and "all" mean no filter.
func ParseBucket(s string) (Bucket, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available":
		return BucketAvailable, true
	case "near_full", "near-full", "nearfull":
		return BucketNearFull, true
	case "full":
		return BucketFull, true
	default:
		return "", false
	}
}
