// file: internals/helpers/dbtime/dbtime.go
package dbtime

import (
	"sync"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"
)

// Timestamps are stored in UTC; people read them in the municipality's zone.
const DefaultZone = "America/Bahia"

var (
	locOnce sync.Once
	loc     *time.Location
)

// Location resolves APP_TIMEZONE once (see SetZone), falling back to DefaultZone and then UTC.
func Location() *time.Location {
	locOnce.Do(func() { loc = load(DefaultZone) })
	return loc
}

// SetZone fixes the display zone. Only the first call (or first Location) wins.
func SetZone(name string) {
	locOnce.Do(func() { loc = load(name) })
}

func load(name string) *time.Location {
	if name == "" {
		name = DefaultZone
	}
	l, err := time.LoadLocation(name)
	if err != nil {
		zap.L().Warn("unknown timezone, using UTC", zap.String("zone", name), zap.Error(err))
		return time.UTC
	}
	return l
}

// ToLocal converts t to the display zone. Zero stays zero.
func ToLocal(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(Location())
}

func ToLocalPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := ToLocal(*t)
	return &v
}

// Format renders t as "02/01/2006 15:04" in the display zone, or "" for nil/zero.
func Format(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return ToLocal(*t).Format("02/01/2006 15:04")
}
