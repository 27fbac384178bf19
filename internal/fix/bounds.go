package fix

import (
	"fmt"
	"math"
)

// Bounds is the accepted range of a fix. All limits are inclusive.
type Bounds struct {
	MinLatitude  float64 `yaml:"min_latitude" json:"min_latitude"`
	MaxLatitude  float64 `yaml:"max_latitude" json:"max_latitude"`
	MinLongitude float64 `yaml:"min_longitude" json:"min_longitude"`
	MaxLongitude float64 `yaml:"max_longitude" json:"max_longitude"`
	MinAltitude  float64 `yaml:"min_altitude" json:"min_altitude"`
	MaxAltitude  float64 `yaml:"max_altitude" json:"max_altitude"`
}

// DefaultBounds accepts any position on the globe between -1000 m and
// 10000 m.
func DefaultBounds() Bounds {
	return Bounds{
		MinLatitude:  -90,
		MaxLatitude:  90,
		MinLongitude: -180,
		MaxLongitude: 180,
		MinAltitude:  -1000,
		MaxAltitude:  10000,
	}
}

// Validate rejects NaN limits and inverted ranges.
func (b Bounds) Validate() error {
	pairs := []struct {
		name     string
		min, max float64
	}{
		{"latitude", b.MinLatitude, b.MaxLatitude},
		{"longitude", b.MinLongitude, b.MaxLongitude},
		{"altitude", b.MinAltitude, b.MaxAltitude},
	}
	for _, p := range pairs {
		if math.IsNaN(p.min) || math.IsNaN(p.max) {
			return fmt.Errorf("%s bounds must be numbers", p.name)
		}
		if p.min > p.max {
			return fmt.Errorf("%s bounds inverted: min %v > max %v", p.name, p.min, p.max)
		}
	}
	return nil
}

// PositionCheck holds the per-axis verdicts of a position check. A true
// field means the value is missing or out of bounds.
type PositionCheck struct {
	Latitude  bool
	Longitude bool
	Altitude  bool
}

// Failed reports whether any axis failed.
func (p PositionCheck) Failed() bool {
	return p.Latitude || p.Longitude || p.Altitude
}

// Check tests the fix position against b. NaN always fails.
func (b Bounds) Check(f Fix) PositionCheck {
	return PositionCheck{
		Latitude:  !within(f.Latitude, b.MinLatitude, b.MaxLatitude),
		Longitude: !within(f.Longitude, b.MinLongitude, b.MaxLongitude),
		Altitude:  !within(f.Altitude, b.MinAltitude, b.MaxAltitude),
	}
}

func within(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}
