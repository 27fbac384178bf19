package fix

import (
	"sort"
	"time"

	"gnss-monitor/internal/nmea"
)

// Health summarizes the flags of a result.
type Health int

const (
	HealthValid Health = iota
	HealthInvalid
	HealthStale
)

func (h Health) String() string {
	switch h {
	case HealthValid:
		return "valid"
	case HealthInvalid:
		return "invalid"
	case HealthStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Result is what the aggregator emits for one cycle.
type Result struct {
	// At is when the result was produced. Set by the caller.
	At  time.Time
	Fix Fix

	// DOP, system id and used satellites come from the first GSA of the
	// cycle; without GSA the DOPs are nmea.DOPUnavailable and SystemID -1.
	PDOP     float64
	HDOP     float64
	VDOP     float64
	SystemID int
	Used     []int

	GSA       []nmea.GSA
	GSV       []nmea.GSV
	Sentences []SentenceCheck

	Flags    Flags
	Counters Counters
	// Stale is set on results re-issued by the timeout watch.
	Stale bool
}

// EmptyResult is the result before any cycle was seen.
func EmptyResult() Result {
	return Result{
		Fix:      EmptyFix(),
		PDOP:     nmea.DOPUnavailable,
		HDOP:     nmea.DOPUnavailable,
		VDOP:     nmea.DOPUnavailable,
		SystemID: -1,
	}
}

// Health is stale when the timeout flag is set, invalid when any other flag
// is set, and valid otherwise.
func (r Result) Health() Health {
	switch {
	case r.Flags.Timeout:
		return HealthStale
	case r.Flags.Any():
		return HealthInvalid
	default:
		return HealthValid
	}
}

// Satellite is one GSV entry joined with the GSA solution.
type Satellite struct {
	nmea.SatelliteInView
	Constellation nmea.Constellation
	SignalID      int
	// Active is set when a GSA of the same system lists the satellite.
	Active bool
}

// Satellites returns every satellite reported by the cycle's GSV sentences,
// ordered by constellation then svid. A GSA without system id or a GSV from
// an unknown talker matches any system.
func (r Result) Satellites() []Satellite {
	var out []Satellite
	for _, g := range r.GSV {
		for _, sv := range g.Satellites {
			out = append(out, Satellite{
				SatelliteInView: sv,
				Constellation:   g.Constellation,
				SignalID:        g.SignalID,
				Active:          r.active(g.Constellation, sv.SVID),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Constellation != out[j].Constellation {
			return out[i].Constellation < out[j].Constellation
		}
		return out[i].SVID < out[j].SVID
	})
	return out
}

func (r Result) active(c nmea.Constellation, svid int) bool {
	for _, g := range r.GSA {
		sameSystem := g.SystemID <= 0 || c == nmea.ConstellationUnknown || g.SystemID == int(c)
		if sameSystem && g.Uses(svid) {
			return true
		}
	}
	return false
}
