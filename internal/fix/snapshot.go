package fix

import (
	"math"
	"time"
)

// Snapshot is the JSON form of a Result published to sinks. Missing
// position values are omitted rather than encoded as NaN.
type Snapshot struct {
	Time   string `json:"time,omitempty"`
	Health string `json:"health"`

	UTC   string `json:"utc,omitempty"`
	Epoch int64  `json:"epoch,omitempty"`

	LatDeg *float64 `json:"lat_deg,omitempty"`
	LonDeg *float64 `json:"lon_deg,omitempty"`
	AltM   *float64 `json:"alt_m,omitempty"`
	NumSV  int      `json:"num_sv"`

	PDOP     float64 `json:"pdop"`
	HDOP     float64 `json:"hdop"`
	VDOP     float64 `json:"vdop"`
	SystemID *int    `json:"system_id,omitempty"`
	Used     []int   `json:"used,omitempty"`

	Errors   Flags    `json:"errors"`
	Counters Counters `json:"counters"`

	Satellites []SatelliteSnapshot `json:"satellites,omitempty"`
}

type SatelliteSnapshot struct {
	System    string `json:"system,omitempty"`
	SVID      int    `json:"svid"`
	Elevation *int   `json:"elevation,omitempty"`
	Azimuth   *int   `json:"azimuth,omitempty"`
	CNo       *int   `json:"cno,omitempty"`
	Active    bool   `json:"active"`
}

// Snapshot converts r for publication.
func (r Result) Snapshot() Snapshot {
	s := Snapshot{
		Health:   r.Health().String(),
		UTC:      r.Fix.UTC,
		NumSV:    r.Fix.NumSatellites,
		PDOP:     r.PDOP,
		HDOP:     r.HDOP,
		VDOP:     r.VDOP,
		Used:     r.Used,
		Errors:   r.Flags,
		Counters: r.Counters,
		LatDeg:   floatPtr(r.Fix.Latitude),
		LonDeg:   floatPtr(r.Fix.Longitude),
		AltM:     floatPtr(r.Fix.Altitude),
	}
	if !r.At.IsZero() {
		s.Time = r.At.UTC().Format(time.RFC3339Nano)
	}
	if r.Fix.Epoch > 0 {
		s.Epoch = r.Fix.Epoch
	}
	if r.SystemID >= 0 {
		id := r.SystemID
		s.SystemID = &id
	}
	for _, sv := range r.Satellites() {
		s.Satellites = append(s.Satellites, SatelliteSnapshot{
			System:    sv.Constellation.String(),
			SVID:      sv.SVID,
			Elevation: intPtr(sv.Elevation),
			Azimuth:   intPtr(sv.Azimuth),
			CNo:       intPtr(sv.CNo),
			Active:    sv.Active,
		})
	}
	return s
}

func floatPtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func intPtr(v int) *int {
	if v < 0 {
		return nil
	}
	return &v
}
