package fix

import "gnss-monitor/internal/nmea"

// Flags are the error verdicts of one cycle.
type Flags struct {
	Checksum bool `json:"checksum"`
	UTC      bool `json:"utc"`
	Position bool `json:"position"`
	Timeout  bool `json:"timeout"`

	Latitude  bool `json:"latitude"`
	Longitude bool `json:"longitude"`
	Altitude  bool `json:"altitude"`
}

// Any reports whether any flag is set.
func (f Flags) Any() bool {
	return f.Checksum || f.UTC || f.Position || f.Timeout
}

// Counters count the cycles in which each flag was raised since start.
type Counters struct {
	Checksum uint64 `json:"checksum"`
	UTC      uint64 `json:"utc"`
	Position uint64 `json:"position"`
	Timeout  uint64 `json:"timeout"`

	Latitude  uint64 `json:"latitude"`
	Longitude uint64 `json:"longitude"`
	Altitude  uint64 `json:"altitude"`
}

// State is carried from one cycle to the next.
type State struct {
	// PrevEpoch is the last positive RMC epoch seen, nmea.NoEpoch before
	// the first one.
	PrevEpoch int64
	Counters  Counters
}

// NewState returns the state before the first cycle.
func NewState() State {
	return State{PrevEpoch: nmea.NoEpoch}
}

func (st *State) count(f Flags) {
	if f.Checksum {
		st.Counters.Checksum++
	}
	if f.UTC {
		st.Counters.UTC++
	}
	if f.Position {
		st.Counters.Position++
	}
	if f.Latitude {
		st.Counters.Latitude++
	}
	if f.Longitude {
		st.Counters.Longitude++
	}
	if f.Altitude {
		st.Counters.Altitude++
	}
	if f.Timeout {
		st.Counters.Timeout++
	}
}

// utcError reports a missing epoch or a gap other than 0 or 1 second to the
// previous one.
func utcError(prev, epoch int64) bool {
	if epoch <= 0 {
		return true
	}
	if prev <= 0 {
		return false
	}
	d := epoch - prev
	return d < 0 || d > 1
}

// Classify checks one cycle and returns the updated state with the cycle
// result. timedOut is the verdict of the caller's wall-clock watch for this
// iteration.
func Classify(st State, c Cycle, b Bounds, timedOut bool) (State, Result) {
	fx := c.Fix()
	pos := b.Check(fx)
	flags := Flags{
		Checksum:  c.ChecksumErrors > 0,
		UTC:       utcError(st.PrevEpoch, fx.Epoch),
		Position:  pos.Failed(),
		Timeout:   timedOut,
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		Altitude:  pos.Altitude,
	}
	if fx.Epoch > 0 {
		st.PrevEpoch = fx.Epoch
	}
	st.count(flags)

	res := Result{
		Fix:       fx,
		SystemID:  -1,
		PDOP:      nmea.DOPUnavailable,
		HDOP:      nmea.DOPUnavailable,
		VDOP:      nmea.DOPUnavailable,
		GSA:       c.GSA,
		GSV:       c.GSV,
		Sentences: c.Sentences,
		Flags:     flags,
		Counters:  st.Counters,
	}
	if len(c.GSA) > 0 {
		first := c.GSA[0]
		res.PDOP, res.HDOP, res.VDOP = first.PDOP, first.HDOP, first.VDOP
		res.SystemID = first.SystemID
		res.Used = first.Satellites
	}
	return st, res
}

// Stale returns last re-issued for an iteration in which the timeout watch
// fired without a data cycle. The timeout counter is advanced and the
// result carries the timeout flag.
func Stale(st State, last Result) (State, Result) {
	st.count(Flags{Timeout: true})
	last.Flags.Timeout = true
	last.Counters = st.Counters
	last.Stale = true
	return st, last
}
