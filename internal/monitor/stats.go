package monitor

import "sync/atomic"

type stats struct {
	polls        atomic.Uint64
	busy         atomic.Uint64
	deviceErrors atomic.Uint64
	bytes        atomic.Uint64
	cycles       atomic.Uint64
	overflows    atomic.Uint64
}

// Stats are loop counters since start.
type Stats struct {
	Polls        uint64 `json:"polls"`
	Busy         uint64 `json:"busy"`
	DeviceErrors uint64 `json:"device_errors"`
	Bytes        uint64 `json:"bytes"`
	Cycles       uint64 `json:"cycles"`
	Overflows    uint64 `json:"buffer_overflows"`
}

func (m *Monitor) Stats() Stats {
	return Stats{
		Polls:        m.stats.polls.Load(),
		Busy:         m.stats.busy.Load(),
		DeviceErrors: m.stats.deviceErrors.Load(),
		Bytes:        m.stats.bytes.Load(),
		Cycles:       m.stats.cycles.Load(),
		Overflows:    m.stats.overflows.Load(),
	}
}
