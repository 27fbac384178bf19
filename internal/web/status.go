package web

import (
	"sync/atomic"
	"time"

	"gnss-monitor/internal/fix"
	"gnss-monitor/internal/monitor"
)

// Status holds what /api/status reports. Safe for concurrent use.
type Status struct {
	startUnixNano int64
	lastFixNano   int64
	results       uint64
	source        atomic.Value // string
	latest        atomic.Pointer[fix.Snapshot]
	stats         atomic.Pointer[func() monitor.Stats]
}

func NewStatus() *Status {
	s := &Status{}
	atomic.StoreInt64(&s.startUnixNano, time.Now().UTC().UnixNano())
	s.source.Store("")
	return s
}

// SetSource records a human readable description of the receiver input.
func (s *Status) SetSource(source string) {
	s.source.Store(source)
}

// SetStats installs the provider for loop counters.
func (s *Status) SetStats(fn func() monitor.Stats) {
	if fn == nil {
		s.stats.Store(nil)
		return
	}
	s.stats.Store(&fn)
}

func (s *Status) Update(nowUTC time.Time, snap fix.Snapshot) {
	if nowUTC.IsZero() {
		nowUTC = time.Now().UTC()
	}
	s.latest.Store(&snap)
	atomic.StoreInt64(&s.lastFixNano, nowUTC.UnixNano())
	atomic.AddUint64(&s.results, 1)
}

// Latest returns the most recent snapshot, if any.
func (s *Status) Latest() (fix.Snapshot, bool) {
	p := s.latest.Load()
	if p == nil {
		return fix.Snapshot{}, false
	}
	return *p, true
}

type StatusSnapshot struct {
	Service    string         `json:"service"`
	NowUTC     string         `json:"now_utc"`
	UptimeSec  int64          `json:"uptime_sec"`
	Source     string         `json:"source,omitempty"`
	Results    uint64         `json:"results"`
	LastFixUTC string         `json:"last_fix_utc,omitempty"`
	Fix        *fix.Snapshot  `json:"fix,omitempty"`
	Stats      *monitor.Stats `json:"stats,omitempty"`
}

func (s *Status) Snapshot(nowUTC time.Time) StatusSnapshot {
	start := time.Unix(0, atomic.LoadInt64(&s.startUnixNano)).UTC()
	out := StatusSnapshot{
		Service:   "gnss-monitor",
		NowUTC:    nowUTC.Format(time.RFC3339Nano),
		UptimeSec: int64(nowUTC.Sub(start).Seconds()),
		Source:    s.source.Load().(string),
		Results:   atomic.LoadUint64(&s.results),
	}
	if n := atomic.LoadInt64(&s.lastFixNano); n != 0 {
		out.LastFixUTC = time.Unix(0, n).UTC().Format(time.RFC3339Nano)
	}
	if snap, ok := s.Latest(); ok {
		out.Fix = &snap
	}
	if fn := s.stats.Load(); fn != nil {
		st := (*fn)()
		out.Stats = &st
	}
	return out
}
