// Package monitor runs the receiver polling loop: poll the transport,
// frame the byte stream, and classify each completed cycle.
package monitor

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"gnss-monitor/internal/fix"
	"gnss-monitor/internal/nmea"
	"gnss-monitor/internal/transport"
)

// Config controls loop timing and buffering.
type Config struct {
	// PollInterval is the idle sleep after every iteration except a busy
	// one.
	PollInterval time.Duration
	// BusyMin and BusyMax bound the random back-off after Busy.
	BusyMin time.Duration
	BusyMax time.Duration
	// Timeout is how long the loop may go without a data cycle before a
	// timeout is reported. It is reported again every Timeout until data
	// returns.
	Timeout time.Duration

	MaxBuffered int
	MaxPartial  int

	Bounds fix.Bounds
}

// DefaultConfig returns the polling cadence and timeouts used when none are configured.
func DefaultConfig() Config {
	return Config{
		PollInterval: 100 * time.Millisecond,
		BusyMin:      transport.DefaultBusyMin,
		BusyMax:      transport.DefaultBusyMax,
		Timeout:      2 * time.Second,
		MaxBuffered:  nmea.DefaultMaxBuffered,
		MaxPartial:   nmea.DefaultMaxPartial,
		Bounds:       fix.DefaultBounds(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.BusyMin <= 0 {
		c.BusyMin = d.BusyMin
	}
	if c.BusyMax < c.BusyMin {
		c.BusyMax = c.BusyMin
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.Bounds == (fix.Bounds{}) {
		c.Bounds = d.Bounds
	}
	return c
}

// Monitor owns the framer and aggregator state. Only Run (or Step) mutates
// it; SetBounds and Stats may be called from any goroutine.
type Monitor struct {
	t   transport.Transport
	cfg Config
	log zerolog.Logger

	framer *nmea.Framer
	state  fix.State
	last   fix.Result
	watch  timeoutWatch
	bounds atomic.Pointer[fix.Bounds]

	deviceErrors int
	overflows    int
	stats        stats

	rng   *rand.Rand
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New returns a Monitor that reads from t; call Run to start polling.
func New(t transport.Transport, cfg Config, log zerolog.Logger) *Monitor {
	cfg = cfg.withDefaults()
	m := &Monitor{
		t:      t,
		cfg:    cfg,
		log:    log,
		framer: nmea.NewFramer(cfg.MaxBuffered, cfg.MaxPartial),
		state:  fix.NewState(),
		last:   fix.EmptyResult(),
		watch:  timeoutWatch{limit: cfg.Timeout},
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
		sleep:  sleepCtx,
	}
	b := cfg.Bounds
	m.bounds.Store(&b)
	return m
}

// SetBounds replaces the position bounds from the next cycle on.
func (m *Monitor) SetBounds(b fix.Bounds) {
	m.bounds.Store(&b)
}

func (m *Monitor) Bounds() fix.Bounds {
	return *m.bounds.Load()
}

// Run polls until ctx is done, sending one result per data cycle and per
// timeout to out. out is closed when Run returns. A poll in flight is
// allowed to complete.
func (m *Monitor) Run(ctx context.Context, out chan<- fix.Result) error {
	defer close(out)
	m.log.Info().
		Dur("poll_interval", m.cfg.PollInterval).
		Dur("timeout", m.cfg.Timeout).
		Msg("monitor started")
	defer m.log.Info().Msg("monitor stopped")

	for ctx.Err() == nil {
		res, ok, wait := m.Step(m.now())
		if ok {
			select {
			case out <- res:
			case <-ctx.Done():
				return nil
			}
		}
		if err := m.sleep(ctx, wait); err != nil {
			return nil
		}
	}
	return nil
}

// Step runs one loop iteration at now without sleeping. It returns the
// result to emit, if any, and the wait before the next iteration.
func (m *Monitor) Step(now time.Time) (fix.Result, bool, time.Duration) {
	timedOut := m.watch.check(now)

	st, chunk, err := m.t.Poll()
	m.stats.polls.Add(1)
	switch st {
	case transport.Busy:
		m.noteRecovered()
		m.stats.busy.Add(1)
		wait := transport.Jitter(m.rng, m.cfg.BusyMin, m.cfg.BusyMax)
		m.log.Debug().Dur("backoff", wait).Msg("receiver busy")
		if timedOut {
			return m.stale(now), true, wait
		}
		return fix.Result{}, false, wait
	case transport.DeviceError:
		m.noteDeviceError(err)
	case transport.Data:
		m.noteRecovered()
		if err != nil {
			m.log.Warn().Err(err).Msg("receiver poll")
		}
		m.stats.bytes.Add(uint64(len(chunk)))
		m.framer.Feed(chunk)
		m.noteOverflow()
	case transport.Empty:
		m.noteRecovered()
		if res, ok := m.cycle(now, timedOut); ok {
			return res, true, m.cfg.PollInterval
		}
	}

	if timedOut {
		return m.stale(now), true, m.cfg.PollInterval
	}
	return fix.Result{}, false, m.cfg.PollInterval
}

// cycle drains the framer and classifies what it held.
func (m *Monitor) cycle(now time.Time, timedOut bool) (fix.Result, bool) {
	if m.framer.Buffered() == 0 {
		return fix.Result{}, false
	}
	sentences := m.framer.Drain()
	m.noteOverflow()
	if len(sentences) == 0 {
		return fix.Result{}, false
	}

	var res fix.Result
	m.state, res = fix.Classify(m.state, fix.Collect(sentences), m.Bounds(), timedOut)
	res.At = now
	m.last = res
	m.watch.reset(now)
	m.stats.cycles.Add(1)

	if res.Flags.Any() {
		m.log.Debug().
			Bool("checksum", res.Flags.Checksum).
			Bool("utc", res.Flags.UTC).
			Bool("position", res.Flags.Position).
			Bool("timeout", res.Flags.Timeout).
			Int("sentences", len(sentences)).
			Msg("cycle flagged")
	}
	return res, true
}

func (m *Monitor) stale(now time.Time) fix.Result {
	var res fix.Result
	m.state, res = fix.Stale(m.state, m.last)
	res.At = now
	m.log.Warn().
		Dur("timeout", m.cfg.Timeout).
		Uint64("count", res.Counters.Timeout).
		Msg("no data from receiver")
	return res
}

func (m *Monitor) noteDeviceError(err error) {
	m.stats.deviceErrors.Add(1)
	m.deviceErrors++
	// First failure, then every 50th while it persists.
	if m.deviceErrors == 1 || m.deviceErrors%50 == 0 {
		m.log.Warn().Err(err).Int("consecutive", m.deviceErrors).Msg("receiver device error")
	}
}

func (m *Monitor) noteRecovered() {
	if m.deviceErrors > 0 {
		m.log.Info().Int("failed_polls", m.deviceErrors).Msg("receiver device recovered")
		m.deviceErrors = 0
	}
}

func (m *Monitor) noteOverflow() {
	if n := m.framer.Overflows(); n != m.overflows {
		m.stats.overflows.Add(uint64(n - m.overflows))
		m.overflows = n
		m.log.Warn().Int("overflows", n).Msg("sentence buffer overflow, bytes discarded")
	}
}

type timeoutWatch struct {
	limit   time.Duration
	prev    time.Time
	started bool
}

// check reports whether limit has elapsed since the last reset or the last
// time it fired. The first call starts the watch.
func (w *timeoutWatch) check(now time.Time) bool {
	if !w.started {
		w.reset(now)
		return false
	}
	if now.Sub(w.prev) >= w.limit {
		w.prev = now
		return true
	}
	return false
}

func (w *timeoutWatch) reset(now time.Time) {
	w.prev = now
	w.started = true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
