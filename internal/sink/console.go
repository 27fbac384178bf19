package sink

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"gnss-monitor/internal/fix"
)

// ConsoleOptions selects the optional per-cycle detail.
type ConsoleOptions struct {
	// Sentences logs every sentence with its checksum verdict.
	Sentences bool
	// Satellites logs the satellites in view with their solution usage.
	Satellites bool
}

// Console writes a summary of each result to a zerolog logger.
type Console struct {
	log  zerolog.Logger
	opts ConsoleOptions
}

func NewConsole(log zerolog.Logger, opts ConsoleOptions) *Console {
	return &Console{log: log, opts: opts}
}

func (c *Console) Name() string { return "console" }

func (c *Console) Publish(_ context.Context, r fix.Result) error {
	if c.opts.Sentences {
		for _, s := range r.Sentences {
			c.log.Info().
				Bool("checksum_ok", s.Valid).
				Str("type", s.Kind.String()).
				Msg(s.Text)
		}
	}

	ev := c.log.Info()
	if r.Health() != fix.HealthValid {
		ev = c.log.Warn()
	}
	ev = ev.Str("health", r.Health().String()).
		Bool("stale", r.Stale).
		Str("utc", r.Fix.UTC).
		Int("num_sv", r.Fix.NumSatellites).
		Float64("pdop", r.PDOP).
		Float64("hdop", r.HDOP).
		Float64("vdop", r.VDOP)
	ev = floatField(ev, "lat", r.Fix.Latitude)
	ev = floatField(ev, "lon", r.Fix.Longitude)
	ev = floatField(ev, "alt_m", r.Fix.Altitude)
	ev.Dict("errors", zerolog.Dict().
		Bool("checksum", r.Flags.Checksum).
		Bool("utc", r.Flags.UTC).
		Bool("position", r.Flags.Position).
		Bool("latitude", r.Flags.Latitude).
		Bool("longitude", r.Flags.Longitude).
		Bool("altitude", r.Flags.Altitude).
		Bool("timeout", r.Flags.Timeout)).
		Dict("counts", zerolog.Dict().
			Uint64("checksum", r.Counters.Checksum).
			Uint64("utc", r.Counters.UTC).
			Uint64("position", r.Counters.Position).
			Uint64("latitude", r.Counters.Latitude).
			Uint64("longitude", r.Counters.Longitude).
			Uint64("altitude", r.Counters.Altitude).
			Uint64("timeout", r.Counters.Timeout)).
		Msg("fix")

	if c.opts.Satellites {
		for _, sv := range r.Satellites() {
			c.log.Info().
				Str("system", sv.Constellation.String()).
				Int("svid", sv.SVID).
				Int("elevation", sv.Elevation).
				Int("azimuth", sv.Azimuth).
				Int("cno", sv.CNo).
				Int("signal", sv.SignalID).
				Bool("active", sv.Active).
				Msg("satellite")
		}
	}
	return nil
}

func (c *Console) Close() error { return nil }

// floatField omits NaN values; JSON output cannot carry them.
func floatField(ev *zerolog.Event, key string, v float64) *zerolog.Event {
	if math.IsNaN(v) {
		return ev
	}
	return ev.Float64(key, v)
}
