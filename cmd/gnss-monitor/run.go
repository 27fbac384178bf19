package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"gnss-monitor/internal/config"
	"gnss-monitor/internal/fix"
	"gnss-monitor/internal/monitor"
	"gnss-monitor/internal/replay"
	"gnss-monitor/internal/sink"
	"gnss-monitor/internal/transport"
	"gnss-monitor/internal/web"
)

// Swapped in tests.
var (
	openI2C = func(path string, addr uint16, maxChunk int) (transport.Transport, error) {
		return transport.OpenI2C(path, addr, maxChunk), nil
	}
	openPeriph = func(bus string, addr uint16, maxChunk int) (transport.Transport, error) {
		return transport.OpenPeriph(bus, addr, maxChunk)
	}
	openSerial  = func(c transport.SerialConfig) (transport.Transport, error) { return transport.OpenSerial(c) }
	openTxReady = func(t transport.Transport, pin int, activeLow bool) (transport.Transport, error) {
		return transport.OpenTxReady(t, pin, activeLow)
	}
	newMQTT = func(c sink.MQTTConfig, log zerolog.Logger) (sink.Sink, error) { return sink.NewMQTT(c, log) }
)

// source is the receiver input as the loop sees it. done is non-nil for
// finite inputs and is closed when they run out.
type source struct {
	t       transport.Transport
	desc    string
	done    <-chan struct{}
	doneErr func() error
}

func buildTransport(cfg config.Config, log zerolog.Logger) (source, error) {
	r := cfg.Receiver
	var src source
	switch r.Kind {
	case "i2c":
		t, err := openI2C(r.Device, r.Address, cfg.Poll.MaxChunk)
		if err != nil {
			return source{}, err
		}
		src = source{t: t, desc: fmt.Sprintf("i2c %s %#x", r.Device, r.Address)}
	case "periph":
		t, err := openPeriph(r.PeriphBus, r.Address, cfg.Poll.MaxChunk)
		if err != nil {
			return source{}, fmt.Errorf("periph: %w", err)
		}
		src = source{t: t, desc: fmt.Sprintf("periph %q %#x", r.PeriphBus, r.Address)}
	case "serial":
		t, err := openSerial(transport.SerialConfig{
			Port:        r.Serial.Port,
			Baud:        r.Serial.Baud,
			ReadTimeout: cfg.Poll.Interval,
			ChunkSize:   cfg.Poll.MaxChunk,
		})
		if err != nil {
			return source{}, err
		}
		src = source{t: t, desc: fmt.Sprintf("serial %s %d", r.Serial.Port, r.Serial.Baud)}
	case "replay":
		rp, err := transport.OpenReplay(r.Replay.Path, r.Replay.Speed, r.Replay.Loop)
		if err != nil {
			return source{}, fmt.Errorf("replay: %w", err)
		}
		src = source{t: rp, desc: "replay " + r.Replay.Path, done: rp.Done(), doneErr: rp.Err}
	default:
		return source{}, fmt.Errorf("unknown receiver kind %q", r.Kind)
	}

	if r.TxReady.Enable {
		t, err := openTxReady(src.t, r.TxReady.Pin, r.TxReady.ActiveLow)
		if err != nil {
			_ = src.t.Close()
			return source{}, err
		}
		src.t = t
		src.desc += fmt.Sprintf(" txready=GPIO%d", r.TxReady.Pin)
	}

	if rec := cfg.Output.Record; rec.Enable {
		w, err := replay.CreateWriter(rec.Path)
		if err != nil {
			_ = src.t.Close()
			return source{}, fmt.Errorf("record: %w", err)
		}
		src.t = transport.NewRecorder(src.t, w, log)
		src.desc += " record=" + rec.Path
	}
	return src, nil
}

func buildSinks(cfg config.Config, log zerolog.Logger, pub *web.Publisher) (*sink.Multi, error) {
	multi := sink.NewMulti(log.With().Str("component", "sink").Logger())
	multi.Add(sink.NewConsole(log.With().Str("component", "console").Logger(), sink.ConsoleOptions{
		Sentences:  cfg.Output.PrintNMEA,
		Satellites: cfg.Output.PrintSatellites,
	}))

	o := cfg.Output
	if o.MQTT.Enable {
		m, err := newMQTT(sink.MQTTConfig{
			Broker:   o.MQTT.Broker,
			ClientID: o.MQTT.ClientID,
			Username: o.MQTT.Username,
			Password: o.MQTT.Password,
			Topic:    o.MQTT.Topic,
			QoS:      o.MQTT.QoS,
			Retained: o.MQTT.Retained,
			Timeout:  o.MQTT.Timeout,
		}, log.With().Str("component", "mqtt").Logger())
		if err != nil {
			_ = multi.Close()
			return nil, err
		}
		multi.Add(m)
	}
	if o.UDP.Enable {
		u, err := sink.NewUDP(o.UDP.Dest)
		if err != nil {
			_ = multi.Close()
			return nil, err
		}
		multi.Add(u)
	}
	if pub != nil {
		multi.Add(pub)
	}
	return multi, nil
}

func monitorConfig(cfg config.Config, bounds fix.Bounds) monitor.Config {
	return monitor.Config{
		PollInterval: cfg.Poll.Interval,
		BusyMin:      cfg.Poll.BusyMin,
		BusyMax:      cfg.Poll.BusyMax,
		Timeout:      cfg.Poll.Timeout,
		MaxBuffered:  cfg.Poll.MaxBuffer,
		MaxPartial:   cfg.Poll.MaxPartial,
		Bounds:       bounds,
	}
}

// run wires the receiver, the monitor loop and the sinks, and blocks until
// ctx is done or a finite input has been fully consumed.
func run(ctx context.Context, cfg config.Config, log zerolog.Logger, logs *web.LogBuffer) error {
	bounds := cfg.Bounds
	if cfg.BoundsFile != "" {
		b, err := config.LoadBounds(cfg.BoundsFile, bounds)
		if err != nil {
			return err
		}
		bounds = b
	}

	src, err := buildTransport(cfg, log.With().Str("component", "transport").Logger())
	if err != nil {
		return err
	}

	mon := monitor.New(src.t, monitorConfig(cfg, bounds), log.With().Str("component", "monitor").Logger())

	var pub *web.Publisher
	var status *web.Status
	var hub *web.Broadcaster
	if cfg.Output.Web.Enable {
		status = web.NewStatus()
		status.SetSource(src.desc)
		status.SetStats(mon.Stats)
		hub = web.NewBroadcaster()
		pub = web.NewPublisher(status, hub)
	}

	sinks, err := buildSinks(cfg, log, pub)
	if err != nil {
		_ = src.t.Close()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info().
		Str("source", src.desc).
		Dur("poll_interval", cfg.Poll.Interval).
		Int("sinks", sinks.Len()).
		Msg("gnss-monitor starting")

	var wg sync.WaitGroup
	var bgErr error
	var bgMu sync.Mutex
	fail := func(err error) {
		bgMu.Lock()
		if bgErr == nil {
			bgErr = err
		}
		bgMu.Unlock()
		cancel()
	}

	if cfg.BoundsFile != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := config.WatchBounds(ctx, cfg.BoundsFile, cfg.Bounds, log, mon.SetBounds); err != nil {
				log.Warn().Err(err).Msg("bounds file not watched")
			}
		}()
	}

	if cfg.Output.Web.Enable {
		handler := web.Handler(status, hub, logs, log.With().Str("component", "web").Logger())
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info().Str("listen", cfg.Output.Web.Listen).Msg("web listening")
			if err := web.Serve(ctx, cfg.Output.Web.Listen, handler); err != nil && !errors.Is(err, context.Canceled) {
				fail(fmt.Errorf("web: %w", err))
			}
		}()
	}

	if src.done != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			case <-src.done:
			}
			if err := src.doneErr(); err != nil {
				fail(err)
				return
			}
			// Let the loop drain the last cycle before stopping.
			drain := 2*cfg.Poll.Interval + 50*time.Millisecond
			select {
			case <-ctx.Done():
			case <-time.After(drain):
				log.Info().Msg("capture finished")
				cancel()
			}
		}()
	}

	results := make(chan fix.Result, 16)
	runErr := make(chan error, 1)
	go func() { runErr <- mon.Run(ctx, results) }()

	for res := range results {
		_ = sinks.Publish(ctx, res)
	}
	err = <-runErr
	cancel()
	wg.Wait()

	st := mon.Stats()
	log.Info().
		Uint64("polls", st.Polls).
		Uint64("cycles", st.Cycles).
		Uint64("busy", st.Busy).
		Uint64("device_errors", st.DeviceErrors).
		Msg("gnss-monitor stopped")

	bgMu.Lock()
	defer bgMu.Unlock()
	return errors.Join(err, bgErr, sinks.Close(), src.t.Close())
}
