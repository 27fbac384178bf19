package transport

import (
	"context"
	"errors"
	"time"

	"gnss-monitor/internal/replay"
)

// Replay plays a capture back as if it came from a receiver. Records are
// released with their recorded spacing; a poll returns the next released
// record or Empty.
type Replay struct {
	ch     chan replay.Record
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// NewReplay starts playback. speed scales time (2.0 plays twice as fast);
// loop restarts at the end of the capture.
func NewReplay(records []replay.Record, speed float64, loop bool) *Replay {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Replay{
		ch:     make(chan replay.Record),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(r.done)
		defer close(r.ch)
		r.err = replay.Play(records, speed, loop, ctxSleeper{ctx}, func(rec replay.Record) error {
			select {
			case r.ch <- rec:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()
	return r
}

// OpenReplay reads the capture at path and starts playback.
func OpenReplay(path string, speed float64, loop bool) (*Replay, error) {
	recs, err := replay.Open(path)
	if err != nil {
		return nil, err
	}
	return NewReplay(recs, speed, loop), nil
}

func (r *Replay) Poll() (Status, []byte, error) {
	select {
	case rec, ok := <-r.ch:
		if !ok {
			return Empty, nil, nil
		}
		if rec.Kind == replay.KindBusy {
			return Busy, nil, nil
		}
		return Data, append([]byte(nil), rec.Chunk...), nil
	default:
		return Empty, nil, nil
	}
}

// Done is closed once playback has ended.
func (r *Replay) Done() <-chan struct{} { return r.done }

// Err returns the playback error after Done is closed.
func (r *Replay) Err() error {
	<-r.done
	if errors.Is(r.err, context.Canceled) {
		return nil
	}
	return r.err
}

func (r *Replay) Close() error {
	r.cancel()
	<-r.done
	return nil
}

type ctxSleeper struct {
	ctx context.Context
}

func (s ctxSleeper) Sleep(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-s.ctx.Done():
	}
}
