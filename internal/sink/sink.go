// Package sink delivers fix results to their consumers.
package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"gnss-monitor/internal/fix"
)

// Sink receives one result per cycle from a single goroutine.
type Sink interface {
	Publish(ctx context.Context, r fix.Result) error
	Close() error
}

// Multi fans a result out to every sink. A failing sink is logged and does
// not keep the others from receiving the result.
type Multi struct {
	sinks []Sink
	log   zerolog.Logger
}

func NewMulti(log zerolog.Logger, sinks ...Sink) *Multi {
	return &Multi{sinks: sinks, log: log}
}

// Add appends a sink. Not safe while Publish runs.
func (m *Multi) Add(s Sink) {
	m.sinks = append(m.sinks, s)
}

func (m *Multi) Len() int { return len(m.sinks) }

// Publish always returns nil; failures are logged per sink.
func (m *Multi) Publish(ctx context.Context, r fix.Result) error {
	for _, s := range m.sinks {
		if err := s.Publish(ctx, r); err != nil {
			m.log.Warn().Err(err).Str("sink", name(s)).Msg("publish failed")
		}
	}
	return nil
}

func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name(s), err))
		}
	}
	return errors.Join(errs...)
}

func name(s Sink) string {
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}
