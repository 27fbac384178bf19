package web

import (
	"context"

	"gnss-monitor/internal/fix"
)

// Publisher feeds monitor results into the status page and stream. It
// satisfies sink.Sink.
type Publisher struct {
	status *Status
	hub    *Broadcaster
}

func NewPublisher(status *Status, hub *Broadcaster) *Publisher {
	return &Publisher{status: status, hub: hub}
}

func (p *Publisher) Name() string { return "web" }

func (p *Publisher) Publish(_ context.Context, r fix.Result) error {
	snap := r.Snapshot()
	if p.status != nil {
		p.status.Update(r.At, snap)
	}
	p.hub.Publish(snap)
	return nil
}

func (p *Publisher) Close() error { return nil }
