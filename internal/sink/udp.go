package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"gnss-monitor/internal/fix"
	"gnss-monitor/internal/udp"
)

type datagramSender interface {
	Send(payload []byte) error
	Close() error
}

// UDP sends each result as one JSON fix.Snapshot datagram.
type UDP struct {
	tx datagramSender
}

func NewUDP(dest string) (*UDP, error) {
	b, err := udp.NewBroadcaster(dest)
	if err != nil {
		return nil, err
	}
	return &UDP{tx: b}, nil
}

func (u *UDP) Name() string { return "udp" }

func (u *UDP) Publish(_ context.Context, r fix.Result) error {
	payload, err := json.Marshal(r.Snapshot())
	if err != nil {
		return fmt.Errorf("udp: marshal: %w", err)
	}
	return u.tx.Send(payload)
}

func (u *UDP) Close() error {
	return u.tx.Close()
}
