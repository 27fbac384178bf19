package web

import (
	"sync"

	"gnss-monitor/internal/fix"
)

// Broadcaster fans fix snapshots out to stream listeners. It keeps the most
// recent value so new subscribers get an immediate sample.
type Broadcaster struct {
	mu       sync.RWMutex
	subs     map[int]chan fix.Snapshot
	nextID   int
	last     fix.Snapshot
	haveLast bool
	dropped  uint64
}

// NewBroadcaster returns a Broadcaster with no subscribers.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan fix.Snapshot)}
}

// Subscribe registers a channel of the given buffer size and returns its id for Unsubscribe.
func (b *Broadcaster) Subscribe(buffer int) (int, <-chan fix.Snapshot) {
	if b == nil {
		return 0, nil
	}
	if buffer <= 0 {
		buffer = 4
	}
	ch := make(chan fix.Snapshot, buffer)
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	if b.haveLast {
		ch <- b.last
	}
	b.mu.Unlock()
	return id, ch
}

func (b *Broadcaster) Unsubscribe(id int) {
	if b == nil {
		return
	}
	b.mu.Lock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
	b.mu.Unlock()
}

// Subscribers reports the number of live subscriptions.
func (b *Broadcaster) Subscribers() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped counts snapshots skipped because a subscriber was full.
func (b *Broadcaster) Dropped() uint64 {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}

// Publish never blocks; a slow subscriber misses samples.
func (b *Broadcaster) Publish(snap fix.Snapshot) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- snap:
		default:
			b.dropped++
		}
	}
	b.last = snap
	b.haveLast = true
}
