package page

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"storylink/internal/services"
)

// ErrBrokerClosed is returned by Fetch after Close.
var ErrBrokerClosed = errors.New("event broker closed")

// Event is one renderer notification.
type Event struct {
	Sequence      uint64    `json:"seq"`
	Name          string    `json:"event"`
	StoryID       string    `json:"story_id,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Timestamp     time.Time `json:"ts"`
}

// Broker buffers recent events and wakes waiting streams when new ones arrive.
type Broker struct {
	mu       sync.Mutex
	cond     *sync.Cond
	capacity int
	buffer   []Event
	nextSeq  uint64
	closed   bool
}

// NewBroker constructs a bounded event buffer.
func NewBroker(capacity int) *Broker {
	if capacity <= 0 {
		capacity = 64
	}
	b := &Broker{capacity: capacity}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Notify publishes event, tagging it with the story and correlation id carried by ctx.
func (b *Broker) Notify(ctx context.Context, event string) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}
	evt := Event{Name: event, Timestamp: time.Now().UTC()}
	if ctx != nil {
		evt.StoryID, _ = services.StoryIDFromContext(ctx)
		evt.CorrelationID, _ = services.RequestIDFromContext(ctx)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBrokerClosed
	}
	b.nextSeq++
	evt.Sequence = b.nextSeq
	if len(b.buffer) == b.capacity {
		copy(b.buffer, b.buffer[1:])
		b.buffer = b.buffer[:b.capacity-1]
	}
	b.buffer = append(b.buffer, evt)
	b.cond.Broadcast()
	return nil
}

// Fetch returns events with a sequence greater than since. When wait is true it
// blocks until one arrives, the context ends, or the broker closes.
func (b *Broker) Fetch(ctx context.Context, since uint64, wait bool) ([]Event, uint64, error) {
	cancelWait := make(chan struct{})
	if wait && ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				b.mu.Lock()
				b.cond.Broadcast()
				b.mu.Unlock()
			case <-cancelWait:
			}
		}()
	}
	defer close(cancelWait)

	b.mu.Lock()
	defer b.mu.Unlock()
	for {
		events, next := b.snapshotLocked(since)
		if len(events) > 0 || !wait {
			return events, next, nil
		}
		if b.closed {
			return nil, next, ErrBrokerClosed
		}
		if ctx != nil && ctx.Err() != nil {
			return nil, next, ctx.Err()
		}
		b.cond.Wait()
	}
}

// Latest returns the most recent sequence number.
func (b *Broker) Latest() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nextSeq
}

// Close wakes every waiting stream and rejects further notifications.
func (b *Broker) Close() {
	b.mu.Lock()
	b.closed = true
	b.cond.Broadcast()
	b.mu.Unlock()
}

func (b *Broker) snapshotLocked(since uint64) ([]Event, uint64) {
	if since >= b.nextSeq {
		return nil, b.nextSeq
	}
	out := make([]Event, 0, len(b.buffer))
	for _, evt := range b.buffer {
		if evt.Sequence > since {
			out = append(out, evt)
		}
	}
	return out, b.nextSeq
}
