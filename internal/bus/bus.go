// Package bus is the in-process publish/subscribe channel that keeps the
// paginator, the record lists and their summaries in step without any of them
// knowing about the others.
//
// Delivery is synchronous. Publishes are serialised per bus: a publish issued
// while another delivery is running (from inside a handler, or from another
// goroutine) is queued and delivered by the running deliverer, in FIFO order,
// before that deliverer returns. This keeps the per-publisher ordering intact
// and lets handlers publish without deadlocking.
package bus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jask/recruitdesk/internal/logging"
)

// Message is one of SendTotalRecords, SendPageSize, SendCurrentPage or FilterChanged.
type Message interface {
	paginationMessage()
}

// SendTotalRecords announces the length of a freshly loaded record list.
type SendTotalRecords struct{ Total int }

// SendPageSize announces the effective page size.
type SendPageSize struct{ Size int }

// SendCurrentPage announces the current 1-based page.
type SendCurrentPage struct{ Page int }

// FilterChanged tells the paginator that the underlying query changed.
type FilterChanged struct{}

func (SendTotalRecords) paginationMessage() {}
func (SendPageSize) paginationMessage()     {}
func (SendCurrentPage) paginationMessage()  {}
func (FilterChanged) paginationMessage()    {}

// Handler receives delivered messages.
type Handler func(Message)

// Bus is a pagination channel. The zero value is not usable; call New.
type Bus struct {
	logger *slog.Logger

	mu         sync.Mutex
	subs       []*Subscription
	queue      []envelope
	delivering bool
	closed     bool
}

type envelope struct {
	from *Subscription
	msg  Message
}

// Subscription is a handle returned by Subscribe. It refers back to its bus
// but the bus never hands it out to anyone else.
type Subscription struct {
	bus     *Bus
	handler Handler
	active  bool // guarded by bus.mu
}

// New creates an empty bus.
func New(logger *slog.Logger) *Bus {
	return &Bus{logger: logging.OrDiscard(logger)}
}

// Subscribe registers h. Messages published before this call are never replayed.
func (b *Bus) Subscribe(h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := &Subscription{bus: b, handler: h, active: !b.closed}
	if s.active {
		b.subs = append(b.subs, s)
	}
	return s
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish delivers msg to every active subscription.
func (b *Bus) Publish(msg Message) {
	b.publish(nil, msg)
}

// Close drops all subscriptions and ignores later publishes.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs {
		s.active = false
	}
	b.subs = nil
	b.queue = nil
	b.closed = true
}

// Publish delivers msg to every active subscription except s.
func (s *Subscription) Publish(msg Message) {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.publish(s, msg)
}

// Unsubscribe removes s from its bus. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	for i, other := range b.subs {
		if other == s {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			break
		}
	}
}

// Active reports whether s still receives messages.
func (s *Subscription) Active() bool {
	if s == nil || s.bus == nil {
		return false
	}
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	return s.active
}

func (b *Bus) publish(from *Subscription, msg Message) {
	if msg == nil {
		return
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.queue = append(b.queue, envelope{from: from, msg: msg})
	if b.delivering {
		b.mu.Unlock()
		return
	}
	b.delivering = true
	b.mu.Unlock()

	b.drain()
}

// drain delivers queued envelopes until the queue is empty. Only one goroutine
// drains at a time.
func (b *Bus) drain() {
	finished := false
	defer func() {
		// a handler panicked; release the deliverer role so the bus stays usable
		if !finished {
			b.mu.Lock()
			b.delivering = false
			b.mu.Unlock()
		}
	}()
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.delivering = false
			b.mu.Unlock()
			finished = true
			return
		}
		env := b.queue[0]
		b.queue = b.queue[1:]
		targets := make([]*Subscription, 0, len(b.subs))
		for _, s := range b.subs {
			if s != env.from {
				targets = append(targets, s)
			}
		}
		b.mu.Unlock()

		b.logger.Log(context.Background(), logging.LevelTrace, "bus deliver",
			"message", describe(env.msg), "subscribers", len(targets))
		for _, s := range targets {
			if s.handler == nil || !s.Active() {
				continue
			}
			s.handler(env.msg)
		}
	}
}

func describe(m Message) string {
	switch m.(type) {
	case SendTotalRecords:
		return "sendTotalRecords"
	case SendPageSize:
		return "sendPageSize"
	case SendCurrentPage:
		return "sendCurrentPage"
	case FilterChanged:
		return "filterChanged"
	default:
		return "unknown"
	}
}
