package events

import (
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the subscription buffer used when none is requested.
const DefaultBuffer = 16

// Subscription is one listener registration. Its channel is closed when the
// subscription is displaced, unsubscribed, or the stream is closed.
type Subscription struct {
	ch   chan Event
	once sync.Once
}

// Events returns the channel results are delivered on.
func (s *Subscription) Events() <-chan Event { return s.ch }

func (s *Subscription) close() { s.once.Do(func() { close(s.ch) }) }

// Stats counts stream activity since creation.
type Stats struct {
	Published uint64
	Delivered uint64
	Dropped   uint64
}

// Stream is a single-subscriber event channel. Publish never blocks: with no
// subscriber, or with the subscriber's buffer full, the event is dropped.
type Stream struct {
	mu     sync.Mutex
	sub    *Subscription
	closed bool

	published atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
}

// NewStream creates an open stream with no subscriber.
func NewStream() *Stream { return &Stream{} }

// Subscribe registers a new listener, closing and replacing the previous one.
// On a closed stream the returned subscription is already closed.
func (s *Stream) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	sub := &Subscription{ch: make(chan Event, buffer)}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		sub.close()
		return sub
	}
	if s.sub != nil {
		s.sub.close()
	}
	s.sub = sub
	return sub
}

// Unsubscribe detaches sub if it is still the current listener.
func (s *Stream) Unsubscribe(sub *Subscription) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub == nil || s.sub != sub {
		return false
	}
	s.sub = nil
	sub.close()
	return true
}

// HasSubscriber reports whether a listener is attached.
func (s *Stream) HasSubscriber() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sub != nil
}

// Publish offers e to the current listener and reports whether it was delivered.
func (s *Stream) Publish(e Event) bool {
	s.published.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub == nil {
		s.dropped.Add(1)
		return false
	}
	select {
	case s.sub.ch <- e:
		s.delivered.Add(1)
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}

// Close detaches the listener and drops every later event. Idempotent.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.sub != nil {
		s.sub.close()
		s.sub = nil
	}
}

// Stats returns the activity counters.
func (s *Stream) Stats() Stats {
	return Stats{
		Published: s.published.Load(),
		Delivered: s.delivered.Load(),
		Dropped:   s.dropped.Load(),
	}
}
