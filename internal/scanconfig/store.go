package scanconfig

import (
	"sync"
	"sync/atomic"
)

// Store owns the configuration of one bridge instance.
//
// Readers call Snapshot and get an immutable *Config. Writers go through
// Update, which applies a function to a private clone and publishes it only
// if the function succeeds, so a failed setter never leaves a partial write
// and a concurrent reader never observes a torn composite value.
type Store struct {
	mu  sync.Mutex // serializes writers
	cur atomic.Pointer[Config]
}

// NewStore creates a store seeded with a copy of initial, or Default() if nil.
func NewStore(initial *Config) *Store {
	if initial == nil {
		initial = Default()
	}
	s := &Store{}
	s.cur.Store(initial.Clone())
	return s
}

// Snapshot returns the current configuration. Callers must not modify it.
func (s *Store) Snapshot() *Config { return s.cur.Load() }

// Update runs fn on a clone of the current configuration and publishes the
// clone if fn returns nil.
func (s *Store) Update(fn func(*Config) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cur.Load().Clone()
	if err := fn(next); err != nil {
		return err
	}
	s.cur.Store(next)
	return nil
}

// Get reads one field from the current snapshot.
func Get[T any](s *Store, f Field[T]) T { return f.Get(s.Snapshot()) }

// Set validates and writes one field.
func Set[T any](s *Store, f Field[T], v T) error {
	return s.Update(func(c *Config) error { return f.Set(c, v) })
}
