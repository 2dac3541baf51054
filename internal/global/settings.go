// Package global holds engine settings that apply to every bridge in the
// process: decoder thread count, multicode caching and log output.
package global

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

const (
	// MaxThreads is the largest accepted decoder threads limit.
	MaxThreads = 16

	DefaultThreadsLimit    = 2
	DefaultCachingDuration = time.Second

	// MaxCachingMs is the longest caching duration, in milliseconds, that
	// fits a time.Duration.
	MaxCachingMs = math.MaxInt64 / int64(time.Millisecond)
)

var (
	ErrNotInitialized = errors.New("global settings not initialized")
	ErrInvalidThreads = errors.New("threads limit out of range")
	ErrInvalidCaching = errors.New("caching duration must not be negative")
	ErrCachingTooLong = errors.New("caching duration too long")
)

// Values is a point-in-time copy of the process-wide settings.
type Values struct {
	ThreadsLimit             int
	MulticodeCachingEnabled  bool
	MulticodeCachingDuration time.Duration
	LogsEnabled              bool
}

// Settings is the process-wide settings holder. A process creates one with
// Init and releases it with Teardown; bridges receive it explicitly.
type Settings struct {
	mu     sync.RWMutex
	v      Values
	closed bool
}

// Init creates the settings holder, validating the initial values.
func Init(v Values) (*Settings, error) {
	if v.ThreadsLimit == 0 {
		v.ThreadsLimit = DefaultThreadsLimit
	}
	if err := checkThreads(v.ThreadsLimit); err != nil {
		return nil, err
	}
	if v.MulticodeCachingDuration < 0 {
		return nil, ErrInvalidCaching
	}
	return &Settings{v: v}, nil
}

// Defaults returns the values used when no configuration is given.
func Defaults() Values {
	return Values{
		ThreadsLimit:             DefaultThreadsLimit,
		MulticodeCachingDuration: DefaultCachingDuration,
	}
}

// Teardown marks the holder as released. Later writes fail with
// ErrNotInitialized; reads keep returning the last values.
func (s *Settings) Teardown() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Load returns a copy of the current values.
func (s *Settings) Load() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v
}

func checkThreads(n int) error {
	if n < 1 || n > MaxThreads {
		return fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidThreads, n, MaxThreads)
	}
	return nil
}

func (s *Settings) update(fn func(*Values) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrNotInitialized
	}
	next := s.v
	if err := fn(&next); err != nil {
		return err
	}
	s.v = next
	return nil
}

// SetThreadsLimit sets the decoder thread count.
func (s *Settings) SetThreadsLimit(n int) error {
	return s.update(func(v *Values) error {
		if err := checkThreads(n); err != nil {
			return err
		}
		v.ThreadsLimit = n
		return nil
	})
}

// SetMulticodeCachingEnabled toggles cross-frame duplicate suppression.
func (s *Settings) SetMulticodeCachingEnabled(enabled bool) error {
	return s.update(func(v *Values) error {
		v.MulticodeCachingEnabled = enabled
		return nil
	})
}

// SetMulticodeCachingDuration sets how long a cached code suppresses repeats.
func (s *Settings) SetMulticodeCachingDuration(d time.Duration) error {
	return s.update(func(v *Values) error {
		if d < 0 {
			return ErrInvalidCaching
		}
		v.MulticodeCachingDuration = d
		return nil
	})
}

// CachingDurationFromMs converts a caching duration given in milliseconds,
// rejecting values a time.Duration cannot hold.
func CachingDurationFromMs(ms int64) (time.Duration, error) {
	switch {
	case ms < 0:
		return 0, ErrInvalidCaching
	case ms > MaxCachingMs:
		return 0, fmt.Errorf("%w: %d ms exceeds %d ms", ErrCachingTooLong, ms, MaxCachingMs)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// SetLogsEnabled toggles bridge debug logging.
func (s *Settings) SetLogsEnabled(enabled bool) error {
	return s.update(func(v *Values) error {
		v.LogsEnabled = enabled
		return nil
	})
}
