package engine

import "sync"

// limiter caps concurrent decodes at a limit that may change between calls.
type limiter struct {
	mu       sync.Mutex
	cond     *sync.Cond
	inflight int
}

func newLimiter() *limiter {
	l := &limiter{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// acquire blocks until fewer than limit decodes are running.
func (l *limiter) acquire(limit int) (release func()) {
	limit = max(limit, 1)
	l.mu.Lock()
	for l.inflight >= limit {
		l.cond.Wait()
	}
	l.inflight++
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			l.inflight--
			l.mu.Unlock()
			l.cond.Broadcast()
		})
	}
}
