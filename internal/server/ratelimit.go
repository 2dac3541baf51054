package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/gammazero/deque"
)

// RateLimiter enforces per-client sliding windows and daily quotas.
type RateLimiter struct {
	mu sync.Mutex

	requestsPerMinute int
	requestsPerHour   int

	maxRequestsPerDay int
	maxDataPerDay     int64 // in bytes

	clients map[string]*clientUsage
	now     func() time.Time
}

// clientUsage keeps one timestamp per request in the last hour.
type clientUsage struct {
	hour deque.Deque[time.Time]

	requestsToday int
	dataToday     int64
	dayStart      time.Time
}

// Usage is a point-in-time copy of one client's counters.
type Usage struct {
	RequestsLastMinute int
	RequestsLastHour   int
	RequestsToday      int
	DataToday          int64
	LastRequest        time.Time
}

// NewRateLimiter creates a new rate limiter. A zero limit disables that check.
func NewRateLimiter(requestsPerMinute, requestsPerHour, maxRequestsPerDay int, maxDataPerDay int64) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		requestsPerHour:   requestsPerHour,
		maxRequestsPerDay: maxRequestsPerDay,
		maxDataPerDay:     maxDataPerDay,
		clients:           make(map[string]*clientUsage),
		now:               time.Now,
	}
}

// CheckRateLimit records a request of dataSize bytes from clientID, or
// returns a *RateLimitError or *QuotaExceededError without recording it.
func (rl *RateLimiter) CheckRateLimit(clientID string, dataSize int64) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	usage := rl.client(clientID, now)
	usage.expire(now)

	if err := rl.checkWindows(usage, now); err != nil {
		return err
	}
	if err := rl.checkDailyQuotas(usage, dataSize, now); err != nil {
		return err
	}

	usage.hour.PushBack(now)
	usage.requestsToday++
	usage.dataToday += dataSize
	return nil
}

func (rl *RateLimiter) client(clientID string, now time.Time) *clientUsage {
	usage, ok := rl.clients[clientID]
	if !ok {
		usage = &clientUsage{dayStart: startOfDay(now)}
		rl.clients[clientID] = usage
	}
	return usage
}

// expire drops timestamps older than an hour and rolls the daily counters.
func (u *clientUsage) expire(now time.Time) {
	for u.hour.Len() > 0 && now.Sub(u.hour.Front()) >= time.Hour {
		u.hour.PopFront()
	}
	if day := startOfDay(now); day.After(u.dayStart) {
		u.requestsToday = 0
		u.dataToday = 0
		u.dayStart = day
	}
}

// inLastMinute returns the count of requests newer than a minute and the
// oldest of them.
func (u *clientUsage) inLastMinute(now time.Time) (int, time.Time) {
	n := u.hour.Len()
	i := n
	for i > 0 && now.Sub(u.hour.At(i-1)) < time.Minute {
		i--
	}
	if i == n {
		return 0, time.Time{}
	}
	return n - i, u.hour.At(i)
}

func (rl *RateLimiter) checkWindows(usage *clientUsage, now time.Time) error {
	if rl.requestsPerMinute > 0 {
		count, oldest := usage.inLastMinute(now)
		if count >= rl.requestsPerMinute {
			return &RateLimitError{
				Type:       "minute",
				Limit:      rl.requestsPerMinute,
				RetryAfter: time.Minute - now.Sub(oldest),
			}
		}
	}

	if rl.requestsPerHour > 0 && usage.hour.Len() >= rl.requestsPerHour {
		return &RateLimitError{
			Type:       "hour",
			Limit:      rl.requestsPerHour,
			RetryAfter: time.Hour - now.Sub(usage.hour.Front()),
		}
	}

	return nil
}

func (rl *RateLimiter) checkDailyQuotas(usage *clientUsage, dataSize int64, now time.Time) error {
	resets := startOfDay(now).AddDate(0, 0, 1)

	if rl.maxRequestsPerDay > 0 && usage.requestsToday >= rl.maxRequestsPerDay {
		return &QuotaExceededError{
			Type:   "requests",
			Limit:  int64(rl.maxRequestsPerDay),
			Used:   int64(usage.requestsToday),
			Resets: resets,
		}
	}

	if rl.maxDataPerDay > 0 && usage.dataToday+dataSize > rl.maxDataPerDay {
		return &QuotaExceededError{
			Type:   "data",
			Limit:  rl.maxDataPerDay,
			Used:   usage.dataToday,
			Resets: resets,
		}
	}

	return nil
}

// GetUsage returns the current counters for clientID.
func (rl *RateLimiter) GetUsage(clientID string) Usage {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	usage, ok := rl.clients[clientID]
	if !ok {
		return Usage{}
	}
	now := rl.now()
	usage.expire(now)
	minute, _ := usage.inLastMinute(now)
	u := Usage{
		RequestsLastMinute: minute,
		RequestsLastHour:   usage.hour.Len(),
		RequestsToday:      usage.requestsToday,
		DataToday:          usage.dataToday,
	}
	if usage.hour.Len() > 0 {
		u.LastRequest = usage.hour.Back()
	}
	return u
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RateLimitError represents a rate limit violation.
type RateLimitError struct {
	Type       string        // "minute" or "hour"
	Limit      int           // the limit that was exceeded
	RetryAfter time.Duration // how long to wait before retrying
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s (limit: %d, retry after: %v)", e.Type, e.Limit, e.RetryAfter)
}

// QuotaExceededError represents a quota violation.
type QuotaExceededError struct {
	Type   string    // "requests" or "data"
	Limit  int64     // the limit that was exceeded
	Used   int64     // current usage
	Resets time.Time // when the quota resets
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded for %s (used: %d, limit: %d, resets: %s)",
		e.Type, e.Used, e.Limit, e.Resets.Format(time.RFC3339))
}
