package server

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move the limiter through its windows.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClockedLimiter(perMin, perHour, perDay int, data int64) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(perMin, perHour, perDay, data)
	rl.now = clock.Now
	return rl, clock
}

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(10, 100, 1000, 1024*1024)

	assert.NotNil(t, rl)
	assert.Equal(t, 10, rl.requestsPerMinute)
	assert.Equal(t, 100, rl.requestsPerHour)
	assert.Equal(t, 1000, rl.maxRequestsPerDay)
	assert.Equal(t, int64(1024*1024), rl.maxDataPerDay)
	assert.NotNil(t, rl.clients)
}

func TestRateLimiter_CheckRateLimit_NoLimits(t *testing.T) {
	rl := NewRateLimiter(0, 0, 0, 0) // No limits

	err := rl.CheckRateLimit("client1", 100)
	assert.NoError(t, err)

	usage := rl.GetUsage("client1")
	assert.Equal(t, 1, usage.RequestsToday)
	assert.Equal(t, int64(100), usage.DataToday)
	assert.Equal(t, 1, usage.RequestsLastMinute)
	assert.False(t, usage.LastRequest.IsZero())
}

func TestRateLimiter_CheckRateLimit_RequestsPerMinute(t *testing.T) {
	rl, clock := newClockedLimiter(2, 0, 0, 0)

	require.NoError(t, rl.CheckRateLimit("client1", 0))
	clock.Advance(10 * time.Second)
	require.NoError(t, rl.CheckRateLimit("client1", 0))

	err := rl.CheckRateLimit("client1", 0)
	rateLimitErr := &RateLimitError{}
	require.True(t, errors.As(err, &rateLimitErr))
	assert.Equal(t, "minute", rateLimitErr.Type)
	assert.Equal(t, 2, rateLimitErr.Limit)
	assert.Equal(t, 50*time.Second, rateLimitErr.RetryAfter, "retry once the oldest request leaves the window")
}

func TestRateLimiter_MinuteWindowSlides(t *testing.T) {
	rl, clock := newClockedLimiter(2, 0, 0, 0)

	require.NoError(t, rl.CheckRateLimit("client1", 0))
	clock.Advance(30 * time.Second)
	require.NoError(t, rl.CheckRateLimit("client1", 0))
	require.Error(t, rl.CheckRateLimit("client1", 0))

	// The first request ages out; the second is still inside the window.
	clock.Advance(31 * time.Second)
	require.NoError(t, rl.CheckRateLimit("client1", 0))
	assert.Error(t, rl.CheckRateLimit("client1", 0))

	assert.Equal(t, 2, rl.GetUsage("client1").RequestsLastMinute)
}

func TestRateLimiter_CheckRateLimit_RequestsPerHour(t *testing.T) {
	rl, clock := newClockedLimiter(0, 3, 0, 0)

	for range 3 {
		require.NoError(t, rl.CheckRateLimit("client1", 0))
		clock.Advance(5 * time.Minute)
	}

	err := rl.CheckRateLimit("client1", 0)
	rateLimitErr := &RateLimitError{}
	require.True(t, errors.As(err, &rateLimitErr))
	assert.Equal(t, "hour", rateLimitErr.Type)
	assert.Equal(t, 3, rateLimitErr.Limit)
	assert.Equal(t, 45*time.Minute, rateLimitErr.RetryAfter)

	clock.Advance(45 * time.Minute)
	assert.NoError(t, rl.CheckRateLimit("client1", 0))
	assert.Equal(t, 3, rl.GetUsage("client1").RequestsLastHour)
}

func TestRateLimiter_RejectedRequestsAreNotCounted(t *testing.T) {
	rl, _ := newClockedLimiter(1, 0, 0, 0)

	require.NoError(t, rl.CheckRateLimit("client1", 10))
	for range 3 {
		require.Error(t, rl.CheckRateLimit("client1", 10))
	}

	usage := rl.GetUsage("client1")
	assert.Equal(t, 1, usage.RequestsToday)
	assert.Equal(t, int64(10), usage.DataToday)
}

func TestRateLimiter_CheckRateLimit_DailyRequestQuota(t *testing.T) {
	rl, clock := newClockedLimiter(0, 0, 2, 0)

	require.NoError(t, rl.CheckRateLimit("client1", 0))
	require.NoError(t, rl.CheckRateLimit("client1", 0))

	err := rl.CheckRateLimit("client1", 0)
	quotaErr := &QuotaExceededError{}
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, "requests", quotaErr.Type)
	assert.Equal(t, int64(2), quotaErr.Limit)
	assert.Equal(t, int64(2), quotaErr.Used)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), quotaErr.Resets)

	// Next day the quota resets.
	clock.Advance(14 * time.Hour)
	require.NoError(t, rl.CheckRateLimit("client1", 0))
	assert.Equal(t, 1, rl.GetUsage("client1").RequestsToday)
}

func TestRateLimiter_CheckRateLimit_DataQuota(t *testing.T) {
	rl, _ := newClockedLimiter(0, 0, 0, 1000)

	require.NoError(t, rl.CheckRateLimit("client1", 600))

	err := rl.CheckRateLimit("client1", 500)
	quotaErr := &QuotaExceededError{}
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, "data", quotaErr.Type)
	assert.Equal(t, int64(1000), quotaErr.Limit)
	assert.Equal(t, int64(600), quotaErr.Used)

	assert.NoError(t, rl.CheckRateLimit("client1", 400), "exactly reaching the quota is allowed")
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	rl, _ := newClockedLimiter(1, 0, 0, 0)

	require.NoError(t, rl.CheckRateLimit("client1", 0))
	require.Error(t, rl.CheckRateLimit("client1", 0))
	assert.NoError(t, rl.CheckRateLimit("client2", 0))
}

func TestRateLimiter_GetUsage_UnknownClient(t *testing.T) {
	rl := NewRateLimiter(1, 1, 1, 1)
	assert.Equal(t, Usage{}, rl.GetUsage("nobody"))
}

func TestRateLimiter_Concurrent(t *testing.T) {
	rl := NewRateLimiter(0, 0, 100, 0)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.CheckRateLimit("client1", 1) == nil {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowed)
	assert.Equal(t, 100, rl.GetUsage("client1").RequestsToday)
}

func TestRateLimitErrors_Messages(t *testing.T) {
	rle := &RateLimitError{Type: "minute", Limit: 5, RetryAfter: 30 * time.Second}
	assert.Contains(t, rle.Error(), "minute")
	assert.Contains(t, rle.Error(), "limit: 5")

	qe := &QuotaExceededError{Type: "data", Limit: 10, Used: 9, Resets: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	assert.Contains(t, qe.Error(), "used: 9")
	assert.Contains(t, qe.Error(), "2026-01-01T00:00:00Z")
}
