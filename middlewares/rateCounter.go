package middlewares

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"civicsync-dashboard/clock"
)

// Counter counts hits per key within a fixed window that starts at the
// first hit.
type Counter interface {
	// Hit records one hit and returns the count so far in the current
	// window and the time left in it.
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// Hit increments and reads the TTL in one MULTI. A key left without an
// expiry gets one here, so a failed EXPIRE heals on the next hit.
func (r *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	remaining, needsExpiry := windowRemaining(ttl.Val(), window)
	if needsExpiry {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
	}
	return incr.Val(), remaining, nil
}

// windowRemaining interprets a TTL read right after INCR. Redis reports
// -1 for a key with no expiry, which here means the window has not been
// started yet.
func windowRemaining(ttl, window time.Duration) (time.Duration, bool) {
	if ttl < 0 {
		return window, true
	}
	return ttl, false
}

type memoryWindow struct {
	count int64
	reset time.Time
}

// MemoryCounter is the single-process Counter used without Redis.
type MemoryCounter struct {
	mu      sync.Mutex
	clock   clock.Clock
	windows map[string]*memoryWindow
}

func NewMemoryCounter(clk clock.Clock) *MemoryCounter {
	return &MemoryCounter{clock: clk, windows: make(map[string]*memoryWindow)}
}

func (m *MemoryCounter) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	w, ok := m.windows[key]
	if !ok || !now.Before(w.reset) {
		w = &memoryWindow{reset: now.Add(window)}
		m.windows[key] = w
	}
	w.count++
	return w.count, w.reset.Sub(now), nil
}
