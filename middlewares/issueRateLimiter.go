package middlewares

import (
	"context"
	"net/http"
	"sync"
	"time"

	"setshaba-be/apperror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LimitWindow is how long a reporter's count lives after their first report.
const LimitWindow = 24 * time.Hour

// Counter is a windowed per-key counter.
type Counter interface {
	// Incr bumps key and returns the new count, starting the window on the first hit.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	// TTL returns how long until key resets.
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// RedisCounter implements Counter with INCR and EXPIRE.
type RedisCounter struct {
	Client *redis.Client
}

func (r RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := r.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// set TTL only for the first increment
	if count == 1 {
		if err := r.Client.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return count, nil
}

func (r RedisCounter) TTL(ctx context.Context, key string) (time.Duration, error) {
	return r.Client.TTL(ctx, key).Result()
}

// MemoryCounter is a Counter kept in process memory, used when Redis is not
// configured. Counts are per instance and reset on restart.
type MemoryCounter struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	count   int64
	expires time.Time
}

// NewMemoryCounter returns an empty counter. now may be nil to use time.Now.
func NewMemoryCounter(now func() time.Time) *MemoryCounter {
	if now == nil {
		now = time.Now
	}
	return &MemoryCounter{now: now, entries: make(map[string]memoryEntry)}
}

func (m *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.entries[key]
	if !ok || !now.Before(e.expires) {
		e = memoryEntry{expires: now.Add(window)}
	}
	e.count++
	m.entries[key] = e

	// expired keys are dropped on every write
	for k, other := range m.entries {
		if !now.Before(other.expires) {
			delete(m.entries, k)
		}
	}
	return e.count, nil
}

func (m *MemoryCounter) TTL(_ context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return 0, nil
	}
	if ttl := e.expires.Sub(m.now()); ttl > 0 {
		return ttl, nil
	}
	return 0, nil
}

// IssueRateLimiter caps how many issues one user may report per window.
// It must run after AuthMiddleware.
func IssueRateLimiter(counter Counter, prefix string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(UserIDKey)
		if userID == "" {
			abort(c, apperror.ErrUnauthorized)
			return
		}

		ctx := c.Request.Context()
		userKey := prefix + ":" + userID

		count, err := counter.Incr(ctx, userKey, LimitWindow)
		if err != nil {
			RequestLogger(c).Error("rate limiter increment failed", zap.Error(err))
			abort(c, apperror.Wrap(apperror.CodeInternal, "Something went wrong", err))
			return
		}

		if count > int64(limit) {
			retryAfter, _ := counter.TTL(ctx, userKey)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"code":        apperror.CodeRateLimit,
				"retry_after": retryAfter.Seconds(),
			})
			return
		}

		c.Next()
	}
}
