package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"
	"job-board-backend/pkg/logger"
	"job-board-backend/pkg/redis"
	"job-board-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis (default: "rl:ip:")
	KeyPrefix string
	// Reject requests when Redis errors instead of falling back to memory
	FailClosed bool
}

// Counter counts hits per key inside a fixed window.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}

// RedisCounter shares counts across instances.
type RedisCounter struct {
	client goredis.Scripter
}

func NewRedisCounter(client goredis.Scripter) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	return redis.IncrWithTTL(ctx, r.client, key, window)
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	mu      sync.Mutex
	count   int64
	resetAt time.Time
	// retired is set by Sweep once the entry has left the map.
	retired bool
}

// MemoryCounter is the single-instance fallback.
type MemoryCounter struct {
	entries sync.Map
	now     func() time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{now: time.Now}
}

func (m *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	now := m.now()
	for {
		v, _ := m.entries.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(window)})
		if count, resetIn, ok := v.(*rateLimitEntry).incr(now, window); ok {
			return count, resetIn, nil
		}
	}
}

// incr counts a hit unless the entry was retired after it was loaded, in
// which case the caller must load the key again.
func (e *rateLimitEntry) incr(now time.Time, window time.Duration) (int64, time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.retired {
		return 0, 0, false
	}
	if !now.Before(e.resetAt) {
		e.count = 0
		e.resetAt = now.Add(window)
	}
	e.count++
	return e.count, e.resetAt.Sub(now), true
}

// Sweep drops expired windows.
func (m *MemoryCounter) Sweep() {
	now := m.now()
	m.entries.Range(func(key, value interface{}) bool {
		entry := value.(*rateLimitEntry)
		entry.mu.Lock()
		if !now.Before(entry.resetAt) && m.entries.CompareAndDelete(key, entry) {
			entry.retired = true
		}
		entry.mu.Unlock()
		return true
	})
}

// StartSweeper runs Sweep every interval until ctx is done.
func (m *MemoryCounter) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}

// RateLimiter pairs the shared Redis counter with the in-memory fallback. A nil
// primary counts in memory only.
type RateLimiter struct {
	primary  Counter
	fallback Counter
}

func NewRateLimiter(primary, fallback Counter) *RateLimiter {
	return &RateLimiter{primary: primary, fallback: fallback}
}

func clientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// GlobalConfig applies to every route.
func GlobalConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:ip:", KeyFunc: clientIPKey}
}

// LoginConfig is the strict limit for login and registration.
func LoginConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:login:", KeyFunc: clientIPKey, FailClosed: true}
}

// UploadConfig limits application submissions, keyed by user when signed in.
func UploadConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:upload:",
		KeyFunc: func(c *gin.Context) string {
			if actor := ActorFrom(c); !actor.IsAnonymous() {
				return "user:" + strconv.FormatInt(actor.UserID, 10)
			}
			return c.ClientIP()
		},
	}
}

// Middleware enforces config. Redis errors fall back to memory unless FailClosed is set.
func (rl *RateLimiter) Middleware(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = clientIPKey
	}

	return func(c *gin.Context) {
		if config.Limit <= 0 {
			c.Next()
			return
		}

		key := config.KeyPrefix + config.KeyFunc(c)
		ctx := c.Request.Context()

		var (
			count   int64
			resetIn time.Duration
			err     error
		)
		if rl.primary != nil {
			count, resetIn, err = rl.primary.Incr(ctx, key, config.Window)
			if err != nil {
				if config.FailClosed {
					logRateLimitError(c, err)
					response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
					c.Abort()
					return
				}
				logger.Log.Warn("Rate limit falling back to memory", "error", err)
			}
		}
		if rl.primary == nil || err != nil {
			count, resetIn, _ = rl.fallback.Incr(ctx, key, config.Window)
		}

		resetAt := time.Now().Add(resetIn)
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))

		if count > int64(config.Limit) {
			retryAfter := int(resetIn.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			security.DefaultLogger().LogRateLimitTriggered(ctx, c.ClientIP(), c.GetHeader("User-Agent"),
				c.GetString(string(domain.KeyRequestID)), c.FullPath())

			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.FormatInt(int64(config.Limit)-count, 10))
		c.Next()
	}
}

func logRateLimitError(c *gin.Context, err error) {
	security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
		Event:       security.EventRateLimitTriggered,
		SubjectType: "system",
		IP:          c.ClientIP(),
		RequestID:   c.GetString(string(domain.KeyRequestID)),
		Details: map[string]interface{}{
			"error_type": "redis_error",
			"error":      err.Error(),
		},
	})
}
