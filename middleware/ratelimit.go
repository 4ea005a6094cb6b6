package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"forkful/apperr"
	"forkful/response"
)

// Limiter is a fixed-window counter. Redis-backed when a client is supplied,
// in-memory per process otherwise.
type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	logger *logrus.Logger

	mu      sync.Mutex
	windows map[string]*memWindow
}

type memWindow struct {
	count int
	reset time.Time
}

func NewLimiter(rdb *redis.Client, limit int, window time.Duration, logger *logrus.Logger) *Limiter {
	return &Limiter{
		rdb:     rdb,
		limit:   limit,
		window:  window,
		logger:  logger,
		windows: make(map[string]*memWindow),
	}
}

func (l *Limiter) allow(ctx context.Context, key string) bool {
	if l.rdb != nil {
		return l.allowRedis(ctx, key)
	}
	return l.allowMemory(key)
}

func (l *Limiter) allowRedis(ctx context.Context, key string) bool {
	rkey := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(l.window.Seconds()))

	pipe := l.rdb.Pipeline()
	incr := pipe.Incr(ctx, rkey)
	pipe.Expire(ctx, rkey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		// Fail open: a broken limiter backend must not take the API down.
		l.logger.WithError(err).Warn("rate limiter redis error, allowing request")
		return true
	}
	return incr.Val() <= int64(l.limit)
}

func (l *Limiter) allowMemory(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.After(w.reset) {
		l.windows[key] = &memWindow{count: 1, reset: now.Add(l.window)}
		return true
	}
	w.count++
	return w.count <= l.limit
}

// RateLimit limits requests per client IP.
func RateLimit(l *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.Request.Context(), c.ClientIP()) {
			response.Fail(c, apperr.RateLimited("too many requests"))
			c.Abort()
			return
		}
		c.Next()
	}
}
