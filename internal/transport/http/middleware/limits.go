package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	resp "tiendaonline-web/internal/transport/http/response"
)

func tooMany(c *gin.Context, retry time.Duration) {
	if retry > 0 {
		c.Header("Retry-After", strconv.Itoa(int(retry.Round(time.Second)/time.Second)+1))
	}
	c.AbortWithStatusJSON(http.StatusTooManyRequests, resp.Error(http.StatusTooManyRequests, ""))
}

// RateLimit 全站令牌桶
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if !lim.Allow() {
			tooMany(c, 0)
			return
		}
		c.Next()
	}
}

type ipBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimitPerIP 按客户端 IP 的令牌桶（用在 /login 上）。闲置超过 idle 的桶会被回收。
func RateLimitPerIP(rps rate.Limit, burst int, idle time.Duration) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		buckets = make(map[string]*ipBucket)
		lastGC  = time.Now()
	)
	return func(c *gin.Context) {
		now := time.Now()
		ip := c.ClientIP()

		mu.Lock()
		if now.Sub(lastGC) > idle {
			for k, b := range buckets {
				if now.Sub(b.seen) > idle {
					delete(buckets, k)
				}
			}
			lastGC = now
		}
		b, ok := buckets[ip]
		if !ok {
			b = &ipBucket{lim: rate.NewLimiter(rps, burst)}
			buckets[ip] = b
		}
		b.seen = now
		r := b.lim.ReserveN(now, 1)
		mu.Unlock()

		if !r.OK() {
			tooMany(c, 0)
			return
		}
		if d := r.DelayFrom(now); d > 0 {
			r.CancelAt(now)
			tooMany(c, d)
			return
		}
		c.Next()
	}
}

// ConcurrencyLimit 同时处理的请求数上限；最多排队 maxWait，之后 503
func ConcurrencyLimit(max int64, maxWait time.Duration) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if !sem.TryAcquire(1) {
			ctx, cancel := context.WithTimeout(c.Request.Context(), maxWait)
			err := sem.Acquire(ctx, 1)
			cancel()
			if err != nil {
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, resp.Error(http.StatusServiceUnavailable, ""))
				return
			}
		}
		defer sem.Release(1)
		c.Next()
	}
}
