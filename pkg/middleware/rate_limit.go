package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/insurehub/insurehub/backend/go-services/pkg/metrics"
)

// memoryLimiter holds one token bucket per key. Keys are never evicted; the
// key space is bounded by authenticated subjects plus client IPs.
type memoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

func (m *memoryLimiter) get(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lim, ok := m.limiters[key]; ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Limit(m.rps), m.burst)
	m.limiters[key] = lim
	return lim
}

// RateLimitMiddleware enforces a per-key token-bucket limit in process
// memory. The key is the authenticated subject when claims are present,
// otherwise the client IP.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	store := &memoryLimiter{limiters: make(map[string]*rate.Limiter), rps: rps, burst: burst}
	return func(c *gin.Context) {
		if !store.get(subjectKey(c)).Allow() {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
