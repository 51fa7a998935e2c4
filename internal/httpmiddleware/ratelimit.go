package httpmiddleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Limiter enforces in-memory per-IP token buckets. Two independent budgets
// exist: a general one covering the whole API, and a much tighter one for
// the credential endpoints, where rejected attempts are usually password
// guessing or account enumeration.
type Limiter struct {
	general *buckets
	authn   *buckets
}

// NewLimiter creates a limiter refilling perMinute tokens for ordinary
// requests and authnPerMinute for signin/signup.
func NewLimiter(perMinute, authnPerMinute int) *Limiter {
	return &Limiter{
		general: newBuckets(perMinute),
		authn:   newBuckets(authnPerMinute),
	}
}

// General returns the handler applied to every route.
func (l *Limiter) General() gin.HandlerFunc {
	return enforce(l.general)
}

// Authn returns the stricter handler for the credential endpoints. It stacks
// on top of General, so an authn request spends from both budgets.
func (l *Limiter) Authn() gin.HandlerFunc {
	return enforce(l.authn)
}

func enforce(b *buckets) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !b.allow(ip) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit"})
			return
		}
		c.Next()
	}
}

type buckets struct {
	capacity int
	rate     int
	mu       sync.Mutex
	state    map[string]*bucket
}

type bucket struct {
	tokens int
	last   time.Time
}

func newBuckets(perMinute int) *buckets {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &buckets{
		capacity: perMinute,
		rate:     perMinute,
		state:    make(map[string]*bucket),
	}
}

func (b *buckets) allow(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.state[key]
	now := time.Now()
	if !ok {
		b.state[key] = &bucket{tokens: b.capacity - 1, last: now}
		return true
	}
	refill := int(now.Sub(st.last).Minutes() * float64(b.rate))
	if refill > 0 {
		st.tokens += refill
		if st.tokens > b.capacity {
			st.tokens = b.capacity
		}
		st.last = now
	}
	if st.tokens <= 0 {
		return false
	}
	st.tokens--
	return true
}
