package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/iamavinashmourya/FarmCare/internal/metrics"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

// idle buckets older than this are dropped on the next allow call
const limiterTTL = 10 * time.Minute

type ipLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	entries map[string]*limBucket
}

type limBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(limit rate.Limit, burst int, ttl time.Duration) *ipLimiter {
	return &ipLimiter{
		limit:   limit,
		burst:   burst,
		ttl:     ttl,
		entries: make(map[string]*limBucket),
	}
}

func (m *ipLimiter) allow(key string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.entries[key]
	if b == nil {
		b = &limBucket{lim: rate.NewLimiter(m.limit, m.burst)}
		m.entries[key] = b
	}
	b.lastSeen = now

	for k, v := range m.entries {
		if now.Sub(v.lastSeen) > m.ttl {
			delete(m.entries, k)
		}
	}
	return b.lim.AllowN(now, 1)
}

// LoginRateLimit throttles credential endpoints per client IP with a token
// bucket refilled at perMinute tokens a minute and the same burst.
// A non-positive perMinute disables throttling.
func LoginRateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	lim := newIPLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute, limiterTTL)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r)
			if !lim.allow(ip, time.Now()) {
				metrics.LoginThrottledTotal.Inc()
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(time.Minute.Seconds())/perMinute+1))
				utils.RespondErrorWithCode(
					w, http.StatusTooManyRequests, utils.ErrCodeRateLimitExceeded,
					"Too many login attempts, please try again later", nil,
				)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
