package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"sals-backend/internal/logging"
)

type limit struct {
	rate  rate.Limit
	burst int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP and route. Routes that
// call paid collaborators get tighter limits than the rest of the API.
type RateLimiter struct {
	mu             sync.Mutex
	visitors       map[string]*visitor
	defaultLimit   limit
	endpointLimits map[string]limit
	idleTTL        time.Duration
	lastSweep      time.Time
	now            func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		visitors:     make(map[string]*visitor),
		defaultLimit: limit{rate: rate.Every(100 * time.Millisecond), burst: 20},
		endpointLimits: map[string]limit{
			"/api/analyze-cv":            {rate: rate.Every(10 * time.Second), burst: 3},
			"/api/create-stcpay-payment": {rate: rate.Every(5 * time.Second), burst: 3},
			"/api/verify-stcpay-otp":     {rate: rate.Every(2 * time.Second), burst: 5},
		},
		idleTTL: 10 * time.Minute,
		now:     time.Now,
	}
}

// SetEndpointLimit overrides the limit for one route path.
func (r *RateLimiter) SetEndpointLimit(path string, every time.Duration, burst int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpointLimits[path] = limit{rate: rate.Every(every), burst: burst}
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		if !r.allow(c.ClientIP(), path) {
			logging.WithRequest(c).Warn("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "too many requests",
			})
			return
		}
		c.Next()
	}
}

func (r *RateLimiter) allow(ip, path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evictIdle(now)

	l, ok := r.endpointLimits[path]
	key := ip + "|" + path
	if !ok {
		l = r.defaultLimit
		key = ip
	}

	v, ok := r.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rate, l.burst)}
		r.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// evictIdle drops buckets not used for idleTTL. The map is swept at most once
// per idleTTL. Caller holds mu.
func (r *RateLimiter) evictIdle(now time.Time) {
	if now.Sub(r.lastSweep) < r.idleTTL {
		return
	}
	r.lastSweep = now

	for key, v := range r.visitors {
		if now.Sub(v.lastSeen) > r.idleTTL {
			delete(r.visitors, key)
		}
	}
}
