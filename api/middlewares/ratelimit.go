package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inference-gateway/calendar-assistant/logger"
	"golang.org/x/time/rate"
)

type RateLimiter interface {
	Middleware() gin.HandlerFunc
	Allow(key string) bool
}

// idleClientTTL is how long a client's bucket survives without requests
const idleClientTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterImpl keeps one token bucket per client. Buckets idle for longer
// than idleTTL are swept on access.
type RateLimiterImpl struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	rps       rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
	logger    logger.Logger
}

// NewRateLimiterMiddleware allows rps requests per second per client with the
// given burst. A non-positive rps disables limiting.
func NewRateLimiterMiddleware(rps float64, burst int, logger logger.Logger) RateLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiterImpl{
		clients:   make(map[string]*clientLimiter),
		rps:       limit,
		burst:     burst,
		idleTTL:   idleClientTTL,
		lastSweep: time.Now(),
		now:       time.Now,
		logger:    logger,
	}
}

func (rl *RateLimiterImpl) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		rl.sweep(now)
	}

	client, ok := rl.clients[key]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[key] = client
	}
	client.lastSeen = now
	return client.limiter
}

// sweep drops idle clients, mu must be held
func (rl *RateLimiterImpl) sweep(now time.Time) {
	for key, client := range rl.clients {
		if now.Sub(client.lastSeen) >= rl.idleTTL {
			delete(rl.clients, key)
		}
	}
	rl.lastSweep = now
}

func (rl *RateLimiterImpl) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

func (rl *RateLimiterImpl) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !rl.Allow(key) {
			rl.logger.Warn("rate limit exceeded", "client_ip", key, "path", c.Request.URL.Path)
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
