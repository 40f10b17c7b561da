package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter hands out one token bucket per client IP.
type rateLimiter struct {
	rps     rate.Limit
	burst   int
	ttl     time.Duration
	clients map[string]*client
	mu      sync.Mutex
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	return &rateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		ttl:     3 * time.Minute,
		clients: make(map[string]*client),
	}
}

func (rl *rateLimiter) allow(ip string, at time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = at
	return c.limiter.AllowN(at, 1)
}

// evict drops clients not seen since ttl before at.
func (rl *rateLimiter) evict(at time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, c := range rl.clients {
		if at.Sub(c.lastSeen) > rl.ttl {
			delete(rl.clients, ip)
		}
	}
}

// run evicts stale clients every minute until stop is closed.
func (rl *rateLimiter) run(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case t := <-ticker.C:
			rl.evict(t)
		}
	}
}

func (rl *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP(), time.Now()) {
			c.Abort()
			respond(c, http.StatusTooManyRequests, statusFail, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}
