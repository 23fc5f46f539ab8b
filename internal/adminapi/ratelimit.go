package adminapi

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Admission control for the admin surface. All endpoints draw from one
// per-client budget, but not equally: a claims lookup is a cheap indexed
// read while the regression trigger runs the full scorer over a fixture,
// so it costs a large multiple of a lookup instead of getting a separate
// limiter.

const (
	CostLookup  = 1
	CostRegress = 20
)

const budgetIdleExpiry = 10 * time.Minute

type clientBudget struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter holds the per-client budgets, refilled continuously at a
// fixed rate up to a burst ceiling.
type RateLimiter struct {
	mu      sync.Mutex
	rate    float64 // tokens refilled per second
	burst   float64
	clients map[string]*clientBudget
}

// NewRateLimiter creates a limiter refilling `ratePerMin` cost units per
// minute per client, with a burst ceiling of `burst` units.
func NewRateLimiter(ratePerMin, burst int) *RateLimiter {
	rl := &RateLimiter{
		rate:    float64(ratePerMin) / 60.0,
		burst:   float64(burst),
		clients: make(map[string]*clientBudget),
	}
	go rl.sweep()
	return rl
}

// charge debits cost from the client's budget, reporting whether the
// request is admitted and, if not, how long until the budget covers it.
func (rl *RateLimiter) charge(client string, cost float64) (bool, time.Duration) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.clients[client]
	if !ok {
		b = &clientBudget{tokens: rl.burst, lastSeen: now}
		rl.clients[client] = b
	}
	b.tokens += now.Sub(b.lastSeen).Seconds() * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.lastSeen = now

	if b.tokens < cost {
		wait := time.Duration((cost - b.tokens) / rl.rate * float64(time.Second))
		return false, wait
	}
	b.tokens -= cost
	return true, 0
}

// Charge returns a middleware debiting cost units per request, keyed by
// client IP.
func (rl *RateLimiter) Charge(cost float64) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := rl.charge(c.ClientIP(), cost)
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":      "Rate limit exceeded",
				"retryAfter": wait.Seconds(),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// sweep drops budgets idle past expiry so one-off clients don't accumulate.
func (rl *RateLimiter) sweep() {
	for range time.Tick(budgetIdleExpiry) {
		cutoff := time.Now().Add(-budgetIdleExpiry)
		rl.mu.Lock()
		for client, b := range rl.clients {
			if b.lastSeen.Before(cutoff) {
				delete(rl.clients, client)
			}
		}
		rl.mu.Unlock()
	}
}
