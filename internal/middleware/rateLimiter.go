package middleware

import (
	"sync"
	"time"

	"github.com/akolanti/intelliquery/internal/config"
	"golang.org/x/time/rate"
)

const (
	limiterSweepThreshold = 10000
	limiterIdleTTL        = 10 * time.Minute
)

var limiterInstance = NewIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type IPRateLimiter struct {
	ips       map[string]*ipLimiter
	mu        sync.Mutex
	rateLimit rate.Limit
	burstRate int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{ips: make(map[string]*ipLimiter), rateLimit: r, burstRate: b}
}

func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()
	now := time.Now()
	entry, exists := i.ips[ip]
	if !exists {
		if len(i.ips) >= limiterSweepThreshold {
			i.evictIdle(now)
		}
		entry = &ipLimiter{limiter: rate.NewLimiter(i.rateLimit, i.burstRate)}
		i.ips[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// evictIdle drops limiters not used within limiterIdleTTL. Caller holds mu.
func (i *IPRateLimiter) evictIdle(now time.Time) {
	for ip, entry := range i.ips {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(i.ips, ip)
		}
	}
}

func (i *IPRateLimiter) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}

//TODO: move the per-IP buckets to redis once more than one replica serves the API
