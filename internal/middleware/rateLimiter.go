package middleware

import (
	"strconv"
	"sync"

	"golang.org/x/time/rate"

	"github.com/chatlet/chatlet/internal/config"
)

// 100 requests per 15 minutes per IP, expressed as a steady refill with the
// full window available as burst.
var limiterInstance = NewIPRateLimiter(
	rate.Limit(float64(config.WidgetRateLimitRequests)/config.WidgetRateLimitWindow.Seconds()),
	config.WidgetRateLimitRequests,
)

var retryAfterSeconds = strconv.Itoa(int(config.WidgetRateLimitWindow.Seconds()))

type IPRateLimiter struct {
	ips       map[string]*rate.Limiter
	mu        sync.RWMutex
	rateLimit rate.Limit
	burstRate int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{ips: make(map[string]*rate.Limiter), rateLimit: r, burstRate: b}
}

func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()
	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.rateLimit, i.burstRate)
		i.ips[ip] = limiter
	}
	return limiter
}

//TODO: when the users grow
// I must offload this key-value to redis
