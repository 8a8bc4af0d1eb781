package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/davicafu/makethechange/pkg/utils"
)

const (
	maxRateLimitClients = 1000
	rateLimitClientTTL  = 5 * time.Minute
)

// RateLimiter limita peticiones por cliente. Los limitadores viven en una
// LRU con expiración para que los clientes inactivos no se acumulen.
type RateLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

// NewRateLimiter permite requestsPerMin por cliente con ráfagas de un décimo.
func NewRateLimiter(requestsPerMin int) *RateLimiter {
	return &RateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](maxRateLimitClients, nil, rateLimitClientTTL),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    max(requestsPerMin/10, 1),
	}
}

func (rl *RateLimiter) Allow(key string) error {
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}

	if !limiter.Allow() {
		return fmt.Errorf("rate limit exceeded for %s", key)
	}
	return nil
}

// Middleware corta con 429 a los clientes (por IP) que superan el límite.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := rl.Allow(c.ClientIP()); err != nil {
			utils.SendTooManyRequests(c, err.Error())
			return
		}
		c.Next()
	}
}
