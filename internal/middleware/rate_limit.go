package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	Enabled           bool
}

// RateLimiter throttles outbound requests per target host. Requests wait for
// a token instead of being dropped; a cancelled context aborts the wait.
type RateLimiter struct {
	config  RateLimitConfig
	clients map[string]*rate.Limiter
	mu      sync.RWMutex
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		config:  config,
		clients: make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) getLimiter(host string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.clients[host]
	rl.mu.RUnlock()

	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists = rl.clients[host]; !exists {
		limiter = rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize)
		rl.clients[host] = limiter
	}

	return limiter
}

func (rl *RateLimiter) Middleware(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if !rl.config.Enabled {
			return next.RoundTrip(r)
		}

		limiter := rl.getLimiter(r.URL.Host)

		if !limiter.Allow() {
			logger := slog.With(
				"middleware", "rate_limit",
				"host", r.URL.Host,
				"method", r.Method,
				"path", r.URL.Path,
			)
			logger.Debug("Outbound rate limit reached, waiting",
				"requests_per_second", rl.config.RequestsPerSecond,
				"burst_size", rl.config.BurstSize,
			)

			if err := limiter.Wait(r.Context()); err != nil {
				logger.Warn("Gave up waiting for rate limiter", "error", err)
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
		}

		return next.RoundTrip(r)
	})
}
