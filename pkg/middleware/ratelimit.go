package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitIP applies a token bucket per client IP. Idle clients are
// forgotten after three minutes; the sweeper stops when ctx is done.
func RateLimitIP(ctx context.Context, config utils.RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				mu.Lock()
				for ip, c := range clients {
					if time.Since(c.lastSeen) > 3*time.Minute {
						delete(clients, ip)
					}
				}
				mu.Unlock()
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)

			mu.Lock()
			c, found := clients[ip]
			if !found {
				c = &client{limiter: rate.NewLimiter(rate.Limit(config.RPS), config.Burst)}
				clients[ip] = c
			}
			c.lastSeen = time.Now()
			allowed := c.limiter.Allow()
			mu.Unlock()

			if !allowed {
				logger.Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
				utils.ResponseTooManyRequests(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
