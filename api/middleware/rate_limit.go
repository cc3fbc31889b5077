package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/angelmondragon/speakeasy-backend/api/responses"
	"github.com/angelmondragon/speakeasy-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/speakeasy-backend/pkg/errors"
	"github.com/angelmondragon/speakeasy-backend/pkg/logger"
)

const rateLimitedMessage = "Too many requests from this IP, please try again later."

type windowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimit caps requests per client IP in a fixed window shared across replicas.
func RateLimit(cfg config.RateLimitConfig, ips *ClientIPResolver, limiter windowLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil || cfg.Window <= 0 || cfg.MaxRequests <= 0 {
			return next
		}
		limit := int64(cfg.MaxRequests)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := ips.Resolve(r)

			allowed, count, err := limiter.FixedWindowAllow(ctx, "ip:"+ip, limit, cfg.Window)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}

			remaining := limit - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("RateLimit-Limit", strconv.FormatInt(limit, 10))
			w.Header().Set("RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"attempts":       count,
						"limit":          limit,
						"window_seconds": int(cfg.Window.Seconds()),
					})
					logg.Warn(logCtx, "rate_limit.blocked")
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, rateLimitedMessage))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
