package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/speakeasy-backend/pkg/logger"
)

const (
	requestIDHeader = "X-Request-Id"
	maxRequestIDLen = 128
)

// RequestID echoes a well-formed inbound X-Request-Id or mints a UUID, then
// tags the request logger with it and the resolved client IP.
func RequestID(logg *logger.Logger, ips *ClientIPResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if !validRequestID(reqID) {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
				ctx = logg.WithClientIP(ctx, ips.Resolve(r))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Inbound ids end up in every log line, so only printable ASCII without spaces passes.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}
