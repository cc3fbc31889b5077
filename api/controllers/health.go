package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/speakeasy-backend/api/responses"
	pkgerrors "github.com/angelmondragon/speakeasy-backend/pkg/errors"
	"github.com/angelmondragon/speakeasy-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is anything the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Health reports that the process is serving.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteBody(w, http.StatusOK, healthResponse{
			Success:   true,
			Message:   "Server is running",
			Timestamp: time.Now().UTC(),
		})
	}
}

// HealthReady pings every named dependency and fails with 503 on the first error.
func HealthReady(logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				if logg != nil {
					ctx = logg.WithField(ctx, "dependency", name)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteBody(w, http.StatusOK, healthResponse{
			Success:   true,
			Message:   "Server is ready",
			Timestamp: time.Now().UTC(),
		})
	}
}
