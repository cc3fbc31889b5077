package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/speakeasy-backend/api/controllers"
	"github.com/angelmondragon/speakeasy-backend/api/middleware"
	"github.com/angelmondragon/speakeasy-backend/api/responses"
	"github.com/angelmondragon/speakeasy-backend/internal/drinks"
	"github.com/angelmondragon/speakeasy-backend/internal/reservations"
	"github.com/angelmondragon/speakeasy-backend/pkg/config"
	"github.com/angelmondragon/speakeasy-backend/pkg/logger"
	"github.com/angelmondragon/speakeasy-backend/pkg/metrics"
)

type redisStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators the router hands to controllers.
type Dependencies struct {
	DB             controllers.Pinger
	Redis          redisStore
	Reservations   reservations.Service
	Drinks         drinks.Service
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	proxies, err := cfg.RateLimit.TrustedProxyNets()
	if err != nil && logg != nil {
		logg.Error(context.Background(), "router.trusted_proxies_invalid", err)
	}
	ips := middleware.NewClientIPResolver(proxies)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg, ips),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.SecurityHeaders(cfg.App.IsProd()),
		middleware.CORS(cfg.CORS),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteNotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteMethodNotAllowed(w)
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	readiness := map[string]controllers.Pinger{}
	if deps.DB != nil {
		readiness["database"] = deps.DB
	}
	var limiter interface {
		FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	}
	if deps.Redis != nil {
		readiness["redis"] = deps.Redis
		limiter = deps.Redis
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimit, ips, limiter, logg))

		r.Get("/health", controllers.Health())
		r.Get("/health/ready", controllers.HealthReady(logg, readiness))

		r.Route("/reservations", func(r chi.Router) {
			r.Post("/", controllers.ReservationCreate(deps.Reservations, logg))
			r.Get("/{code}", controllers.ReservationGet(deps.Reservations, logg))
			r.Post("/{code}/cancel", controllers.ReservationCancel(deps.Reservations, logg))
		})
		r.Get("/availability", controllers.AvailabilityGet(deps.Reservations, logg))

		r.Route("/drinks", func(r chi.Router) {
			r.Get("/ingredients", controllers.IngredientsList(deps.Drinks, logg))
			r.Post("/build", controllers.DrinkBuild(deps.Drinks, logg))
		})
	})

	return r
}
