package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sellerdesk/wb-sync/api/controllers"
	"github.com/sellerdesk/wb-sync/api/middleware"
	"github.com/sellerdesk/wb-sync/pkg/config"
	"github.com/sellerdesk/wb-sync/pkg/db"
	"github.com/sellerdesk/wb-sync/pkg/db/models"
	"github.com/sellerdesk/wb-sync/pkg/logger"
)

type redisPinger interface {
	Ping(ctx context.Context) error
}

type storeLister interface {
	ListAll(ctx context.Context) ([]models.Store, error)
}

// NewRouter builds the ops surface of the sync worker: health probes, the
// Prometheus scrape endpoint and a read-only store status listing.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redisPinger,
	stores storeLister,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/healthz", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/ops/v1", func(r chi.Router) {
		r.Get("/stores", controllers.StoreList(stores, logg))
	})

	return r
}
