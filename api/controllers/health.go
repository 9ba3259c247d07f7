package controllers

import (
	"context"
	"net/http"

	"github.com/sellerdesk/wb-sync/api/responses"
	"github.com/sellerdesk/wb-sync/pkg/config"
	"github.com/sellerdesk/wb-sync/pkg/db"
	pkgerrors "github.com/sellerdesk/wb-sync/pkg/errors"
	"github.com/sellerdesk/wb-sync/pkg/logger"
)

type redisPinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WBSync-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redisPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-WBSync-Env", cfg.App.Env)

		if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
			return
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
