package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/ratedesk/ratedesk-backend/api/responses"
	"github.com/ratedesk/ratedesk-backend/pkg/config"
	"github.com/ratedesk/ratedesk-backend/pkg/db"
	pkgerrors "github.com/ratedesk/ratedesk-backend/pkg/errors"
	"github.com/ratedesk/ratedesk-backend/pkg/logger"
)

const readyProbeTimeout = 3 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateDesk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, cacheP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateDesk-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyProbeTimeout)
		defer cancel()

		checks := map[string]string{}

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable").
						WithDetails(map[string]string{"dependency": "postgres"}))
				return
			}
			checks["postgres"] = "ok"
		}

		if cacheP != nil {
			if err := cacheP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache unavailable").
						WithDetails(map[string]string{"dependency": "redis"}))
				return
			}
			checks["redis"] = "ok"
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
