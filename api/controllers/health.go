package controllers

import (
	"net/http"

	"github.com/Abid-Al-Labib/erp-base-sub000/api/responses"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/config"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db"
	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/logger"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ErpBase-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when both backing stores answer a ping.
func HealthReady(cfg *config.Config, database *db.Client, cache *redis.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ErpBase-Env", cfg.App.Env)

		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "database unreachable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "redis unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
