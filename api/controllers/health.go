package controllers

import (
	"context"
	"net/http"

	"github.com/moviemaestro/moviemaestro-backend/api/responses"
	"github.com/moviemaestro/moviemaestro-backend/pkg/config"
	pkgerrors "github.com/moviemaestro/moviemaestro-backend/pkg/errors"
	"github.com/moviemaestro/moviemaestro-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Root answers the unauthenticated API banner.
func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"name":   "MovieMaestro API",
			"status": "ok",
		})
	}
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MovieMaestro-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when both backing stores answer a ping.
func HealthReady(cfg *config.Config, database, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MovieMaestro-Env", cfg.App.Env)

		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
