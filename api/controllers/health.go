package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/tetstore/guestcart-backend/api/responses"
	"github.com/tetstore/guestcart-backend/pkg/config"
	pkgerrors "github.com/tetstore/guestcart-backend/pkg/errors"
	"github.com/tetstore/guestcart-backend/pkg/logger"
	"github.com/tetstore/guestcart-backend/pkg/redis"
)

const envHeader = "X-Tet-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness. Only the cart store gates traffic; the
// calculator tolerates an unreachable pricing oracle.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if redisP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "cart store not configured"))
			return
		}
		if err := redisP.Ping(ctx); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart store unreachable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
