package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/drinkshop/drinkshop-backend/api/responses"
	"github.com/drinkshop/drinkshop-backend/pkg/config"
	"github.com/drinkshop/drinkshop-backend/pkg/db"
	pkgerrors "github.com/drinkshop/drinkshop-backend/pkg/errors"
	"github.com/drinkshop/drinkshop-backend/pkg/logger"
	"github.com/drinkshop/drinkshop-backend/pkg/redis"
	"github.com/drinkshop/drinkshop-backend/pkg/types"
)

const (
	envHeader          = "X-Drinkshop-Env"
	readyCheckTimeout  = 2 * time.Second
	checkStatusOK      = "ok"
	checkStatusFailing = "unavailable"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, types.HealthStatus{Status: "live", Env: cfg.App.Env})
	}
}

// HealthReady pings the database and, when configured, redis. A nil redis pinger
// means the relay is disabled and the check is skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := map[string]string{}
		failed := false

		if dbP == nil {
			checks["database"] = checkStatusFailing
			failed = true
		} else if err := dbP.Ping(ctx); err != nil {
			checks["database"] = checkStatusFailing
			failed = true
			if logg != nil {
				logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "health.database_unavailable")
			}
		} else {
			checks["database"] = checkStatusOK
		}

		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = checkStatusFailing
				failed = true
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "health.redis_unavailable")
				}
			} else {
				checks["redis"] = checkStatusOK
			}
		}

		if failed {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency check failed").WithDetails(checks))
			return
		}

		responses.WriteSuccess(w, types.HealthStatus{Status: "ready", Env: cfg.App.Env, Checks: checks})
	}
}
