package controllers

import (
	"net/http"

	"github.com/arjunpatil/vendortrack-backend/api/responses"
	"github.com/arjunpatil/vendortrack-backend/pkg/config"
	"github.com/arjunpatil/vendortrack-backend/pkg/db"
	pkgerrors "github.com/arjunpatil/vendortrack-backend/pkg/errors"
	"github.com/arjunpatil/vendortrack-backend/pkg/logger"
	"github.com/arjunpatil/vendortrack-backend/pkg/redis"
)

const envHeader = "X-VendorTrack-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores and reports per-dependency status.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				checks["database"] = "unavailable"
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "health.database", err)
				}
			} else {
				checks["database"] = "ok"
			}
		}

		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				checks["redis"] = "unavailable"
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "health.redis", err)
				}
			} else {
				checks["redis"] = "ok"
			}
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
