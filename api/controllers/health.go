package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/quickcartlabs/quickcart-backend/api/responses"
	pkgerrors "github.com/quickcartlabs/quickcart-backend/pkg/errors"
	"github.com/quickcartlabs/quickcart-backend/pkg/logger"
)

const envHeader = "X-QuickCart-Env"

const readinessTimeout = 2 * time.Second

// Pinger is a dependency that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(env string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the database and Redis before declaring readiness.
func HealthReady(env string, logg *logger.Logger, db, redisStore Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		failed := false
		for name, dep := range map[string]Pinger{"db": db, "redis": redisStore} {
			if dep == nil {
				checks[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				failed = true
				if logg != nil {
					logCtx := logg.WithField(ctx, "dependency", name)
					logg.Error(logCtx, "readiness check failed", err)
				}
				continue
			}
			checks[name] = "up"
		}

		if failed {
			responses.WriteError(ctx, nil, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
