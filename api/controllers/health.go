package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/zenmart-labs/zenmart-backend/api/responses"
	"github.com/zenmart-labs/zenmart-backend/pkg/config"
	pkgerrors "github.com/zenmart-labs/zenmart-backend/pkg/errors"
	"github.com/zenmart-labs/zenmart-backend/pkg/logger"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ZenMart-Env", cfg.App.Env)
		responses.WriteSuccess(w, responses.Payload{"status": "live"})
	}
}

// HealthReady reports readiness by pinging the named dependencies. Any
// failing dependency flips the response to 503.
func HealthReady(cfg *config.Config, deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ZenMart-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = err.Error()
				healthy = false
				continue
			}
			checks[name] = "ok"
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, responses.Payload{
			"status": "ready",
			"checks": checks,
		})
	}
}
