package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/footballzones-backend/api/responses"
	"github.com/angelmondragon/footballzones-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/footballzones-backend/pkg/errors"
	"github.com/angelmondragon/footballzones-backend/pkg/logger"
)

const (
	envHeader          = "X-FootballZones-Env"
	readinessTimeout   = 2 * time.Second
	checkStatusOK      = "ok"
	checkStatusFailing = "failing"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessCheck names a dependency probed by /health/ready. Optional checks
// report their state without failing readiness.
type ReadinessCheck struct {
	Name     string
	Pinger   pinger
	Optional bool
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		statuses := map[string]string{}
		var failed error
		for _, check := range checks {
			if check.Pinger == nil {
				continue
			}
			if err := check.Pinger.Ping(ctx); err != nil {
				statuses[check.Name] = checkStatusFailing
				if !check.Optional && failed == nil {
					failed = pkgerrors.Wrap(pkgerrors.CodeDependency, err, check.Name+" unavailable")
				}
				continue
			}
			statuses[check.Name] = checkStatusOK
		}
		if failed != nil {
			responses.WriteError(r.Context(), logg, w, failed)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": statuses})
	}
}
