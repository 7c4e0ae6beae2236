package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/footballzones-backend/api/controllers"
	"github.com/angelmondragon/footballzones-backend/api/middleware"
	"github.com/angelmondragon/footballzones-backend/internal/articles"
	"github.com/angelmondragon/footballzones-backend/internal/auth"
	"github.com/angelmondragon/footballzones-backend/internal/views"
	"github.com/angelmondragon/footballzones-backend/pkg/config"
	"github.com/angelmondragon/footballzones-backend/pkg/enums"
	"github.com/angelmondragon/footballzones-backend/pkg/logger"
	"github.com/angelmondragon/footballzones-backend/pkg/metrics"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type rateStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type viewTracker interface {
	Track(ctx context.Context, ev views.Event)
}

// Params bundles everything the HTTP surface is built from. Redis and RateStore
// may be nil when no cache is configured.
type Params struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             pinger
	Redis          pinger
	RateStore      rateStore
	AuthService    auth.Service
	ArticleService articles.Service
	Tracker        viewTracker
	TrackLimiter   *middleware.IPRateLimiter
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.ErrorDetail(!cfg.App.IsProd()),
		middleware.Logging(logg),
		middleware.Recoverer(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg,
			controllers.ReadinessCheck{Name: "database", Pinger: p.DB},
			controllers.ReadinessCheck{Name: "redis", Pinger: p.Redis, Optional: true},
		))
	})
	if p.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", p.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, p.RateStore, logg)).Post("/register", controllers.AuthRegister(p.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, p.RateStore, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
			r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Post("/logout", controllers.AuthLogout(p.AuthService, logg))
				r.Get("/me", controllers.AuthMe(p.AuthService, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(logg, enums.RoleAdmin))
			r.Put("/users/{id}/role", controllers.AdminChangeRole(p.AuthService, logg))
		})

		r.Route("/articles", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalAuth(cfg.JWT, logg))
				r.Get("/", controllers.ArticlesList(p.ArticleService, logg))
				r.Get("/search", controllers.ArticlesSearch(p.ArticleService, logg))
				r.Get("/{slug}", controllers.ArticleGet(p.ArticleService, logg))

				track := controllers.ArticleTrack(p.ArticleService, p.Tracker, logg)
				if p.TrackLimiter != nil {
					r.With(p.TrackLimiter.Middleware(logg)).Post("/{id}/track", track)
				} else {
					r.Post("/{id}/track", track)
				}
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.With(middleware.RequireRole(logg, enums.RoleCoach, enums.RoleAdmin)).Post("/", controllers.ArticleCreate(p.ArticleService, logg))
				r.Put("/{id}", controllers.ArticleUpdate(p.ArticleService, logg))
				r.Delete("/{id}", controllers.ArticleDelete(p.ArticleService, logg))
			})
		})
	})

	return r
}
