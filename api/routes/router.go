package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moviemaestro/moviemaestro-backend/api/controllers"
	"github.com/moviemaestro/moviemaestro-backend/api/middleware"
	"github.com/moviemaestro/moviemaestro-backend/api/responses"
	"github.com/moviemaestro/moviemaestro-backend/internal/auth"
	"github.com/moviemaestro/moviemaestro-backend/internal/lists"
	"github.com/moviemaestro/moviemaestro-backend/internal/users"
	"github.com/moviemaestro/moviemaestro-backend/pkg/auth/session"
	"github.com/moviemaestro/moviemaestro-backend/pkg/config"
	pkgerrors "github.com/moviemaestro/moviemaestro-backend/pkg/errors"
	"github.com/moviemaestro/moviemaestro-backend/pkg/logger"
	"github.com/moviemaestro/moviemaestro-backend/pkg/metrics"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// Params bundles everything the router needs.
type Params struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             pinger
	Redis          rateLimiterStore
	RedisPinger    pinger
	SessionManager sessionManager
	AuthService    auth.Service
	UsersService   users.Service
	ListsService   lists.Service
	Gatherer       prometheus.Gatherer
	HTTPMetrics    *metrics.HTTPMetrics
}

// NewRouter assembles the full HTTP surface.
func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(),
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

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})

	r.Get("/", controllers.Root())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, p.RedisPinger, logg))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/users", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).
			Post("/", controllers.UsersRegister(p.UsersService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).
			Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.SessionManager, cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))

			r.Post("/logout", controllers.AuthLogout(p.SessionManager, logg))
			r.Get("/", controllers.UsersList(p.UsersService, logg))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.UsersGet(p.UsersService, logg))
				r.Patch("/", controllers.UsersUpdate(p.UsersService, logg))
				r.Delete("/", controllers.UsersDelete(p.UsersService, logg))

				r.Route("/{list:watchList|wishList}", func(r chi.Router) {
					r.Patch("/", controllers.ListAdd(p.ListsService, logg))
					r.Delete("/", controllers.ListRemove(p.ListsService, logg))
				})
			})
		})
	})

	return r
}
