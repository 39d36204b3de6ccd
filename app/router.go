package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nutricare/authcore/modules/account"
	authapi "github.com/nutricare/authcore/modules/auth"
	"github.com/nutricare/authcore/modules/scheduling"
	"github.com/nutricare/authcore/pkg/clientip"
	"github.com/nutricare/authcore/pkg/environment"
	"github.com/nutricare/authcore/pkg/httpserver"
	"github.com/nutricare/authcore/pkg/logger"
	"github.com/nutricare/authcore/pkg/metrics"
	"github.com/nutricare/authcore/pkg/password"
	"github.com/nutricare/authcore/pkg/ratelimiter"
	"github.com/nutricare/authcore/pkg/requestid"
	"github.com/nutricare/authcore/svc/auth"
	"github.com/nutricare/authcore/svc/calendar"
	"github.com/nutricare/authcore/svc/identity"
	"github.com/nutricare/authcore/svc/session"
)

// Mountable is a feature module that serves a path prefix.
type Mountable interface {
	Handle() http.Handler
}

// Deps are the collaborators the router is built on. Store is required.
type Deps struct {
	Store identity.Store
	// Limiter throttles register and login. Nil disables throttling.
	Limiter ratelimiter.Limiter
	// Registry receives the service metrics and backs /metrics. Nil
	// creates a fresh registry.
	Registry *prometheus.Registry
	Probes   []httpserver.Probe
	Calendar []calendar.Option
}

// NewRouter builds the HTTP surface:
//
//	/health/live, /health/ready, /metrics
//	/api/auth/...           modules/auth
//	/api/users/...          modules/account
//	/api/consultations/...  modules/scheduling
func NewRouter(cfg Config, deps Deps, log *slog.Logger) (http.Handler, error) {
	if log == nil {
		log = logger.Discard()
	}
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	rec := metrics.NewCollector(reg)

	sessions, err := session.New(cfg.Session, deps.Store,
		session.WithLogger(log),
		session.WithMetrics(rec),
	)
	if err != nil {
		return nil, err
	}
	cal := calendar.New(cfg.Calendar, append([]calendar.Option{
		calendar.WithLogger(log),
		calendar.WithMetrics(rec),
	}, deps.Calendar...)...)

	var hashOpts []password.Option
	if cfg.PasswordCost > 0 {
		hashOpts = append(hashOpts, password.WithCost(cfg.PasswordCost))
	}
	authSvc := auth.New(deps.Store, password.NewHasher(hashOpts...), sessions,
		auth.WithLogger(log),
		auth.WithMetrics(rec),
	)

	authOpts := []authapi.Option{authapi.WithLogger(log)}
	if deps.Limiter != nil {
		authOpts = append(authOpts, authapi.WithLimiter(deps.Limiter))
	}
	modules := map[string]Mountable{
		"/auth":          authapi.New(authSvc, sessions, cal, cfg.FrontendURL, authOpts...),
		"/users":         account.New(authSvc, sessions, log),
		"/consultations": scheduling.New(sessions, cal, scheduling.WithLogger(log), scheduling.WithMetrics(rec)),
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(clientip.New(cfg.TrustProxy).Middleware)
	r.Use(environment.Middleware(environment.Parse(cfg.Env)))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.allowedOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestid.Header},
		ExposedHeaders:   []string{requestid.Header, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, cfg.ReadinessTimeout, deps.Probes...))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(reg))

	r.Route("/api", func(r chi.Router) {
		for prefix, m := range modules {
			r.Mount(prefix, m.Handle())
		}
	})

	log.Info("routes mounted",
		logger.Component("app"),
		slog.String("calendar_state", cal.State().String()),
		slog.Bool("rate_limited", deps.Limiter != nil),
	)
	return r, nil
}
