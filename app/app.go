package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	mongodrv "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/nutricare/authcore/pkg/httpserver"
	"github.com/nutricare/authcore/pkg/logger"
	"github.com/nutricare/authcore/pkg/mongo"
	"github.com/nutricare/authcore/pkg/ratelimiter"
	"github.com/nutricare/authcore/pkg/redis"
	"github.com/nutricare/authcore/svc/identity"
)

// App owns the backing connections and the assembled router.
type App struct {
	cfg     Config
	log     *slog.Logger
	mongo   *mongodrv.Client
	redis   *goredis.Client
	buckets *ratelimiter.MemoryStore
	handler http.Handler
}

// New connects MongoDB (and Redis when REDIS_URL is set) and builds the
// router. Without Redis the login throttle keeps its buckets in memory.
func New(ctx context.Context, cfg Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = logger.Discard()
	}
	a := &App{cfg: cfg, log: log.With(logger.Component("app"))}

	client, err := mongo.Connect(ctx, cfg.Mongo, log)
	if err != nil {
		return nil, err
	}
	a.mongo = client

	store := identity.NewMongoStore(client.Database(cfg.Mongo.Database))
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = a.Close(context.Background())
		return nil, fmt.Errorf("ensure identity indexes: %w", err)
	}

	probes := []httpserver.Probe{{Name: "mongo", Check: mongo.Healthcheck(client)}}

	var bucketStore ratelimiter.Store
	if cfg.Redis.Enabled() {
		rc, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			_ = a.Close(context.Background())
			return nil, err
		}
		a.redis = rc
		bucketStore = ratelimiter.NewRedisStore(rc)
		probes = append(probes, httpserver.Probe{Name: "redis", Check: redis.Healthcheck(rc)})
	} else {
		a.buckets = ratelimiter.NewMemoryStore()
		bucketStore = a.buckets
	}
	limiter, err := ratelimiter.NewBucket(bucketStore, cfg.RateLimit)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a.handler, err = NewRouter(cfg, Deps{
		Store:    store,
		Limiter:  limiter,
		Registry: reg,
		Probes:   probes,
	}, log)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	return a, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

// Run serves until ctx is done.
func (a *App) Run(ctx context.Context) error {
	srv := httpserver.New(a.cfg.HTTP, httpserver.WithLogger(a.log))
	return srv.Run(ctx, a.handler)
}

// Close releases backing connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.buckets != nil {
		a.buckets.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("disconnect mongo: %w", err))
		}
	}
	return errors.Join(errs...)
}
