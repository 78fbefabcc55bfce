package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/lipish/corexia/internal/data/db"
	"github.com/lipish/corexia/internal/http"
	"github.com/lipish/corexia/internal/observability"
	"github.com/lipish/corexia/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics
	Server   *http.Server

	otelShutdown func(context.Context) error
}

// New wires the full service graph and migrates the schema.
func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfigFromEnv(log))
	metrics := observability.Init(log)

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	if err := clients.Store.AutoMigrateAll(); err != nil {
		clients.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	theDB := clients.Store.DB()
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, clients, reposet)
	handlerset := wireHandlers(log, clients, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	if a.Metrics != nil {
		a.Metrics.StartDBCollector(gctx, a.Log, a.Clients.Store.DB())
		if a.Cfg.Redis.Addr != "" {
			a.Metrics.StartRedisCollector(gctx, a.Log, &goredis.Options{
				Addr:     a.Cfg.Redis.Addr,
				Password: a.Cfg.Redis.Password,
				DB:       a.Cfg.Redis.DB,
			})
		}
	}
	g.Go(func() error {
		return a.Server.Run(gctx)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	a.Clients.Close()
	if a.Log != nil {
		a.Log.Sync()
	}
}

// Migrate creates or updates the schema and exits without serving.
func Migrate(ctx context.Context, log *logger.Logger) error {
	cfg := LoadConfig(log)
	store, err := db.Open(log, cfg.DB)
	if err != nil {
		return fmt.Errorf("init %s: %w", cfg.DB.Driver, err)
	}
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", cfg.DB.Driver, err)
	}
	if err := store.AutoMigrateAll(); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	log.Info("schema migrated", "driver", store.Driver())
	return nil
}
