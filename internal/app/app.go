package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/dayplanner-backend/internal/data/db"
	httpserver "github.com/yungbote/dayplanner-backend/internal/http"
	"github.com/yungbote/dayplanner-backend/internal/observability"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *httpserver.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	Metrics  *observability.Metrics

	store          *db.Service
	otelShutdown   func(context.Context) error
	cancel         context.CancelFunc
	collectorsDone chan struct{}
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, cfg.Otel)
	metrics := observability.Init(log, cfg.Metrics)

	store, err := db.Open(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := store.AutoMigrateAll(); err != nil {
		_ = store.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := store.DB()

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = store.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	aggs := wireAggregates(theDB, log, metrics, reposet)
	serviceset, err := wireServices(theDB, log, cfg, reposet, aggs, clients)
	if err != nil {
		clients.Close()
		_ = store.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, cfg, serviceset, store)
	middleware := wireMiddleware(log, cfg, serviceset)
	server := wireServer(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		Metrics:      metrics,
		store:        store,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the metric samplers and SLO evaluator. It is a no-op when
// metrics are off.
func (a *App) Start() {
	if a == nil || a.Metrics == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.collectorsDone = make(chan struct{})
	src := observability.Sources{DB: a.DB, Redis: a.Clients.TokenCache.Client()}
	go func() {
		defer close(a.collectorsDone)
		if err := a.Metrics.Run(ctx, a.Log, src); err != nil {
			a.Log.Warn("metric collectors stopped", "error", err)
		}
	}()
}

func (a *App) Run(addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "addr", addr)
	return a.Server.Run(addr)
}

// Shutdown drains in-flight requests, then releases every client.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var firstErr error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	a.Close()
	return firstErr
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		<-a.collectorsDone
		a.cancel = nil
	}
	a.Clients.Close()
	if a.store != nil {
		if err := a.store.Close(); err != nil && a.Log != nil {
			a.Log.Warn("database close failed", "error", err)
		}
		a.store = nil
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
		a.otelShutdown = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
