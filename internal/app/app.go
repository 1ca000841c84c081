package app

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/db"
	httpx "github.com/AntonEmtsov/foodgram-project-react/internal/http"
	"github.com/AntonEmtsov/foodgram-project-react/internal/observability"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
	"github.com/AntonEmtsov/foodgram-project-react/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	SSEHub   *realtime.SSEHub
	Metrics  *observability.Metrics
	Server   *httpx.Server

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

// NewLogger reads LOG_MODE before the config is loaded so config loading
// itself can log.
func NewLogger() (*logger.Logger, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// New opens the configured database, migrates it and wires the app.
func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	dbService, err := db.NewService(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.Migrate(dbService.DB(), cfg.NameScope()); err != nil {
		_ = dbService.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	a, err := NewWithDB(ctx, log, cfg, dbService.DB())
	if err != nil {
		_ = dbService.Close()
		return nil, err
	}
	a.dbService = dbService
	return a, nil
}

// NewWithDB wires the app over an already migrated connection.
func NewWithDB(ctx context.Context, log *logger.Logger, cfg Config, theDB *gorm.DB) (*App, error) {
	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(log, cfg.MetricsEnabled)

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		return nil, err
	}

	hub := realtime.NewSSEHub(log)
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients.Bus, hub, metrics)
	handlerset := wireHandlers(theDB, log, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, metrics, handlerset, middleware)
	server.OnShutdown = append(server.OnShutdown, hub.Shutdown)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		SSEHub:       hub,
		Metrics:      metrics,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP and forwards bus events into the SSE hub until ctx is
// cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	if err := a.Clients.Bus.StartForwarder(gctx, a.SSEHub.Broadcast); err != nil {
		return fmt.Errorf("start event forwarder: %w", err)
	}
	a.Metrics.StartDBCollector(gctx, a.Log, a.DB)
	a.Metrics.StartRedisCollector(gctx, a.Log, a.Clients.Redis)
	// No-op unless METRICS_ADDR is set.
	a.Metrics.StartServer(gctx, a.Log, a.Cfg.MetricsAddr)

	g.Go(func() error {
		addr := a.Cfg.Addr()
		a.Log.Info("Server listening", "addr", addr, "bus", a.Clients.Bus.Transport())
		return a.Server.Run(gctx, addr, a.Cfg.ShutdownTimeout)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
