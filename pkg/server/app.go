package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	domrepo "CoinLake/internal/domain/repository"
	"CoinLake/internal/usecase"
	pkgch "CoinLake/pkg/clickhouse"
	"CoinLake/pkg/config"
	xhttp "CoinLake/pkg/http"
	applogger "CoinLake/pkg/logger"
	"CoinLake/pkg/storage"
)

// App encapsulates the application lifecycle: one-shot pipeline stages and
// the long-running dashboard server share the same wired dependencies.
type App struct {
	cfg        *config.Config
	pipeline   *usecase.Pipeline
	handler    xhttp.Handler
	store      storage.Store
	notifier   domrepo.Notifier
	chClient   *pkgch.Client
	logger     *applogger.Logger
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	pipeline *usecase.Pipeline,
	handler xhttp.Handler,
	store storage.Store,
	notifier domrepo.Notifier,
	chClient *pkgch.Client,
	logger *applogger.Logger,
) *App {
	return &App{
		cfg:      cfg,
		pipeline: pipeline,
		handler:  handler,
		store:    store,
		notifier: notifier,
		chClient: chClient,
		logger:   logger,
	}
}

// RunStage executes one batch stage and exits. "all" chains the three
// stages in order.
func (a *App) RunStage(ctx context.Context, stage string) error {
	defer a.closeResources()

	switch stage {
	case "ingest":
		return a.pipeline.RunIngest(ctx)
	case "reconcile":
		return a.pipeline.RunReconcile(ctx)
	case "aggregate":
		return a.pipeline.RunAggregate(ctx)
	case "all":
		return a.pipeline.RunAll(ctx)
	default:
		return fmt.Errorf("unknown stage %q", stage)
	}
}

// Run starts the dashboard HTTP server and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("dashboard server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops the server and closes shared clients.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	a.closeResources()
	a.logger.Info("shutdown complete")
	return nil
}

func (a *App) closeResources() {
	if a.notifier != nil {
		if err := a.notifier.Close(); err != nil {
			a.logger.Warn("notifier close error", applogger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("store close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}
}
