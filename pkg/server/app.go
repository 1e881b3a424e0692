package server

import (
	"context"
	"fmt"

	"RiskLens/internal/handler/api"
	"RiskLens/internal/usecase"
	"RiskLens/pkg/config"
	xhttp "RiskLens/pkg/http"
	applogger "RiskLens/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg       *config.Config
	log       *applogger.Logger
	snapshots *usecase.SnapshotUseCase
	refresher *usecase.Refresher
	hub       *api.Hub
	handler   xhttp.Handler

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies. The hub is
// subscribed to the snapshot pipeline here so every build is pushed.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	snapshots *usecase.SnapshotUseCase,
	refresher *usecase.Refresher,
	hub *api.Hub,
	handler *api.SnapshotEchoHandler,
) *App {
	snapshots.Subscribe(hub.Broadcast)
	return &App{
		cfg:       cfg,
		log:       log,
		snapshots: snapshots,
		refresher: refresher,
		hub:       hub,
		handler:   handler,
	}
}

// Snapshots exposes the pipeline for one-shot CLI use.
func (a *App) Snapshots() *usecase.SnapshotUseCase { return a.snapshots }

// Run serves HTTP and the scheduled refresh until ctx is cancelled or the
// listener fails.
func (a *App) Run(ctx context.Context) error {
	a.httpServer = xhttp.NewServer(a.log, []xhttp.Handler{a.handler},
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.refresher.Start(); err != nil {
		return err
	}

	// Warm the cache so the first request does not pay for pacing.
	go a.refresher.RunOnce(ctx)

	errc := a.httpServer.Start()
	a.log.Info("risklens started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Int("entities", len(a.cfg.Entities)),
	)

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err, ok := <-errc:
		if ok && err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}
	a.shutdown()
	return runErr
}

// shutdown stops accepting requests first, then background work.
func (a *App) shutdown() {
	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}
	a.refresher.Stop()
	a.hub.Close()
	a.log.Info("shutdown complete")
}
