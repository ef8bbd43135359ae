package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	mid "SenateInsight/internal/middleware"
	"SenateInsight/internal/usecase"
	pkgch "SenateInsight/pkg/clickhouse"
	"SenateInsight/pkg/config"
	xhttp "SenateInsight/pkg/http"
	applogger "SenateInsight/pkg/logger"
	"SenateInsight/pkg/queue"
)

// App encapsulates the entire application lifecycle: HTTP server, the alert
// pipeline, the periodic analysis scheduler and the async job workers.
type App struct {
	cfg         *config.Config
	l           *applogger.Logger
	orch        *usecase.Orchestrator
	proc        *usecase.AlertProcessor
	pipe        *mid.AlertPipeline
	chClient    *pkgch.Client
	jobQueue    *queue.RedisQueue
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	orch *usecase.Orchestrator,
	proc *usecase.AlertProcessor,
	pipe *mid.AlertPipeline,
	chClient *pkgch.Client,
	jobQueue *queue.RedisQueue,
) *App {
	return &App{
		cfg:      cfg,
		l:        l,
		orch:     orch,
		proc:     proc,
		pipe:     pipe,
		chClient: chClient,
		jobQueue: jobQueue,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	a.pipe.Start(ctx)

	if a.jobQueue != nil {
		if err := a.jobQueue.Start(); err != nil {
			a.l.Error("job queue start error", applogger.Error(err))
			return err
		}
		a.jobQueue.StartRetryProcessor()
		a.l.Info("job queue started", applogger.Int("workers", a.cfg.Queue.Workers))
	}

	if a.cfg.Analysis.Schedule > 0 {
		go a.scheduleRuns(ctx)
		a.l.Info("scheduler started",
			applogger.Duration("interval_ms", a.cfg.Analysis.Schedule),
			applogger.String("chamber", a.cfg.Analysis.Chamber),
		)
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// scheduleRuns triggers a full analysis run on the configured interval.
// The first run fires immediately.
func (a *App) scheduleRuns(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.Analysis.Schedule)
	defer ticker.Stop()

	for {
		if summary, err := a.orch.Run(ctx); err != nil {
			a.l.Error("scheduled run error", applogger.Error(err))
		} else {
			a.l.Info("scheduled run complete",
				applogger.Int("members", summary.MembersProcessed),
				applogger.Int("alerts", summary.AlertsGenerated),
			)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	a.pipe.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.jobQueue != nil {
		if err := a.jobQueue.Stop(shutdownCtx); err != nil {
			a.l.Warn("job queue stop error", applogger.Error(err))
		}
	}

	if a.proc != nil {
		a.proc.Close()
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
