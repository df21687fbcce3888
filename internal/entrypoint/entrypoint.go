package entrypoint

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shelf/internal/analysis"
	"github.com/mrlokans/shelf/internal/calibre"
	"github.com/mrlokans/shelf/internal/config"
	"github.com/mrlokans/shelf/internal/export"
	http_controllers "github.com/mrlokans/shelf/internal/http"
	"github.com/mrlokans/shelf/internal/metrics"
	"github.com/mrlokans/shelf/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal("listen failed", "error", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT; SIGKILL can't be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown server", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the export scheduler)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		fatal("Server shutdown failed", "error", err)
	}

	slog.Info("Server exiting")
}

// Components are the long-lived services behind the HTTP server.
type Components struct {
	Library   *calibre.Library
	Metrics   *metrics.Metrics
	Exporter  *export.Exporter
	Scheduler *scheduler.ExportScheduler
	Router    *gin.Engine
}

// Build connects to the library and wires every component. Only a library
// that cannot be opened is an error; image analysis degrades silently.
func Build(cfg *config.Config, version string) (*Components, error) {
	if cfg.Library.Path == "" {
		return nil, fmt.Errorf("%w: library path is not set, pass it as an argument or set LIBRARY_PATH", calibre.ErrLibraryUnavailable)
	}

	var m *metrics.Metrics
	var recorder analysis.FallbackRecorder
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics()
		recorder = m
	}

	analyzer, err := analysis.NewCachedAnalyzer(analysis.Select(cfg.Analysis.ImageEnabled, recorder), cfg.Analysis.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis cache: %w", err)
	}

	lib, err := calibre.Connect(cfg.Library.Path, calibre.WithAnalyzer(analyzer), calibre.WithMetrics(m))
	if err != nil {
		return nil, err
	}

	exporter := export.NewExporter(lib, export.Options{
		Output:        cfg.Export.Output,
		RemoteBaseURL: cfg.Export.RemoteBaseURL,
	}, m)
	sched := scheduler.NewExportScheduler(exporter, cfg.Export.Schedule)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Library:    lib,
		Export:     sched,
		IndexLimit: cfg.HTTP.IndexLimit,
		APILimit:   cfg.HTTP.APILimit,
		Metrics:    m,
		Version:    version,
	})

	return &Components{
		Library:   lib,
		Metrics:   m,
		Exporter:  exporter,
		Scheduler: sched,
		Router:    router,
	}, nil
}

func Run(cfg *config.Config, version string) {
	slog.Info("Starting Shelf", "version", version)

	components, err := Build(cfg, version)
	if err != nil {
		fatal("Failed to open Calibre library", "path", cfg.Library.Path, "error", err)
	}
	defer func() {
		if err := components.Library.Close(); err != nil {
			slog.Error("Error closing library", "error", err)
		}
	}()

	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	if err := components.Scheduler.Start(schedCtx); err != nil {
		components.Library.Close()
		fatal("Failed to start export scheduler", "error", err)
	}
	if components.Scheduler.IsRunning() {
		slog.Info("Periodic export enabled", "output", components.Exporter.Output(), "schedule", cfg.Export.Schedule)
	}

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		components.Scheduler.Stop()
	}

	Serve(components.Router, cfg, onShutdown)
}
