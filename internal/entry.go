// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/server"
	"github.com/starford/sowilo/internal/site"
	"github.com/starford/sowilo/internal/storage"
)

// Run performs one full build with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return build(app.config, logger)
}

// Serve builds the site once and then serves it over HTTP until the context
// is cancelled or a shutdown signal arrives. With watch enabled, vault
// changes trigger rebuilds.
func Serve(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	if err := build(cfg, logger); err != nil {
		return err
	}

	// Cancelled on shutdown so the watch goroutine exits.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Mount("/", server.NewRouter(cfg.Output.Path))

	httpServer := &http.Server{
		Addr:    cfg.Serve.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...",
		slog.String("http_address", cfg.Serve.HTTP.Address()),
		slog.String("output_path", cfg.Output.Path))

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Serve.Watch {
		g.Go(func() error {
			return server.Watch(gCtx, cfg.Input.Path, logger, func() error {
				return build(cfg, logger)
			})
		})
	}

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// setup applies options, validates configuration, and builds the logger.
func setup(opts []Option) (*application, *slog.Logger, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}
	if err := app.config.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := app.logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: app.config.App.LogLevel,
		}))
		slog.SetDefault(logger)
	}

	logger.Info("Configuration loaded",
		slog.String("input_path", app.config.Input.Path),
		slog.String("output_path", app.config.Output.Path),
		slog.String("site_title", app.config.Site.Title),
		slog.String("log_level", app.config.App.LogLevel.String()))

	return app, logger, nil
}

// build regenerates the whole output directory from the vault.
func build(cfg *Config, logger *slog.Logger) error {
	info, err := os.Stat(cfg.Input.Path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("input directory %s: %w", cfg.Input.Path, apperr.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("stat input dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path %s: %w", cfg.Input.Path, apperr.ErrNotDirectory)
	}

	// Output is regenerated wholesale each run.
	if err := os.RemoveAll(cfg.Output.Path); err != nil {
		return fmt.Errorf("clean output dir: %w", err)
	}
	if err := os.MkdirAll(cfg.Output.Path, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	in, err := storage.NewFS(cfg.Input.Path)
	if err != nil {
		return fmt.Errorf("init vault storage: %w", err)
	}
	out, err := storage.NewFS(cfg.Output.Path)
	if err != nil {
		return fmt.Errorf("init output storage: %w", err)
	}

	builder, err := site.NewBuilder(in, out, cfg.Site.Title, logger)
	if err != nil {
		return err
	}
	if err := builder.Build(); err != nil {
		return err
	}

	logger.Info("Site generated", slog.String("output_path", cfg.Output.Path))
	return nil
}
