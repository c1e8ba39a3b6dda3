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

	"github.com/starford/ansuz/internal/api"
	"github.com/starford/ansuz/internal/history"
	"github.com/starford/ansuz/internal/remote"
	"github.com/starford/ansuz/internal/sse"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/syncer"
	"github.com/starford/ansuz/internal/watcher"
)

// NewLogger builds the structured JSON logger and installs it as default.
func NewLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// components bundles the wired collaborators shared by the daemon and the
// one-shot commands.
type components struct {
	store   storage.Provider
	journal *history.Journal
	client  *remote.Client
	engine  *syncer.Engine
}

func (c *components) Close() {
	if c.journal != nil {
		_ = c.journal.Close()
	}
}

// buildComponents wires storage, journal, remote client, and engine from
// cfg. broker may be nil for one-shot commands.
func buildComponents(cfg *Config, logger *slog.Logger, broker *sse.Broker) (*components, error) {
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	var journal *history.Journal
	if cfg.History.Path != "" {
		journal, err = history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("init history: %w", err)
		}
	}

	client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Token)

	engine := syncer.NewEngine(syncer.EngineConfig{
		Store:    store,
		Remote:   client,
		Journal:  journal,
		Broker:   broker,
		Logger:   logger,
		Metadata: cfg.Publish.MetadataOptions(),
		Folder:   cfg.Vault.Folder,
	})

	return &components{store: store, journal: journal, client: client, engine: engine}, nil
}

// Run starts the daemon: control API, optional sync-on-save watcher, and
// optional periodic batch sync.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := app.logger
	if logger == nil {
		logger = NewLogger(cfg.App.LogLevel)
	}
	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("vault_folder", cfg.Vault.Folder),
		slog.String("remote_base_url", cfg.Remote.BaseURL),
		slog.Bool("sync_on_save", cfg.Publish.SyncOnSave),
		slog.Bool("auto_sync", cfg.AutoSync.Enabled))

	broker := sse.NewBroker()
	defer broker.Close()

	comp, err := buildComponents(cfg, logger, broker)
	if err != nil {
		return err
	}
	defer comp.Close()

	scheduler := syncer.NewScheduler(
		time.Duration(cfg.AutoSync.IntervalMinutes)*time.Minute,
		logger,
		func(runCtx context.Context) {
			if _, err := comp.engine.SyncAll(runCtx); err != nil {
				logger.Error("auto-sync run failed", slog.String("error", err.Error()))
			}
		})

	apiRouter := api.NewRouter(api.Deps{
		Engine:    comp.engine,
		Journal:   comp.journal,
		Remote:    comp.client,
		Scheduler: scheduler,
		Broker:    broker,
	}, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Publish.SyncOnSave {
		g.Go(func() error {
			return watcher.Watch(gCtx, comp.store, comp.engine, cfg.Vault.Path, cfg.Vault.Folder, 0, logger)
		})
	}

	if cfg.AutoSync.Enabled {
		scheduler.Start(gCtx)
		defer scheduler.Stop()
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
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

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
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
