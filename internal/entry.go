// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/starford/ghform/internal/api"
	"github.com/starford/ghform/internal/formservice"
	"github.com/starford/ghform/internal/i18n"
	"github.com/starford/ghform/internal/index"
	"github.com/starford/ghform/internal/issueform"
	"github.com/starford/ghform/internal/markdown"
	"github.com/starford/ghform/internal/mcpserver"
	"github.com/starford/ghform/internal/sse"
	"github.com/starford/ghform/internal/storage"
)

var errConfigRequired = errors.New("config is required")

// ErrCheckFailed is returned by Check when any template fails to decode or lint.
var ErrCheckFailed = errors.New("check failed")

// Run starts the preview server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("source_kind", cfg.Source.Kind),
		slog.String("source_path", cfg.Source.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("locale", cfg.Render.Locale),
		slog.Bool("live_reload", cfg.App.LiveReload),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, root, err := newStore(cfg)
	if err != nil {
		return err
	}

	// Initialize SQLite index.
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	// Run initial sync.
	if err := index.Sync(ctx, db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	svc := formservice.NewService(store, db, renderer)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

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

	r.Mount("/api", api.NewRouter(svc, broker))
	r.Mount("/", api.NewPageRouter(svc))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Only local directories can be watched.
	if root != "" {
		g.Go(func() error {
			if err := index.Watch(gCtx, db, store, root, logger, broker.PublishTemplateEvent); err != nil {
				logger.Error("watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
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

// Preview renders the template at file to the configured output.
func Preview(file string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	renderer, err := newRenderer(app.config)
	if err != nil {
		return err
	}
	html, err := formservice.NewService(nil, nil, renderer).RenderBytes(filepath.Base(file), data)
	if err != nil {
		return err
	}
	_, err = io.WriteString(app.output(), html)
	return err
}

// Check decodes and lints every template in dir, writing one line per
// finding. It returns ErrCheckFailed when any file has findings.
func Check(ctx context.Context, dir string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		return err
	}
	out := app.output()
	results, err := formservice.NewService(store, nil, nil).Check(ctx)
	for _, res := range results {
		if res.Err == nil {
			fmt.Fprintf(out, "%s: ok\n", res.File)
		}
	}
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return err
	}
	for _, e := range merr.Errors {
		fmt.Fprintln(out, e.Error())
	}
	return fmt.Errorf("%w: %d problem(s)", ErrCheckFailed, len(merr.Errors))
}

// ServeMCP runs the MCP tool server on stdin/stdout until the client
// disconnects. Logs go to stderr.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	store, _, err := newStore(cfg)
	if err != nil {
		return err
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()
	if err := index.Sync(ctx, db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	srv := mcpserver.New(formservice.NewService(store, db, renderer), app.version)
	logger.Info("MCP server starting", slog.String("source_kind", cfg.Source.Kind))
	return srv.ServeStdio()
}

func (a *application) output() io.Writer {
	if a.out == nil {
		return os.Stdout
	}
	return a.out
}

// newStore builds the configured template source. root is the local
// directory to watch, empty for remote sources.
func newStore(cfg *Config) (storage.Provider, string, error) {
	switch cfg.Source.Kind {
	case SourceKindGitHub:
		return storage.NewGitHub(cfg.Source.GitHub.Options()), "", nil
	default:
		store, err := storage.NewFS(cfg.Source.Path)
		if err != nil {
			return nil, "", fmt.Errorf("init storage: %w", err)
		}
		return store, store.Root(), nil
	}
}

func newRenderer(cfg *Config) (*issueform.Renderer, error) {
	tr, err := i18n.New(cfg.Render.Locale)
	if err != nil {
		return nil, err
	}
	return issueform.NewRenderer(
		issueform.WithMarkdown(markdown.New(markdown.WithRawHTML(cfg.Render.RawHTML))),
		issueform.WithTranslator(tr),
		issueform.WithTitle(cfg.Render.ShowTitle),
		issueform.WithLiveReload(cfg.App.LiveReload),
	), nil
}
