// main is the entry point of the Student Directory application.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file (plus .env / environment)
//  2. Initialise the logger
//  3. Initialise the configured storage backend (memory or SQLite)
//  4. Register all HTTP routes: the collection-resource API, the auth
//     endpoints, and the session-guarded pages
//  5. Start the HTTP server in a separate goroutine
//  6. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/student-directory --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/student-directory
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/student-directory/internal/client/studentapi"
	"github.com/aanand-mishra/student-directory/internal/config"
	"github.com/aanand-mishra/student-directory/internal/http/handlers/auth"
	"github.com/aanand-mishra/student-directory/internal/http/handlers/pages"
	"github.com/aanand-mishra/student-directory/internal/http/handlers/student"
	"github.com/aanand-mishra/student-directory/internal/http/middleware"
	"github.com/aanand-mishra/student-directory/internal/session"
	"github.com/aanand-mishra/student-directory/internal/storage"
	"github.com/aanand-mishra/student-directory/internal/storage/memory"
	"github.com/aanand-mishra/student-directory/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting student-directory",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// Both backends satisfy the storage.Storage interface; the rest of
	// the code never learns which one is wired. The memory store is the
	// fallback used when no persistent backend is configured.
	var store storage.Storage
	switch cfg.StorageDriver {
	case "sqlite":
		s, err := sqlite.New(cfg)
		if err != nil {
			log.Error("failed to initialise storage",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		store = s
		log.Info("storage initialised",
			slog.String("driver", "sqlite"),
			slog.String("path", cfg.StoragePath))
	default:
		store = memory.New()
		log.Info("storage initialised", slog.String("driver", "memory"))
	}

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	// Three route groups share one router:
	//
	//   /api/students...   — the collection resource (list/get/create/
	//                        update/delete, 405 elsewhere)
	//   /api/auth/...      — login and logout
	//   everything else    — server-rendered pages, session-guarded
	router := http.NewServeMux()

	sessions := session.New(cfg.Session.Secret)
	student.Register(router, store)
	auth.Register(router, sessions)

	// The pages consume the collection resource through the data-access
	// client. With no upstream configured they are pointed at this
	// process's own /api surface, which serves the fallback store.
	baseURL := cfg.Upstream.BaseURL
	if baseURL == "" {
		baseURL = "http://" + cfg.HTTPServer.Addr + "/api"
	}
	directory := studentapi.New(baseURL, log)

	pageHandler, err := pages.New(directory, sessions)
	if err != nil {
		log.Error("failed to initialise pages",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	pageHandler.Register(router, middleware.RequireSession)

	log.Info("routes registered", slog.String("upstream", baseURL))

	// ── 5. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: router,

		// Timeouts guard against slow clients holding connections open.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 6. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks, so it runs in its own goroutine and the
	// main goroutine waits for the shutdown signal below.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	// Give in-flight requests five seconds to complete before exiting.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given
// environment: human-readable text at DEBUG in dev, JSON elsewhere.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
