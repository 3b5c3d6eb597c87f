// Package main is the entry point for the Cargoflow API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/mpetrenko/cargoflow/internal/config"
	"github.com/mpetrenko/cargoflow/internal/filestore"
	"github.com/mpetrenko/cargoflow/internal/handler"
	"github.com/mpetrenko/cargoflow/internal/repo"
	"github.com/mpetrenko/cargoflow/internal/store"
	"github.com/mpetrenko/cargoflow/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately, the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Migrations -------------------------------------------------------
	// goose needs a database/sql handle, separate from the pgx pool.
	if err := runMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations up to date")

	// --- Document storage -------------------------------------------------
	files, err := newFileStore(cfg)
	if err != nil {
		slog.Error("failed to initialize document storage", "error", err)
		os.Exit(1)
	}

	// --- Record store -----------------------------------------------------
	recordStore := store.NewRecordStore(
		repo.NewClientRepo(pool),
		repo.NewTripRepo(pool),
		repo.NewHistoryRepo(pool),
		repo.NewDocumentRepo(pool),
		logger,
		store.NewLogNotifier(logger),
	)

	// Warm the cache. A failed initial load is not fatal: the server starts
	// with empty collections and POST /api/refresh can repull later.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if err := recordStore.Load(loadCtx); err != nil {
		slog.Warn("initial data load failed", "error", err)
	} else {
		slog.Info("initial data loaded",
			"clients", len(recordStore.Clients()),
			"trips", len(recordStore.Trips()))
	}
	cancelLoad()

	// --- Router -----------------------------------------------------------
	h := handler.NewHandler(recordStore, files, logger)
	router := handler.NewRouter(h, logger, cfg.CORSOrigins)

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runMigrations applies all pending migrations from the embedded FS.
// goose drives a database/sql handle, separate from the pgx pool.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}

// newFileStore builds the document storage provider selected by config.
func newFileStore(cfg config.Config) (filestore.Provider, error) {
	switch cfg.StorageBackend {
	case config.StorageWebDAV:
		return filestore.NewWebDAV(cfg.WebDAVURL, cfg.WebDAVUsername, cfg.WebDAVPassword, "cargoflow"), nil
	default:
		if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
			return nil, err
		}
		return filestore.NewFS(cfg.StorageDir)
	}
}
