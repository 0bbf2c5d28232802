package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rafidmahmud/safepoint/internal/config"
	"github.com/rafidmahmud/safepoint/internal/db"
	httpx "github.com/rafidmahmud/safepoint/internal/http"
	"github.com/rafidmahmud/safepoint/internal/observability"
	"github.com/rafidmahmud/safepoint/internal/repo/memory"
	"github.com/rafidmahmud/safepoint/internal/repo/postgres"
	"github.com/rafidmahmud/safepoint/internal/storage"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	// tracing is opt-in via OTEL_ENDPOINT
	tracing := cfg.OtelEndpoint != ""

	if tracing {
		shutdownTracer, err := observability.InitTracer(context.Background(), "safepoint", cfg.OtelEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			tracing = false
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(3 * time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	uploads, err := storage.NewUploads(cfg.UploadDir)

	if err != nil {
		log.Error("upload dir init failed", "err", err)
		os.Exit(1)
	}

	deps := httpx.RouterDeps{
		Uploads:  uploads,
		Prom:     prom,
		Registry: registry,
		Tracing:  tracing,
	}

	// store: postgres when DB_HOST is configured, in-memory otherwise

	if cfg.DBURL != "" {
		pool, err := db.NewPool(cfg.DBURL)

		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}

		defer pool.Close()

		ctx, cancel := config.WithTimeout(5 * time.Second)
		err = db.EnsureSchema(ctx, pool)
		cancel()

		if err != nil {
			log.Error("schema bootstrap failed", "err", err)
			os.Exit(1)
		}

		deps.Users = postgres.NewUsersRepo(pool, prom)
		deps.Admins = postgres.NewAdminsRepo(pool, prom)
		deps.Ping = func() error {
			ctx, cancel := config.WithTimeout(1 * time.Second)
			defer cancel()
			return pool.Ping(ctx)
		}
	} else {
		log.Warn("no database configured, using in-memory store")

		deps.Users = memory.NewUsersRepo()
		deps.Admins = memory.NewAdminsRepo()
	}

	router := httpx.NewRouter(log, cfg, deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
