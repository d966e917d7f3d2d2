package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkovalenko/todohub/internal/config"
	"github.com/dkovalenko/todohub/internal/db"
	httpx "github.com/dkovalenko/todohub/internal/http"
	"github.com/dkovalenko/todohub/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// .env is a dev convenience; absence is fine
	_ = godotenv.Load()

	cfg, err := config.Load()

	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env)

	// tracing is best effort; the API runs fine without a collector
	shutdownTracer, err := observability.InitTracer(context.Background(), "todohub", cfg.OTLPEndpoint)

	if err != nil {
		log.Warn("tracer init failed, continuing without tracing", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	// optional persistent credential store
	var pool *pgxpool.Pool

	if cfg.DBURL != "" {
		pool, err = db.NewPool(cfg.DBURL)

		if err != nil {
			log.Error("database connection failed", "err", err)
			os.Exit(1)
		}
	}

	router := httpx.NewRouter(log, pool, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "todo_file", cfg.TodoFile)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	ctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}

	if err := shutdownTracer(ctx); err != nil {
		log.Error("tracer shutdown failed", "err", err)
	}

	if pool != nil {
		pool.Close()
	}

	log.Info("shutdown complete")
}
