// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/pos-backoffice/cliparse"
	"github.com/danielhkuo/pos-backoffice/db"
	"github.com/danielhkuo/pos-backoffice/events"
	"github.com/danielhkuo/pos-backoffice/logging"
	"github.com/danielhkuo/pos-backoffice/metrics"
	"github.com/danielhkuo/pos-backoffice/router"
	"github.com/danielhkuo/pos-backoffice/sessions"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(ctx, dbConn, cfg.DatabaseType); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	if err := db.SeedAdmin(ctx, dbConn, cfg); err != nil {
		slog.Error("admin seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	store, closeStore, err := sessionStore(ctx, cfg)
	if err != nil {
		slog.Error("session store unavailable", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	publisher, err := eventPublisher(cfg)
	if err != nil {
		slog.Error("event publisher unavailable", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	// Create router
	mux := router.NewRouter(dbConn, cfg, router.Services{
		Sessions: store,
		Events:   publisher,
		Metrics:  metrics.New(),
	})

	// Create server
	server := &http.Server{
		Handler:           mux,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}

// sessionStore uses Redis when REDIS_ADDR is set so revocations survive
// restarts and are shared between instances.
func sessionStore(ctx context.Context, cfg cliparse.Config) (sessions.Store, func(), error) {
	if cfg.RedisAddr == "" {
		slog.Info("session store", "backend", "memory")
		return sessions.NewMemoryStore(), func() {}, nil
	}
	store, err := sessions.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("session store", "backend", "redis", "addr", cfg.RedisAddr)
	return store, func() { store.Close() }, nil
}

func eventPublisher(cfg cliparse.Config) (events.Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.Nop{}, nil
	}
	pub, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, events.DefaultBreakerConfig())
	if err != nil {
		return nil, err
	}
	slog.Info("event publisher", "backend", "kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return pub, nil
}
