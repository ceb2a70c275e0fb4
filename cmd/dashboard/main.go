package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/covid-stats-dashboard/internal/acquisition"
	"github.com/couchcryptid/covid-stats-dashboard/internal/adapter/diseasesh"
	httpadapter "github.com/couchcryptid/covid-stats-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/covid-stats-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/covid-stats-dashboard/internal/config"
	"github.com/couchcryptid/covid-stats-dashboard/internal/observability"
	"github.com/couchcryptid/covid-stats-dashboard/internal/state"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := diseasesh.NewClient(cfg.StatsAPIURL, cfg.StatsAPITimeout, metrics, logger)
	store := state.NewStore()
	ctrl := acquisition.New(client, store, logger, metrics, cfg.HistoryDays)

	srv := httpadapter.NewServer(cfg.HTTPAddr, ctrl, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Publish committed state changes (feature-flagged via KAFKA_ENABLED).
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		session := uuid.NewString()
		writer = kafkaadapter.NewWriter(cfg, session, logger, metrics)
		changes, unsubscribe := store.Subscribe()
		defer unsubscribe()
		go func() {
			if err := writer.Run(ctx, changes); err != nil {
				logger.Error("state publisher error", "error", err)
			}
		}()
		logger.Info("kafka state publishing enabled", "topic", cfg.KafkaTopic, "session", session)
	} else {
		logger.Info("kafka state publishing disabled")
	}

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Initial worldwide snapshot, country list and timeline.
	go ctrl.Start(ctx)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
