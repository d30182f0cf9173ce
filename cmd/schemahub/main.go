package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/schemahub/registry/internal/api/facade"
	api "github.com/schemahub/registry/internal/api/http"
	"github.com/schemahub/registry/internal/config"
	"github.com/schemahub/registry/internal/logger"
	"github.com/schemahub/registry/internal/metrics"
	"github.com/schemahub/registry/internal/storage"
	"github.com/schemahub/registry/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		Rotation:   cfg.Logging.Rotation,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info().Str("version", version.Get().Version).Msg("Starting schemahub")

	ctx := context.Background()

	backend, err := storage.New(cfg.Storage.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	var registryMetrics *metrics.RegistryMetrics
	var apiMetrics *metrics.APIMetrics
	var metricsServer *metrics.Server

	if cfg.Metrics.Enabled {
		collector := metrics.NewCollector()
		registryMetrics = metrics.NewRegistryMetrics(collector)
		apiMetrics = metrics.NewAPIMetrics(collector)

		metricsServer = metrics.NewServer(cfg.Metrics.Addr, collector.GetRegistry())
		if err := metricsServer.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}

	f := facade.New(backend.Registry(), cfg.Server.DefaultNamespace, registryMetrics)

	httpServer := api.NewServer(cfg.Server.HTTPAddr, f, backend, apiMetrics)
	if err := httpServer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop HTTP server")
	}

	if metricsServer != nil {
		if err := metricsServer.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to stop metrics server")
		}
	}

	if err := backend.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to close storage")
	}

	log.Info().Msg("Shutdown complete")
}
