// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

// Command server runs the curation engine: a supervised HTTP API over the
// scoring pipeline, quality analyzer, trending tracker, and profile store.
//
// Configuration is environment-first with optional YAML file support:
//
//	HTTP_PORT=8080 BADGER_IN_MEMORY=true ./server
//
// See internal/config for the full variable list.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/feedlab/curator/internal/api"
	"github.com/feedlab/curator/internal/config"
	"github.com/feedlab/curator/internal/curation"
	"github.com/feedlab/curator/internal/curation/algorithms"
	"github.com/feedlab/curator/internal/events"
	"github.com/feedlab/curator/internal/logging"
	"github.com/feedlab/curator/internal/profile"
	"github.com/feedlab/curator/internal/source"
	"github.com/feedlab/curator/internal/supervisor"
	"github.com/feedlab/curator/internal/supervisor/services"
	"github.com/feedlab/curator/internal/trending"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Bool("storage_in_memory", cfg.Storage.InMemory).
		Str("seed_file", cfg.Source.SeedFile).
		Msg("Starting curator")

	// Profile and snapshot persistence. In-memory mode keeps everything in
	// process for tests and ephemeral deployments.
	var (
		store         profile.Store
		snapshotStore trending.SnapshotStore
	)
	if cfg.Storage.InMemory {
		store = profile.NewMemoryStore()
		snapshotStore = trending.NewMemorySnapshotStore()
		logging.Info().Msg("Using in-memory storage")
	} else {
		opts := badger.DefaultOptions(cfg.Storage.Path).WithLogger(nil)
		db, err := badger.Open(opts)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Storage.Path).Msg("Failed to open badger store")
		}
		defer func() {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing badger store")
			}
		}()
		store = profile.NewBadgerStore(db)
		snapshotStore = trending.NewBadgerSnapshotStore(db)
		logging.Info().Str("path", cfg.Storage.Path).Msg("Badger storage initialized")
	}

	// Candidate source: seeded static catalog behind a circuit breaker.
	catalog := source.NewStatic(nil)
	if cfg.Source.SeedFile != "" {
		loaded, err := source.LoadFile(cfg.Source.SeedFile)
		if err != nil {
			logging.Fatal().Err(err).Str("file", cfg.Source.SeedFile).Msg("Failed to load seed catalog")
		}
		catalog = loaded
		logging.Info().Int("items", catalog.Len()).Msg("Seed catalog loaded")
	} else {
		logging.Warn().Msg("No seed catalog configured - candidate pool starts empty")
	}

	candidates := source.NewBreaker(catalog, source.BreakerConfig{
		ConsecutiveFailures: uint32(cfg.Source.BreakerFailures),
		OpenTimeout:         cfg.Source.BreakerTimeout,
	}, logging.Logger())

	// Event bus for domain events.
	bus := events.NewBus(logging.Logger())
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	// Algorithm registry with the standard scorer set.
	registry := curation.NewRegistry()
	if err := algorithms.RegisterDefaults(registry); err != nil {
		logging.Fatal().Err(err).Msg("Failed to register default algorithms")
	}

	// Trending tracker over the same catalog.
	tracker := trending.NewTracker(catalog, snapshotStore, trending.Config{
		Interval:   cfg.Trending.Interval,
		MaxEntries: cfg.Trending.MaxEntries,
	}, logging.Logger())
	tracker.OnUpdated = func(count int) {
		if err := bus.Publish(events.TopicTrendingUpdated, events.TrendingUpdated{
			Count:     count,
			Timestamp: time.Now(),
		}); err != nil {
			logging.Error().Err(err).Msg("Failed to publish trending update")
		}
	}

	svc := curation.NewService(
		curation.ServiceConfig{
			Workers:       cfg.Curation.Workers,
			DefaultLimit:  cfg.Curation.DefaultLimit,
			CacheCapacity: cfg.Curation.CacheCapacity,
		},
		store,
		candidates,
		registry,
		curation.NewAnalyzer(),
		tracker,
		bus,
		logging.Logger(),
	)

	router := api.NewRouter(svc, &api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Supervisor tree; sutureslog logs through the zerolog-backed slog
	// adapter.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	tree.AddBackgroundService(services.NewTrendingService(tracker))
	tree.AddBackgroundService(services.NewEventLogService(bus, []string{
		events.TopicCurationCompleted,
		events.TopicCurationFailed,
		events.TopicTrendingUpdated,
		events.TopicPreferencesUpdated,
		events.TopicQualityAnalyzed,
	}, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Curator stopped gracefully")
}
