// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

// Package main is the entry point for the Scentmatch server.
//
// Scentmatch matches user scent preferences against a fragrance catalog
// using a TF-IDF vector-space model over Persian fragrance vocabulary,
// with cosine similarity and preference-based score adjustments. An
// optional external re-ranking service refines the local ordering; when
// it is unreachable, the local ranking is served as-is.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered load via Koanf v2 (defaults, YAML file,
//     SCENTMATCH_-prefixed environment variables)
//  2. Catalog store: BadgerDB-backed fragrance catalog, with an
//     optional JSON import at startup
//  3. Event bus: in-process Watermill pub/sub for catalog changes
//  4. Matching engine: TF-IDF model over the catalog snapshot, rebuilt
//     on catalog mutation
//  5. HTTP server: REST API (chi) with Prometheus metrics
//
// Long-lived services run under a suture supervision tree and restart
// with exponential backoff on failure.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, waits for in-flight requests up to the
// configured shutdown timeout, then closes the event bus and catalog
// store.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scentmatch/scentmatch/internal/api"
	"github.com/scentmatch/scentmatch/internal/catalog"
	"github.com/scentmatch/scentmatch/internal/config"
	"github.com/scentmatch/scentmatch/internal/events"
	"github.com/scentmatch/scentmatch/internal/logging"
	"github.com/scentmatch/scentmatch/internal/matcher"
	"github.com/scentmatch/scentmatch/internal/matcher/rerank"
	"github.com/scentmatch/scentmatch/internal/metrics"
	"github.com/scentmatch/scentmatch/internal/supervisor"
	"github.com/scentmatch/scentmatch/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "scentmatch: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()
	logger.Info().Str("addr", cfg.Server.Addr()).Msg("starting scentmatch")

	store, err := catalog.Open(cfg.Catalog.Path, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("closing catalog store")
		}
	}()

	if cfg.Catalog.ImportFile != "" {
		imported, err := store.ImportJSON(cfg.Catalog.ImportFile)
		if err != nil {
			return fmt.Errorf("import catalog: %w", err)
		}
		logger.Info().Int("imported", imported).Msg("catalog imported")
	}

	bus := events.NewBus()
	defer func() {
		if err := bus.Close(); err != nil {
			logger.Error().Err(err).Msg("closing event bus")
		}
	}()

	engine, err := matcher.NewEngine(&cfg.Engine, logger)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	engine.SetCatalogProvider(store)
	if cfg.Rerank.Enabled {
		engine.SetReranker(rerank.NewClient(cfg.Rerank, logger))
		logger.Info().Str("url", cfg.Rerank.URL).Msg("external re-ranking enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the model so the first request does not pay the build cost.
	// An empty catalog is fine; the model builds lazily once items exist.
	buildStart := time.Now()
	if err := engine.Build(ctx); err != nil {
		if errors.Is(err, matcher.ErrEmptyCatalog) {
			logger.Warn().Msg("catalog is empty; model will build after the first import")
		} else {
			return fmt.Errorf("initial model build: %w", err)
		}
	} else {
		status := engine.Status()
		metrics.RecordEngineBuild(nil, time.Since(buildStart), status.ModelVersion, status.VocabularySize, status.Documents)
	}

	handler := api.NewHandler(engine, store, bus, logger)
	router := api.NewRouter(handler, api.RouterConfig{
		RateLimitRequests:  cfg.API.RateLimitRequests,
		RateLimitWindow:    cfg.API.RateLimitWindow,
		CORSAllowedOrigins: cfg.API.CORSAllowedOrigins,
		AdminKey:           cfg.API.AdminKey,
	}, logger)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	treeConfig := supervisor.DefaultTreeConfig()
	treeConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeConfig)
	tree.AddEngineService(services.NewCatalogRebuildService(bus, engine, logger, 0))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logger.Info().Msg("starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		if unstopped, reportErr := tree.UnstoppedServiceReport(); reportErr == nil {
			for _, svc := range unstopped {
				logger.Warn().Str("service", svc.Name).Msg("service did not stop in time")
			}
		}
		return fmt.Errorf("supervisor tree: %w", err)
	}

	logger.Info().Msg("shutdown complete")
	return nil
}
