// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/scentmatch/scentmatch/internal/events"
	"github.com/scentmatch/scentmatch/internal/matcher"
	"github.com/scentmatch/scentmatch/internal/metrics"
)

const (
	// defaultRebuildDebounce coalesces a burst of catalog mutations
	// (e.g. a bulk import) into a single model rebuild.
	defaultRebuildDebounce = 2 * time.Second

	// rebuildTimeout bounds one model build.
	rebuildTimeout = 60 * time.Second
)

// CatalogRebuildService listens for catalog-change events and rebuilds
// the matching model. Rebuild failures are logged, not fatal: the engine
// keeps serving the previous model until a build succeeds.
type CatalogRebuildService struct {
	bus      *events.Bus
	engine   *matcher.Engine
	logger   zerolog.Logger
	debounce time.Duration
}

// NewCatalogRebuildService creates the rebuild loop. A non-positive
// debounce falls back to the default.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCatalogRebuildService(bus *events.Bus, engine *matcher.Engine, logger zerolog.Logger, debounce time.Duration) *CatalogRebuildService {
	if debounce <= 0 {
		debounce = defaultRebuildDebounce
	}
	return &CatalogRebuildService{
		bus:      bus,
		engine:   engine,
		logger:   logger.With().Str("component", "rebuild").Logger(),
		debounce: debounce,
	}
}

// Serve implements suture.Service.
func (s *CatalogRebuildService) Serve(ctx context.Context) error {
	messages, err := s.bus.SubscribeCatalogUpdated(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg, ok := <-messages:
			if !ok {
				// The bus closed underneath us; nothing left to supervise.
				return suture.ErrDoNotRestart
			}
			s.ackAndLog(msg)
			s.drainBurst(ctx, messages)
			s.rebuild(ctx)
		}
	}
}

// drainBurst acknowledges further events arriving within the debounce
// window so one rebuild covers the whole burst.
func (s *CatalogRebuildService) drainBurst(ctx context.Context, messages <-chan *events.Message) {
	timer := time.NewTimer(s.debounce)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			s.ackAndLog(msg)
		}
	}
}

func (s *CatalogRebuildService) ackAndLog(msg *events.Message) {
	event, err := events.DecodeCatalogUpdated(msg)
	if err != nil {
		s.logger.Warn().Err(err).Msg("undecodable catalog event")
	} else {
		s.logger.Debug().
			Str("operation", event.Operation).
			Str("fragrance_id", event.FragranceID).
			Msg("catalog changed")
	}
	msg.Ack()
}

func (s *CatalogRebuildService) rebuild(ctx context.Context) {
	buildCtx, cancel := context.WithTimeout(ctx, rebuildTimeout)
	defer cancel()

	start := time.Now()
	err := s.engine.Build(buildCtx)
	status := s.engine.Status()
	metrics.RecordEngineBuild(err, time.Since(start), status.ModelVersion, status.VocabularySize, status.Documents)
	if err != nil {
		s.logger.Error().Err(err).Msg("model rebuild failed")
		return
	}
	s.logger.Info().Uint64("model_version", status.ModelVersion).Msg("model rebuilt")
}

// String identifies the service in suture log messages.
func (s *CatalogRebuildService) String() string {
	return "catalog-rebuild"
}
