// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package matcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Engine errors.
var (
	// ErrEmptyCatalog is returned when a build finds no catalog items.
	ErrEmptyCatalog = errors.New("matcher: catalog snapshot is empty")

	// ErrNoProvider is returned when the engine has no catalog provider.
	ErrNoProvider = errors.New("matcher: no catalog provider configured")
)

// model is one immutable fitted generation. A rebuild constructs a new
// model off to the side and swaps it in atomically; in-flight Recommend
// calls keep reading the generation they started with.
type model struct {
	items   []Fragrance
	vectors []Vector
	traits  []itemTraits
	space   *VectorSpace
	version uint64
	builtAt time.Time
}

// Engine matches preference profiles against the fragrance catalog.
//
// The engine is safe for concurrent use. Recommend reads the current
// model through an atomic pointer; Build fits a replacement and swaps it
// in without blocking readers.
type Engine struct {
	config *Config
	logger zerolog.Logger

	// provider is guarded by buildMu: it is only read inside
	// buildLocked, which always runs with buildMu held.
	provider CatalogProvider

	// reranker has its own lock so Recommend never waits on a build.
	rerankMu sync.RWMutex
	reranker Reranker

	current atomic.Pointer[model]
	buildMu sync.Mutex
	version atomic.Uint64

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewEngine creates an engine with the given configuration. A nil config
// uses defaults. The catalog provider must be set before the first
// Recommend or Build call.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "matcher").Logger(),
	}, nil
}

// SetCatalogProvider sets the snapshot source used by Build.
func (e *Engine) SetCatalogProvider(p CatalogProvider) {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	e.provider = p
}

// SetReranker sets the optional presentation re-ranker. When unset,
// rankings come from local scores and used_fallback is reported true.
func (e *Engine) SetReranker(r Reranker) {
	e.rerankMu.Lock()
	defer e.rerankMu.Unlock()
	e.reranker = r
}

func (e *Engine) currentReranker() Reranker {
	e.rerankMu.RLock()
	defer e.rerankMu.RUnlock()
	return e.reranker
}

// Build pulls a catalog snapshot, tokenizes it, fits a fresh vector
// space and swaps the new model in atomically. It fails fast on an empty
// catalog, leaving any previous model in place.
func (e *Engine) Build(ctx context.Context) error {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	return e.buildLocked(ctx)
}

func (e *Engine) buildLocked(ctx context.Context) error {
	if e.provider == nil {
		return ErrNoProvider
	}
	start := time.Now()

	items, err := e.provider.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("catalog snapshot: %w", err)
	}
	if len(items) == 0 {
		return ErrEmptyCatalog
	}

	docs := make([][]string, len(items))
	for i, item := range items {
		docs[i] = Tokens(TokenizeFragrance(item))
	}

	space, err := FitVectorSpace(docs)
	if err != nil {
		return fmt.Errorf("fit vector space: %w", err)
	}

	vectors := make([]Vector, len(items))
	traits := make([]itemTraits, len(items))
	for i := range items {
		vectors[i] = space.Transform(docs[i])
		traits[i] = computeTraits(items[i])
	}

	m := &model{
		items:   items,
		vectors: vectors,
		traits:  traits,
		space:   space,
		version: e.version.Add(1),
		builtAt: time.Now().UTC(),
	}
	e.current.Store(m)

	e.logger.Info().
		Uint64("model_version", m.version).
		Int("documents", len(items)).
		Int("vocabulary_size", space.VocabularySize()).
		Dur("duration", time.Since(start)).
		Msg("catalog model built")
	return nil
}

// ensureModel returns the current model, building one on first use.
func (e *Engine) ensureModel(ctx context.Context) (*model, error) {
	if m := e.current.Load(); m != nil {
		return m, nil
	}

	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	if m := e.current.Load(); m != nil {
		return m, nil
	}
	if err := e.buildLocked(ctx); err != nil {
		return nil, err
	}
	return e.current.Load(), nil
}

// Recommend scores the whole catalog against the profile and returns the
// top results after penalty adjustment and the optional re-rank pass.
func (e *Engine) Recommend(ctx context.Context, profile Profile) (*Recommendation, error) {
	e.requestCount.Add(1)

	m, err := e.ensureModel(ctx)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	limit := e.boundLimit(profile.Limit)

	terms := ExpandProfile(profile)
	match, avoid := SplitTerms(terms)

	queryVec := m.space.Transform(Tokens(match))
	pt := computeProfileTraits(profile, avoid)

	type scored struct {
		index int
		score float64
	}
	all := make([]scored, len(m.items))
	for i := range m.items {
		base := Dot(queryVec, m.vectors[i])
		all[i] = scored{index: i, score: e.config.adjust(base, pt, m.traits[i], profile)}
	}

	// Stable sort: equal scores keep catalog insertion order.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].score > all[j].score
	})
	if len(all) > limit {
		all = all[:limit]
	}

	candidates := make([]Candidate, len(all))
	for i, s := range all {
		candidates[i] = Candidate{
			Fragrance: m.items[s.index],
			Score:     s.score,
			Percent:   Percentage(s.score),
		}
	}

	var rankings []Ranking
	usedFallback := true
	if reranker := e.currentReranker(); reranker != nil {
		rankings, usedFallback = reranker.Rerank(ctx, candidates, profile)
	} else {
		rankings = LocalRankings(candidates)
	}

	return &Recommendation{
		Results:      assembleResults(candidates, rankings),
		ProfileText:  strings.Join(Tokens(terms), " "),
		UsedFallback: usedFallback,
		ModelVersion: m.version,
	}, nil
}

// assembleResults joins the ranking back onto the candidates. Rankings
// for unknown IDs are dropped; candidates the ranking missed are
// appended with their local percentage so the caller always sees a
// complete result set.
func assembleResults(candidates []Candidate, rankings []Ranking) []Result {
	byID := make(map[string]Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.Fragrance.ID] = c
	}

	results := make([]Result, 0, len(candidates))
	used := make(map[string]struct{}, len(candidates))
	for _, r := range rankings {
		c, ok := byID[r.ID]
		if !ok {
			continue
		}
		if _, dup := used[r.ID]; dup {
			continue
		}
		used[r.ID] = struct{}{}
		results = append(results, Result{
			Fragrance:       c.Fragrance,
			Score:           c.Score,
			MatchPercentage: r.MatchPercentage,
			Reasons:         r.Reasons,
		})
	}
	for _, c := range candidates {
		if _, ok := used[c.Fragrance.ID]; ok {
			continue
		}
		results = append(results, Result{
			Fragrance:       c.Fragrance,
			Score:           c.Score,
			MatchPercentage: c.Percent,
		})
	}
	return results
}

func (e *Engine) boundLimit(limit int) int {
	if limit <= 0 {
		return e.config.Limits.Default
	}
	if limit > e.config.Limits.Max {
		return e.config.Limits.Max
	}
	return limit
}

// Status reports the currently active model generation.
func (e *Engine) Status() Status {
	m := e.current.Load()
	if m == nil {
		return Status{}
	}
	return Status{
		Built:          true,
		ModelVersion:   m.version,
		BuiltAt:        m.builtAt.Format(time.RFC3339),
		Documents:      m.space.DocumentCount(),
		VocabularySize: m.space.VocabularySize(),
	}
}

// Stats returns request counters since process start.
func (e *Engine) Stats() (requests, errors int64) {
	return e.requestCount.Load(), e.errorCount.Load()
}
