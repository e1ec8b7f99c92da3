// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

// Package rerank implements the external re-ranking collaborator. A
// ranking service receives the locally scored candidates plus a compact
// preference summary and returns presentation-layer percentages with
// short natural-language reasons.
//
// The external call is strictly best-effort: a circuit breaker, a rate
// limiter, and a hard per-call timeout bound it, and every failure mode
// (missing credentials, open breaker, timeout, non-2xx status,
// malformed or empty body) degrades to the same deterministic fallback
// built from the local scores. Rerank never returns an error.
package rerank

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/scentmatch/scentmatch/internal/matcher"
	"github.com/scentmatch/scentmatch/internal/metrics"
)

// Caps on payload list sizes, keeping requests compact no matter how
// large the catalog entries are.
const (
	maxPayloadNotes   = 6
	maxPayloadLabels  = 8
	maxPayloadReasons = 3
)

const breakerName = "rerank-service"

// Config holds the re-ranker client settings.
type Config struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
	APIKey  string `koanf:"api_key"`

	// Timeout bounds each external call. Values outside (0, 30s] are
	// pulled back to the default.
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond and Burst configure the client-side limiter.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

// DefaultConfig returns production defaults with the service disabled.
func DefaultConfig() Config {
	return Config{
		Enabled:           false,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 5,
		Burst:             10,
	}
}

// Client calls the external ranking service. It implements
// matcher.Reranker and is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*rankResponse]
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient creates a re-ranker client.
//
// Circuit breaker configuration mirrors the other outbound clients:
// 3 requests in half-open state, 1 minute measurement window, 2 minute
// recovery timeout, opening at a 60% failure rate over at least 10
// requests.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 || cfg.Timeout > 30*time.Second {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultConfig().RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultConfig().Burst
	}

	componentLogger := logger.With().Str("component", "rerank").Logger()

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	breaker := gobreaker.NewCircuitBreaker[*rankResponse](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateString(from), stateString(to)
			componentLogger.Info().
				Str("from", fromStr).
				Str("to", toStr).
				Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:     componentLogger,
	}
}

// rankRequest is the wire payload sent to the ranking service.
type rankRequest struct {
	Candidates []candidatePayload `json:"candidates"`
	Profile    profilePayload     `json:"profile"`
}

type candidatePayload struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Brand   string   `json:"brand"`
	Family  string   `json:"family,omitempty"`
	Gender  string   `json:"gender,omitempty"`
	Notes   []string `json:"notes"`
	Percent int      `json:"local_percentage"`
}

type profilePayload struct {
	Moods          []string `json:"moods,omitempty"`
	Moments        []string `json:"moments,omitempty"`
	Times          []string `json:"times,omitempty"`
	Intensities    []string `json:"intensity,omitempty"`
	Styles         []string `json:"styles,omitempty"`
	NoteLikes      []string `json:"note_likes,omitempty"`
	NoteDislikes   []string `json:"note_dislikes,omitempty"`
	AvoidVerySweet bool     `json:"avoid_very_sweet,omitempty"`
	AvoidOud       bool     `json:"avoid_oud,omitempty"`
}

// rankResponse is the wire response from the ranking service.
type rankResponse struct {
	Rankings []rankEntry `json:"rankings"`
}

type rankEntry struct {
	ID              string   `json:"id"`
	MatchPercentage int      `json:"match_percentage"`
	Reasons         []string `json:"reasons"`
}

// Rerank implements matcher.Reranker. The returned ranking is always
// complete: entries missing from the external response are filled from
// the local scores, and any failure yields the full local fallback with
// usedFallback = true.
func (c *Client) Rerank(ctx context.Context, candidates []matcher.Candidate, profile matcher.Profile) ([]matcher.Ranking, bool) {
	if len(candidates) == 0 {
		return []matcher.Ranking{}, true
	}
	if !c.cfg.Enabled || c.cfg.URL == "" || c.cfg.APIKey == "" {
		return c.fallback(candidates, "not_configured", nil)
	}

	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	if err := c.limiter.Wait(callCtx); err != nil {
		return c.fallback(candidates, "rate_limited", err)
	}

	resp, err := c.breaker.Execute(func() (*rankResponse, error) {
		return c.post(callCtx, buildRequest(candidates, profile))
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		return c.fallback(candidates, "breaker_open", err)
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		return c.fallback(candidates, "upstream_error", err)
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()

	if len(resp.Rankings) == 0 {
		return c.fallback(candidates, "empty_response", nil)
	}

	metrics.RecordRerank("ok", time.Since(start))
	return mergeRankings(candidates, resp.Rankings), false
}

// post sends one ranking request. Any non-2xx status or decode problem
// is an error; the breaker counts it as a failure.
func (c *Client) post(ctx context.Context, payload rankRequest) (*rankResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal rank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build rank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rank request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("rank service returned status %d", resp.StatusCode)
	}

	var parsed rankResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode rank response: %w", err)
	}
	return &parsed, nil
}

// fallback returns the local ranking and records the outcome. Every
// failure path funnels through here so callers see identical behavior
// regardless of what went wrong upstream.
func (c *Client) fallback(candidates []matcher.Candidate, outcome string, err error) ([]matcher.Ranking, bool) {
	evt := c.logger.Debug().Str("outcome", outcome)
	if err != nil {
		evt = evt.Err(err)
	}
	evt.Msg("falling back to local ranking")
	metrics.RecordRerank(outcome, 0)
	return matcher.LocalRankings(candidates), true
}

// buildRequest assembles the capped wire payload.
func buildRequest(candidates []matcher.Candidate, profile matcher.Profile) rankRequest {
	out := rankRequest{
		Candidates: make([]candidatePayload, len(candidates)),
		Profile: profilePayload{
			Moods:          capStrings(profile.Moods, maxPayloadLabels),
			Moments:        capStrings(profile.Moments, maxPayloadLabels),
			Times:          capStrings(profile.Times, maxPayloadLabels),
			Intensities:    capStrings(profile.Intensities, maxPayloadLabels),
			Styles:         capStrings(profile.Styles, maxPayloadLabels),
			NoteLikes:      capStrings(profile.NoteLikes, maxPayloadLabels),
			NoteDislikes:   capStrings(profile.NoteDislikes, maxPayloadLabels),
			AvoidVerySweet: profile.AvoidVerySweet,
			AvoidOud:       profile.AvoidOud,
		},
	}
	for i, c := range candidates {
		f := c.Fragrance
		out.Candidates[i] = candidatePayload{
			ID:      f.ID,
			Name:    f.Name,
			Brand:   f.Brand,
			Family:  f.Family,
			Gender:  string(f.Gender),
			Notes:   capNotes(f, maxPayloadNotes),
			Percent: c.Percent,
		}
	}
	return out
}

// capNotes collects the item's notes top-down (top, heart, base,
// accords) up to the cap.
func capNotes(f matcher.Fragrance, limit int) []string {
	notes := make([]string, 0, limit)
	for _, group := range [][]string{f.TopNotes, f.HeartNotes, f.BaseNotes, f.MainAccords} {
		for _, n := range group {
			if len(notes) >= limit {
				return notes
			}
			notes = append(notes, n)
		}
	}
	return notes
}

func capStrings[T ~string](values []T, limit int) []string {
	if len(values) == 0 {
		return nil
	}
	if len(values) > limit {
		values = values[:limit]
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// mergeRankings applies the external ranking on top of the local one.
// External entries for unknown IDs are ignored; candidates the service
// skipped keep their local percentage and position after the ranked
// ones. Percentages are clamped to [0,100] and reasons truncated.
func mergeRankings(candidates []matcher.Candidate, entries []rankEntry) []matcher.Ranking {
	known := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		known[c.Fragrance.ID] = struct{}{}
	}

	out := make([]matcher.Ranking, 0, len(candidates))
	ranked := make(map[string]struct{}, len(candidates))
	for _, e := range entries {
		if _, ok := known[e.ID]; !ok {
			continue
		}
		if _, dup := ranked[e.ID]; dup {
			continue
		}
		ranked[e.ID] = struct{}{}

		reasons := e.Reasons
		if len(reasons) > maxPayloadReasons {
			reasons = reasons[:maxPayloadReasons]
		}
		out = append(out, matcher.Ranking{
			ID:              e.ID,
			MatchPercentage: clampPercent(e.MatchPercentage),
			Reasons:         reasons,
		})
	}

	for _, c := range candidates {
		if _, ok := ranked[c.Fragrance.ID]; ok {
			continue
		}
		out = append(out, matcher.Ranking{
			ID:              c.Fragrance.ID,
			MatchPercentage: c.Percent,
		})
	}
	return out
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func stateFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
