// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package matcher

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// stubProvider is a CatalogProvider backed by a fixed slice.
type stubProvider struct {
	items []Fragrance
	err   error
	calls int
}

func (s *stubProvider) Snapshot(_ context.Context) ([]Fragrance, error) {
	s.calls++
	return s.items, s.err
}

// stubReranker returns canned rankings.
type stubReranker struct {
	rankings []Ranking
	fallback bool
	called   bool
}

func (s *stubReranker) Rerank(_ context.Context, candidates []Candidate, _ Profile) ([]Ranking, bool) {
	s.called = true
	if s.fallback {
		return LocalRankings(candidates), true
	}
	return s.rankings, false
}

func testCatalog() []Fragrance {
	return []Fragrance{
		{
			ID:        "sweet-strong",
			Name:      "Sweet Strong",
			Brand:     "House A",
			BaseNotes: []string{"وانیل"},
			Intensity: IntensityStrong,
		},
		{
			ID:        "fresh-soft",
			Name:      "Fresh Soft",
			Brand:     "House B",
			BaseNotes: []string{"لیمو"},
			Intensity: IntensitySoft,
		},
		{
			ID:        "woody-night",
			Name:      "Woody Night",
			Brand:     "House C",
			BaseNotes: []string{"عود"},
			Occasions: []Occasion{OccasionNightOut},
		},
	}
}

func newTestEngine(t *testing.T, items []Fragrance) *Engine {
	t.Helper()
	e, err := NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.SetCatalogProvider(&stubProvider{items: items})
	return e
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Penalties.Oud = -1
	if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
		t.Error("expected error for negative penalty")
	}

	cfg = DefaultConfig()
	cfg.Limits.Default = 0
	if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
		t.Error("expected error for zero default limit")
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	e, err := NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := e.Build(context.Background()); !errors.Is(err, ErrNoProvider) {
		t.Errorf("expected ErrNoProvider, got %v", err)
	}

	e.SetCatalogProvider(&stubProvider{})
	if err := e.Build(context.Background()); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}

	e.SetCatalogProvider(&stubProvider{err: errors.New("store down")})
	if err := e.Build(context.Background()); err == nil {
		t.Error("expected provider error to propagate")
	}
}

func TestRecommendBuildsLazily(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{items: testCatalog()}
	e, err := NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.SetCatalogProvider(provider)

	if got := e.Status(); got.Built {
		t.Error("engine reported built before first use")
	}

	rec, err := e.Recommend(context.Background(), Profile{Moods: []Mood{MoodSweet}})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(rec.Results) == 0 {
		t.Fatal("expected results")
	}
	if provider.calls != 1 {
		t.Errorf("snapshot calls = %d, want 1", provider.calls)
	}

	// Second call reuses the model.
	if _, err := e.Recommend(context.Background(), Profile{}); err != nil {
		t.Fatalf("second Recommend: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("snapshot calls after reuse = %d, want 1", provider.calls)
	}
}

func TestRecommendPenaltyOrdering(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, []Fragrance{
		{ID: "1", Name: "Vanilla Strong", BaseNotes: []string{"وانیل"}, Intensity: IntensityStrong},
		{ID: "2", Name: "Citrus Soft", BaseNotes: []string{"لیمو"}, Intensity: IntensitySoft},
	})

	rec, err := e.Recommend(context.Background(), Profile{
		NoteDislikes: []NoteCategory{NoteSweet},
		Intensities:  []DesiredIntensity{DesiredLight},
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(rec.Results) != 2 {
		t.Fatalf("result count = %d, want 2", len(rec.Results))
	}

	// The vanilla item takes both the disliked-note and the light/strong
	// penalty; the citrus item takes neither and must rank first.
	if rec.Results[0].Fragrance.ID != "2" {
		t.Errorf("first result = %s, want 2", rec.Results[0].Fragrance.ID)
	}
	if rec.Results[1].Score >= rec.Results[0].Score {
		t.Errorf("penalized score %v should trail %v",
			rec.Results[1].Score, rec.Results[0].Score)
	}
}

func TestRecommendTieBreakByInsertionOrder(t *testing.T) {
	t.Parallel()

	// Identical items score identically; insertion order decides.
	e := newTestEngine(t, []Fragrance{
		{ID: "first", BaseNotes: []string{"رز"}},
		{ID: "second", BaseNotes: []string{"رز"}},
		{ID: "third", BaseNotes: []string{"رز"}},
	})

	rec, err := e.Recommend(context.Background(), Profile{Moods: []Mood{MoodFloral}})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	want := []string{"first", "second", "third"}
	for i, id := range want {
		if rec.Results[i].Fragrance.ID != id {
			t.Errorf("position %d = %s, want %s", i, rec.Results[i].Fragrance.ID, id)
		}
	}
}

func TestRecommendLimitBounds(t *testing.T) {
	t.Parallel()

	items := make([]Fragrance, 0, 15)
	for i := 0; i < 15; i++ {
		items = append(items, Fragrance{
			ID:        string(rune('a' + i)),
			BaseNotes: []string{"رز"},
		})
	}
	e := newTestEngine(t, items)

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, DefaultLimit},
		{"explicit limit", 3, 3},
		{"above max clamps to catalog size", 200, 15},
	}

	for _, tt := range tests {
		rec, err := e.Recommend(context.Background(), Profile{Limit: tt.limit})
		if err != nil {
			t.Fatalf("%s: Recommend: %v", tt.name, err)
		}
		if len(rec.Results) != tt.want {
			t.Errorf("%s: result count = %d, want %d", tt.name, len(rec.Results), tt.want)
		}
	}
}

func TestRecommendWithoutRerankerUsesFallback(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testCatalog())
	rec, err := e.Recommend(context.Background(), Profile{Moods: []Mood{MoodSweet}})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if !rec.UsedFallback {
		t.Error("expected used_fallback without a reranker")
	}
	for _, r := range rec.Results {
		if r.MatchPercentage != Percentage(r.Score) {
			t.Errorf("%s: percentage %d does not match local score %v",
				r.Fragrance.ID, r.MatchPercentage, r.Score)
		}
		if len(r.Reasons) != 0 {
			t.Errorf("%s: fallback result carries reasons %v", r.Fragrance.ID, r.Reasons)
		}
	}
}

func TestRecommendAppliesExternalRanking(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testCatalog())
	rr := &stubReranker{
		rankings: []Ranking{
			{ID: "woody-night", MatchPercentage: 91, Reasons: []string{"matches evening plans"}},
			{ID: "sweet-strong", MatchPercentage: 77},
			{ID: "fresh-soft", MatchPercentage: 40},
		},
	}
	e.SetReranker(rr)

	rec, err := e.Recommend(context.Background(), Profile{Moods: []Mood{MoodWoody}})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if !rr.called {
		t.Fatal("reranker was not invoked")
	}
	if rec.UsedFallback {
		t.Error("used_fallback should be false on external success")
	}
	if rec.Results[0].Fragrance.ID != "woody-night" {
		t.Errorf("first result = %s, want woody-night", rec.Results[0].Fragrance.ID)
	}
	if rec.Results[0].MatchPercentage != 91 {
		t.Errorf("external percentage = %d, want 91", rec.Results[0].MatchPercentage)
	}
	if len(rec.Results[0].Reasons) != 1 {
		t.Errorf("reasons = %v, want one entry", rec.Results[0].Reasons)
	}
}

// noopReranker is stateless so it can serve concurrent requests.
type noopReranker struct{}

func (noopReranker) Rerank(_ context.Context, candidates []Candidate, _ Profile) ([]Ranking, bool) {
	return LocalRankings(candidates), true
}

func TestSetRerankerConcurrentWithRecommend(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testCatalog())
	if err := e.Build(context.Background()); err != nil {
		t.Fatalf("build: %v", err)
	}

	// Swapping the reranker while requests are in flight must be safe;
	// the race detector flags unsynchronized access.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := e.Recommend(context.Background(), Profile{Moods: []Mood{MoodSweet}}); err != nil {
					t.Errorf("Recommend: %v", err)
					return
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			e.SetReranker(noopReranker{})
			e.SetReranker(nil)
		}
	}()
	wg.Wait()
}

func TestAssembleResultsCompletesPartialRanking(t *testing.T) {
	t.Parallel()

	candidates := []Candidate{
		{Fragrance: Fragrance{ID: "a"}, Score: 0.9, Percent: 90},
		{Fragrance: Fragrance{ID: "b"}, Score: 0.5, Percent: 50},
		{Fragrance: Fragrance{ID: "c"}, Score: 0.1, Percent: 10},
	}
	rankings := []Ranking{
		{ID: "b", MatchPercentage: 95},
		{ID: "unknown", MatchPercentage: 99},
	}

	results := assembleResults(candidates, rankings)
	if len(results) != 3 {
		t.Fatalf("result count = %d, want 3", len(results))
	}
	if results[0].Fragrance.ID != "b" || results[0].MatchPercentage != 95 {
		t.Errorf("first result = %s/%d, want b/95", results[0].Fragrance.ID, results[0].MatchPercentage)
	}
	// Unranked candidates follow in local order with local percentages.
	if results[1].Fragrance.ID != "a" || results[1].MatchPercentage != 90 {
		t.Errorf("second result = %s/%d, want a/90", results[1].Fragrance.ID, results[1].MatchPercentage)
	}
	if results[2].Fragrance.ID != "c" || results[2].MatchPercentage != 10 {
		t.Errorf("third result = %s/%d, want c/10", results[2].Fragrance.ID, results[2].MatchPercentage)
	}
}

func TestRebuildSwapsModel(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{items: testCatalog()[:1]}
	e, err := NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.SetCatalogProvider(provider)

	if err := e.Build(context.Background()); err != nil {
		t.Fatalf("first build: %v", err)
	}
	first := e.Status()
	if !first.Built || first.ModelVersion != 1 || first.Documents != 1 {
		t.Fatalf("unexpected first status: %+v", first)
	}

	provider.items = testCatalog()
	if err := e.Build(context.Background()); err != nil {
		t.Fatalf("second build: %v", err)
	}
	second := e.Status()
	if second.ModelVersion != 2 {
		t.Errorf("model version = %d, want 2", second.ModelVersion)
	}
	if second.Documents != 3 {
		t.Errorf("documents = %d, want 3", second.Documents)
	}
}

func TestFailedRebuildKeepsPreviousModel(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{items: testCatalog()}
	e, err := NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.SetCatalogProvider(provider)

	if err := e.Build(context.Background()); err != nil {
		t.Fatalf("build: %v", err)
	}

	provider.items = nil
	if err := e.Build(context.Background()); !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}

	status := e.Status()
	if !status.Built || status.ModelVersion != 1 {
		t.Errorf("previous model not retained: %+v", status)
	}
	if _, err := e.Recommend(context.Background(), Profile{}); err != nil {
		t.Errorf("Recommend after failed rebuild: %v", err)
	}
}

func TestRecommendProfileTextDebug(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testCatalog())
	rec, err := e.Recommend(context.Background(), Profile{
		Times:        []TimeOfDay{TimeAnytime},
		NoteDislikes: []NoteCategory{NoteLeather},
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if rec.ProfileText == "" {
		t.Fatal("profile text debug is empty")
	}
}
