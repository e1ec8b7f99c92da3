// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package matcher

import (
	"strings"
	"testing"
)

func countToken(terms []Term, token string) int {
	n := 0
	for _, t := range terms {
		if t.Token() == token {
			n++
		}
	}
	return n
}

func TestTokenizeFragranceWeights(t *testing.T) {
	t.Parallel()

	f := Fragrance{
		ID:          "p1",
		Name:        "Test",
		Brand:       "Brand",
		Family:      "oriental",
		Gender:      GenderMale,
		TopNotes:    []string{"لیمو"},
		HeartNotes:  []string{"رز"},
		BaseNotes:   []string{"وانیل"},
		MainAccords: []string{"کهربا"},
		Seasons:     []Season{SeasonWinter},
		Occasions:   []Occasion{OccasionNightOut},
		Intensity:   IntensityStrong,
	}

	terms := TokenizeFragrance(f)

	checks := []struct {
		token string
		want  int
	}{
		{"family_oriental", 1},
		{"accord_کهربا", 2},
		{"topnote_لیمو", 1},
		{"heartnote_رز", 2},
		{"basenote_وانیل", 3},
		// Generic bucket: accords 2x + top 1x + heart 2x + base 3x.
		{"note_کهربا", 2},
		{"note_لیمو", 1},
		{"note_رز", 2},
		{"note_وانیل", 3},
		{"gender_male", 1},
		{"season_winter", 1},
		{"occasion_night_out", 1},
		{"intensity_strong", 1},
	}
	for _, c := range checks {
		if got := countToken(terms, c.token); got != c.want {
			t.Errorf("token %q count = %d, want %d", c.token, got, c.want)
		}
	}
}

func TestTokenizeFragranceEmpty(t *testing.T) {
	t.Parallel()

	terms := TokenizeFragrance(Fragrance{ID: "empty"})
	if len(terms) != 0 {
		t.Errorf("expected zero terms for empty item, got %d: %v", len(terms), Tokens(terms))
	}
}

func TestExpandProfileAnytimeCoversDayAndNight(t *testing.T) {
	t.Parallel()

	terms := ExpandProfile(Profile{Times: []TimeOfDay{TimeAnytime}})
	if countToken(terms, "occasion_daytime") != 1 {
		t.Error("anytime expansion missing occasion_daytime")
	}
	if countToken(terms, "occasion_night") != 1 {
		t.Error("anytime expansion missing occasion_night")
	}
}

func TestExpandProfileAnyStyleEmitsNoGenderTerms(t *testing.T) {
	t.Parallel()

	terms := ExpandProfile(Profile{Styles: []Style{StyleAny}})
	for _, term := range terms {
		if term.Kind == KindGender {
			t.Errorf("style any produced gender term %q", term.Token())
		}
	}
}

func TestExpandProfileMoodEmitsNoteAndAccord(t *testing.T) {
	t.Parallel()

	terms := ExpandProfile(Profile{Moods: []Mood{MoodSweet}})
	if countToken(terms, "note_وانیل") != 1 {
		t.Error("sweet mood missing note_وانیل")
	}
	if countToken(terms, "accord_وانیل") != 1 {
		t.Error("sweet mood missing accord_وانیل")
	}
}

func TestExpandProfileSliders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		sweetness     int
		wantAxisCount int
	}{
		{"zero emits nothing", 0, 0},
		{"three repeats three times", 3, 3},
		{"clamped above five", 9, 5},
		{"clamped below zero", -2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			terms := ExpandProfile(Profile{Sweetness: tt.sweetness})
			if got := countToken(terms, "axis_sweet"); got != tt.wantAxisCount {
				t.Errorf("axis_sweet count = %d, want %d", got, tt.wantAxisCount)
			}
			// Each slider point repeats every representative note once.
			if got := countToken(terms, "axis_sweet_note_وانیل"); got != tt.wantAxisCount {
				t.Errorf("axis_sweet_note_وانیل count = %d, want %d", got, tt.wantAxisCount)
			}
		})
	}
}

func TestExpandProfileDislikesAreAvoidanceTerms(t *testing.T) {
	t.Parallel()

	terms := ExpandProfile(Profile{NoteDislikes: []NoteCategory{NoteSweet}})
	match, avoid := SplitTerms(terms)
	if len(match) != 0 {
		t.Errorf("dislikes leaked into matching terms: %v", Tokens(match))
	}
	if len(avoid) != len(noteCategoryLabels[NoteSweet]) {
		t.Errorf("avoid term count = %d, want %d", len(avoid), len(noteCategoryLabels[NoteSweet]))
	}
	for _, term := range avoid {
		if !strings.HasPrefix(term.Token(), "avoid_") {
			t.Errorf("avoidance term rendered as %q", term.Token())
		}
	}
}

func TestExpandProfileLegacyFieldsAdditive(t *testing.T) {
	t.Parallel()

	terms := ExpandProfile(Profile{
		Moods:    []Mood{MoodFresh},
		Contexts: []Context{ContextOffice},
		Strength: IntensityVeryStrong,
		Gender:   GenderFemale,
	})

	if countToken(terms, "occasion_office") != 1 {
		t.Error("legacy office context missing occasion_office")
	}
	if countToken(terms, "note_ترنج") == 0 {
		t.Error("fresh mood contributed no bergamot note")
	}
	if countToken(terms, "intensity_very_strong") != 1 {
		t.Error("legacy strength missing intensity term")
	}
	if countToken(terms, "gender_female") != 1 {
		t.Error("legacy gender missing gender term")
	}
}

func TestExpandProfileUnisexGenderEmitsNothing(t *testing.T) {
	t.Parallel()

	terms := ExpandProfile(Profile{Gender: GenderUnisex})
	if len(terms) != 0 {
		t.Errorf("unisex gender should emit no terms, got %v", Tokens(terms))
	}
}

func TestExpandProfileEmpty(t *testing.T) {
	t.Parallel()

	if terms := ExpandProfile(Profile{}); len(terms) != 0 {
		t.Errorf("empty profile should expand to nothing, got %v", Tokens(terms))
	}
}
