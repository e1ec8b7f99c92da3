// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package matcher

import (
	"math"
	"testing"
)

func TestPercentage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		score float64
		want  int
	}{
		{"zero", 0, 0},
		{"mid", 0.5, 50},
		{"rounds up", 0.346, 35},
		{"rounds down", 0.344, 34},
		{"full", 1.0, 100},
		{"above one clamps", 1.7, 100},
		{"negative clamps", -0.3, 0},
		{"positive infinity", math.Inf(1), 100},
		{"negative infinity", math.Inf(-1), 0},
		{"nan", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Percentage(tt.score); got != tt.want {
				t.Errorf("Percentage(%v) = %d, want %d", tt.score, got, tt.want)
			}
		})
	}
}

func TestAdjustPenalties(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	sweetStrong := computeTraits(Fragrance{
		BaseNotes: []string{"وانیل"},
		Intensity: IntensityStrong,
	})
	oudNight := computeTraits(Fragrance{
		MainAccords: []string{"عود"},
		Occasions:   []Occasion{OccasionNightOut},
	})
	softPlain := computeTraits(Fragrance{
		TopNotes:  []string{"لیمو"},
		Intensity: IntensitySoft,
	})

	tests := []struct {
		name    string
		profile Profile
		traits  itemTraits
		want    float64
	}{
		{
			name:    "no penalties",
			profile: Profile{},
			traits:  softPlain,
			want:    1.0,
		},
		{
			name:    "avoid very sweet",
			profile: Profile{AvoidVerySweet: true},
			traits:  sweetStrong,
			want:    1.0 - DefaultVerySweetPenalty,
		},
		{
			name:    "avoid oud",
			profile: Profile{AvoidOud: true},
			traits:  oudNight,
			want:    1.0 - DefaultOudPenalty,
		},
		{
			name:    "office context with strong item",
			profile: Profile{Contexts: []Context{ContextOffice}},
			traits:  sweetStrong,
			want:    1.0 - DefaultOfficeStrongPenalty,
		},
		{
			name:    "disliked note flat penalty",
			profile: Profile{NoteDislikes: []NoteCategory{NoteSweet}},
			traits:  sweetStrong,
			want:    1.0 - DefaultDislikedNotePenalty,
		},
		{
			name:    "daily moment with night out item",
			profile: Profile{Moments: []Moment{MomentDaily}},
			traits:  oudNight,
			want:    1.0 - DefaultDailyNightOutPenalty,
		},
		{
			name:    "light preference with strong item",
			profile: Profile{Intensities: []DesiredIntensity{DesiredLight}},
			traits:  sweetStrong,
			want:    1.0 - DefaultLightStrongPenalty,
		},
		{
			name:    "strong preference with soft item",
			profile: Profile{Intensities: []DesiredIntensity{DesiredStrong}},
			traits:  softPlain,
			want:    1.0 - DefaultStrongSoftPenalty,
		},
		{
			name: "penalties stack",
			profile: Profile{
				AvoidVerySweet: true,
				NoteDislikes:   []NoteCategory{NoteSweet},
				Intensities:    []DesiredIntensity{DesiredLight},
			},
			traits: sweetStrong,
			want:   1.0 - DefaultVerySweetPenalty - DefaultDislikedNotePenalty - DefaultLightStrongPenalty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, avoid := SplitTerms(ExpandProfile(tt.profile))
			pt := computeProfileTraits(tt.profile, avoid)
			got := cfg.adjust(1.0, pt, tt.traits, tt.profile)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("adjust = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdjustDislikedNoteFlatRegardlessOfOverlap(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	// Item overlaps two representative sweet labels; the penalty still
	// applies exactly once.
	traits := computeTraits(Fragrance{
		BaseNotes: []string{"وانیل", "کارامل"},
	})
	profile := Profile{NoteDislikes: []NoteCategory{NoteSweet}}
	_, avoid := SplitTerms(ExpandProfile(profile))
	pt := computeProfileTraits(profile, avoid)

	got := cfg.adjust(1.0, pt, traits, profile)
	want := 1.0 - DefaultDislikedNotePenalty
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("adjust = %v, want single flat penalty %v", got, want)
	}
}

func TestAdjustNotClamped(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	traits := computeTraits(Fragrance{
		BaseNotes: []string{"وانیل"},
		Intensity: IntensityStrong,
	})
	profile := Profile{
		AvoidVerySweet: true,
		NoteDislikes:   []NoteCategory{NoteSweet},
		Intensities:    []DesiredIntensity{DesiredLight},
		Contexts:       []Context{ContextOffice},
	}
	_, avoid := SplitTerms(ExpandProfile(profile))
	pt := computeProfileTraits(profile, avoid)

	// Base score 0: penalties push the adjusted score negative.
	got := cfg.adjust(0, pt, traits, profile)
	if got >= 0 {
		t.Errorf("adjusted score = %v, expected negative (no clamping before ranking)", got)
	}
}

func TestComputeTraitsOudDetection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		f    Fragrance
		want bool
	}{
		{"persian oud base note", Fragrance{BaseNotes: []string{"عود"}}, true},
		{"indian oud variant is a distinct label", Fragrance{BaseNotes: []string{"عود هندی"}}, false},
		{"latin oud accord", Fragrance{MainAccords: []string{"oud"}}, true},
		{"no oud", Fragrance{BaseNotes: []string{"وانیل"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := computeTraits(tt.f).hasOud; got != tt.want {
				t.Errorf("hasOud = %v, want %v", got, tt.want)
			}
		})
	}
}
