// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package matcher

import "math"

// itemTraits holds per-item attributes precomputed at model build time
// so penalty checks are set lookups during scoring.
type itemTraits struct {
	// notes is the union of normalized top, heart, and base notes plus
	// main accords.
	notes map[string]struct{}

	// verySweet marks items whose note set intersects the sweet label
	// set; hasOud marks items carrying an oud note or accord.
	verySweet bool
	hasOud    bool

	occasions map[Occasion]struct{}
	intensity Intensity
}

// computeTraits precomputes the penalty-relevant attributes of one item.
func computeTraits(f Fragrance) itemTraits {
	notes := make(map[string]struct{})
	for _, group := range [][]string{f.TopNotes, f.HeartNotes, f.BaseNotes, f.MainAccords} {
		for _, raw := range group {
			notes[NormalizeNote(raw)] = struct{}{}
		}
	}

	sweet := false
	for _, label := range sweetAxisNotes {
		if _, ok := notes[NormalizeNote(label)]; ok {
			sweet = true
			break
		}
	}

	oud := false
	for _, label := range oudLabels {
		if _, ok := notes[label]; ok {
			oud = true
			break
		}
	}

	occasions := make(map[Occasion]struct{}, len(f.Occasions))
	for _, o := range f.Occasions {
		occasions[o] = struct{}{}
	}

	return itemTraits{
		notes:     notes,
		verySweet: sweet,
		hasOud:    oud,
		occasions: occasions,
		intensity: f.Intensity,
	}
}

// profileTraits holds the per-request scoring context derived once from
// the profile, shared across all items.
type profileTraits struct {
	avoidNotes    map[string]struct{}
	officeContext bool
	dailyMoment   bool
	wantsLight    bool
	wantsStrong   bool
}

func computeProfileTraits(p Profile, avoid []Term) profileTraits {
	t := profileTraits{
		avoidNotes: make(map[string]struct{}, len(avoid)),
	}
	for _, term := range avoid {
		t.avoidNotes[term.Value] = struct{}{}
	}
	for _, ctx := range p.Contexts {
		if ctx == ContextOffice {
			t.officeContext = true
		}
	}
	for _, m := range p.Moments {
		if m == MomentDaily {
			t.dailyMoment = true
		}
	}
	for _, want := range p.Intensities {
		switch want {
		case DesiredLight:
			t.wantsLight = true
		case DesiredStrong:
			t.wantsStrong = true
		}
	}
	return t
}

func strongOrVeryStrong(i Intensity) bool {
	return i == IntensityStrong || i == IntensityVeryStrong
}

// adjust applies the heuristic penalties to a base cosine score in a
// fixed order. Scores are deliberately not clamped: negative adjusted
// scores stay meaningful for ordering.
func (c *Config) adjust(base float64, pt profileTraits, it itemTraits, p Profile) float64 {
	score := base

	if p.AvoidVerySweet && it.verySweet {
		score -= c.Penalties.VerySweet
	}

	if p.AvoidOud && it.hasOud {
		score -= c.Penalties.Oud
	}

	if pt.officeContext && strongOrVeryStrong(it.intensity) {
		score -= c.Penalties.OfficeStrong
	}

	// Disliked-note overlap is a flat penalty, applied once no matter
	// how many disliked labels the item carries.
	if len(pt.avoidNotes) > 0 {
		for n := range pt.avoidNotes {
			if _, ok := it.notes[n]; ok {
				score -= c.Penalties.DislikedNote
				break
			}
		}
	}

	if pt.dailyMoment {
		if _, ok := it.occasions[OccasionNightOut]; ok {
			score -= c.Penalties.DailyNightOut
		}
	}

	if pt.wantsLight && strongOrVeryStrong(it.intensity) {
		score -= c.Penalties.LightStrong
	}
	if pt.wantsStrong && it.intensity == IntensitySoft {
		score -= c.Penalties.StrongSoft
	}

	return score
}

// Percentage maps an adjusted score to a bounded display percentage.
// Infinities clamp to the bounds and NaN maps to zero, guarding against
// malformed upstream values.
func Percentage(score float64) int {
	switch {
	case math.IsNaN(score):
		return 0
	case math.IsInf(score, 1):
		return 100
	case math.IsInf(score, -1):
		return 0
	}
	p := int(math.Round(score * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
