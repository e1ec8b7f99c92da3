// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package matcher

// Repetition is the weighting mechanism: the vector model is
// frequency-based, so a term emitted three times carries triple weight.
const (
	baseNoteWeight  = 3
	heartNoteWeight = 2
	topNoteWeight   = 1
	accordWeight    = 2
)

// TokenizeFragrance converts a catalog item into its weighted term
// sequence. Every note is emitted both under its group-specific kind and
// the generic note kind so a top note and a base note can match the same
// profile term. An item with no extractable fields yields an empty
// sequence, never an error.
func TokenizeFragrance(f Fragrance) []Term {
	var terms []Term

	if f.Family != "" {
		terms = append(terms, Term{KindFamily, TokenizeLabel(f.Family)})
	}

	for _, acc := range f.MainAccords {
		n := NormalizeNote(acc)
		for i := 0; i < accordWeight; i++ {
			terms = append(terms, Term{KindAccord, n}, Term{KindNote, n})
		}
	}

	for _, note := range f.TopNotes {
		n := NormalizeNote(note)
		for i := 0; i < topNoteWeight; i++ {
			terms = append(terms, Term{KindTopNote, n}, Term{KindNote, n})
		}
	}

	for _, note := range f.HeartNotes {
		n := NormalizeNote(note)
		for i := 0; i < heartNoteWeight; i++ {
			terms = append(terms, Term{KindHeartNote, n}, Term{KindNote, n})
		}
	}

	for _, note := range f.BaseNotes {
		n := NormalizeNote(note)
		for i := 0; i < baseNoteWeight; i++ {
			terms = append(terms, Term{KindBaseNote, n}, Term{KindNote, n})
		}
	}

	if f.Gender != GenderUnspecified {
		terms = append(terms, Term{KindGender, string(f.Gender)})
	}
	for _, s := range f.Seasons {
		terms = append(terms, Term{KindSeason, string(s)})
	}
	for _, o := range f.Occasions {
		terms = append(terms, Term{KindOccasion, string(o)})
	}
	if f.Intensity != IntensityUnspecified {
		terms = append(terms, Term{KindIntensity, TokenizeLabel(string(f.Intensity))})
	}

	return terms
}

// ExpandProfile converts a preference profile into its weighted term
// sequence using the taxonomy tables. Canonical and legacy fields are
// additive. Disliked categories come out as avoidance terms, which the
// engine keeps away from the vector space. Unmapped or empty selections
// emit nothing.
func ExpandProfile(p Profile) []Term {
	var terms []Term

	// Moods contribute both a generic note term and an accord term per
	// representative label so they align with item accord weighting.
	for _, mood := range p.Moods {
		for _, label := range moodNotes[mood] {
			n := NormalizeNote(label)
			terms = append(terms, Term{KindNote, n}, Term{KindAccord, n})
		}
	}

	for _, moment := range p.Moments {
		for _, label := range momentNotes[moment] {
			terms = append(terms, Term{KindNote, NormalizeNote(label)})
		}
		for _, occ := range momentOccasions[moment] {
			terms = append(terms, Term{KindOccasion, string(occ)})
		}
	}

	// "anytime" maps to both day and night occasions; the table encodes
	// the union so the selection widens results instead of narrowing them.
	for _, tod := range p.Times {
		for _, occ := range timeOccasions[tod] {
			terms = append(terms, Term{KindOccasion, string(occ)})
		}
	}

	for _, want := range p.Intensities {
		for _, level := range desiredIntensities[want] {
			terms = append(terms, Term{KindIntensity, TokenizeLabel(string(level))})
		}
	}

	// "any" maps to an empty gender list: no bias terms.
	for _, style := range p.Styles {
		for _, g := range styleGenders[style] {
			terms = append(terms, Term{KindGender, string(g)})
		}
	}

	for _, category := range p.NoteLikes {
		for _, label := range noteCategoryLabels[category] {
			terms = append(terms, Term{KindNote, NormalizeNote(label)})
		}
	}

	for _, category := range p.NoteDislikes {
		for _, label := range noteCategoryLabels[category] {
			terms = append(terms, Term{KindAvoid, NormalizeNote(label)})
		}
	}

	for _, ctx := range p.Contexts {
		for _, label := range contextNotes[ctx] {
			terms = append(terms, Term{KindNote, NormalizeNote(label)})
		}
		for _, occ := range contextOccasions[ctx] {
			terms = append(terms, Term{KindOccasion, string(occ)})
		}
	}

	// Sliders repeat the axis marker and its note terms once per point,
	// giving a magnitude-proportional contribution.
	for i := 0; i < clampSlider(p.Sweetness); i++ {
		terms = append(terms, Term{KindSweetAxis, ""})
		for _, label := range sweetAxisNotes {
			terms = append(terms, Term{KindSweetAxisNote, NormalizeNote(label)})
		}
	}
	for i := 0; i < clampSlider(p.Freshness); i++ {
		terms = append(terms, Term{KindFreshAxis, ""})
		for _, label := range freshAxisNotes {
			terms = append(terms, Term{KindFreshAxisNote, NormalizeNote(label)})
		}
	}

	if p.Strength != IntensityUnspecified {
		terms = append(terms, Term{KindIntensity, TokenizeLabel(string(p.Strength))})
	}

	if p.Gender != GenderUnspecified && p.Gender != GenderUnisex {
		terms = append(terms, Term{KindGender, string(p.Gender)})
	}

	return terms
}

func clampSlider(v int) int {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}
