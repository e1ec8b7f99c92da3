// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package matcher

import (
	"strings"
	"unicode"
)

// noteNormalization folds known catalog label variants onto canonical
// labels before tokenization. Keys and values are raw display labels;
// the table is consulted on the trimmed input.
var noteNormalization = map[string]string{
	"وانیل ماداگاسکار": "وانیل",
	"ونیل":             "وانیل",
	"صندل":             "چوب صندل",
	"صندل سفید":        "چوب صندل",
}

// NormalizeLabel trims surrounding whitespace and folds known variants
// onto their canonical label. Unknown labels pass through trimmed.
func NormalizeLabel(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := noteNormalization[trimmed]; ok {
		return canonical
	}
	return trimmed
}

// TokenizeLabel converts a display label into a single vocabulary-safe
// token: internal whitespace runs collapse to one underscore and every
// rune outside Unicode letters, digits, and underscore is removed.
// Persian and other non-Latin letters survive unchanged.
func TokenizeLabel(label string) string {
	joined := strings.Join(strings.Fields(label), "_")
	var b strings.Builder
	b.Grow(len(joined))
	for _, r := range joined {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeNote runs the full pipeline: variant folding, then
// tokenization. The result is deterministic and idempotent.
func NormalizeNote(raw string) string {
	return TokenizeLabel(NormalizeLabel(raw))
}
