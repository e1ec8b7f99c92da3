// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package matcher

import "fmt"

// Default penalty magnitudes. Each is subtracted from the cosine score
// when its condition holds; scores are never clamped before ranking.
const (
	DefaultVerySweetPenalty     = 0.2
	DefaultOudPenalty           = 0.2
	DefaultOfficeStrongPenalty  = 0.15
	DefaultDislikedNotePenalty  = 0.2
	DefaultDailyNightOutPenalty = 0.05
	DefaultLightStrongPenalty   = 0.15
	DefaultStrongSoftPenalty    = 0.1
)

// Default result-limit bounds.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// PenaltyConfig holds the heuristic score adjustments applied after the
// cosine pass. All values must be non-negative.
type PenaltyConfig struct {
	// VerySweet applies when the profile avoids very sweet fragrances and
	// the item's note set intersects the sweet label set.
	VerySweet float64 `koanf:"very_sweet"`

	// Oud applies when the profile avoids oud and the item carries an oud
	// note or accord.
	Oud float64 `koanf:"oud"`

	// OfficeStrong applies when the profile includes the office context
	// and the item projects strong or very strong.
	OfficeStrong float64 `koanf:"office_strong"`

	// DislikedNote applies once, flat, when any disliked note category
	// matches the item, regardless of how many categories match.
	DislikedNote float64 `koanf:"disliked_note"`

	// DailyNightOut applies when the profile picks the daily moment and
	// the item is tagged for nights out.
	DailyNightOut float64 `koanf:"daily_night_out"`

	// LightStrong applies when the profile wants a light fragrance and
	// the item projects strong or very strong.
	LightStrong float64 `koanf:"light_strong"`

	// StrongSoft applies when the profile wants a strong fragrance and
	// the item projects soft.
	StrongSoft float64 `koanf:"strong_soft"`
}

// LimitConfig bounds the number of results per request.
type LimitConfig struct {
	Default int `koanf:"default"`
	Max     int `koanf:"max"`
}

// Config holds all tunable engine parameters.
type Config struct {
	Penalties PenaltyConfig `koanf:"penalties"`
	Limits    LimitConfig   `koanf:"limits"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Penalties: PenaltyConfig{
			VerySweet:     DefaultVerySweetPenalty,
			Oud:           DefaultOudPenalty,
			OfficeStrong:  DefaultOfficeStrongPenalty,
			DislikedNote:  DefaultDislikedNotePenalty,
			DailyNightOut: DefaultDailyNightOutPenalty,
			LightStrong:   DefaultLightStrongPenalty,
			StrongSoft:    DefaultStrongSoftPenalty,
		},
		Limits: LimitConfig{
			Default: DefaultLimit,
			Max:     MaxLimit,
		},
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	penalties := map[string]float64{
		"very_sweet":      c.Penalties.VerySweet,
		"oud":             c.Penalties.Oud,
		"office_strong":   c.Penalties.OfficeStrong,
		"disliked_note":   c.Penalties.DislikedNote,
		"daily_night_out": c.Penalties.DailyNightOut,
		"light_strong":    c.Penalties.LightStrong,
		"strong_soft":     c.Penalties.StrongSoft,
	}
	for name, v := range penalties {
		if v < 0 {
			return fmt.Errorf("penalty %s must be non-negative, got %v", name, v)
		}
	}
	if c.Limits.Default < 1 {
		return fmt.Errorf("limits.default must be at least 1, got %d", c.Limits.Default)
	}
	if c.Limits.Max < c.Limits.Default {
		return fmt.Errorf("limits.max (%d) must be >= limits.default (%d)", c.Limits.Max, c.Limits.Default)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
