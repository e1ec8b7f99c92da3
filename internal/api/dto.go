// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package api

import (
	"github.com/scentmatch/scentmatch/internal/matcher"
)

// defaultSliderValue is the neutral slider position used when a request
// omits a preference slider.
const defaultSliderValue = 3

// RecommendRequest is the POST /api/v1/recommendations body. Canonical
// questionnaire fields and legacy free-form fields are both accepted;
// every populated field contributes to the profile.
type RecommendRequest struct {
	Moods        []string `json:"moods" validate:"omitempty,dive,oneof=fresh sweet warm floral woody"`
	Moments      []string `json:"moments" validate:"omitempty,dive,oneof=daily evening outdoor gift"`
	Times        []string `json:"times" validate:"omitempty,dive,oneof=day night anytime"`
	Intensities  []string `json:"intensity" validate:"omitempty,dive,oneof=light medium strong"`
	Styles       []string `json:"styles" validate:"omitempty,dive,oneof=feminine masculine unisex any"`
	NoteLikes    []string `json:"noteLikes" validate:"omitempty,dive,note_category"`
	NoteDislikes []string `json:"noteDislikes" validate:"omitempty,dive,note_category"`

	Contexts []string `json:"contexts" validate:"omitempty,dive,oneof=office casual_day date_night club special_event"`
	Strength string   `json:"strength" validate:"omitempty,oneof=soft moderate strong very_strong"`
	Gender   string   `json:"gender" validate:"omitempty,oneof=male female unisex"`

	// Sliders are pointers so an omitted slider is distinguishable from
	// an explicit value. Omitted sliders default to the neutral position;
	// supplied values must sit in the questionnaire's 1..5 range.
	Sweetness *int `json:"sweetness" validate:"omitempty,min=1,max=5"`
	Freshness *int `json:"freshness" validate:"omitempty,min=1,max=5"`

	AvoidVerySweet bool `json:"avoid_very_sweet"`
	AvoidOud       bool `json:"avoid_oud"`

	Limit int `json:"limit" validate:"omitempty,min=1,max=50"`
}

// ToProfile converts the validated request into a matcher profile.
func (req *RecommendRequest) ToProfile() matcher.Profile {
	profile := matcher.Profile{
		Moods:          toEnums[matcher.Mood](req.Moods),
		Moments:        toEnums[matcher.Moment](req.Moments),
		Times:          toEnums[matcher.TimeOfDay](req.Times),
		Intensities:    toEnums[matcher.DesiredIntensity](req.Intensities),
		Styles:         toEnums[matcher.Style](req.Styles),
		NoteLikes:      toEnums[matcher.NoteCategory](req.NoteLikes),
		NoteDislikes:   toEnums[matcher.NoteCategory](req.NoteDislikes),
		Contexts:       toEnums[matcher.Context](req.Contexts),
		Strength:       matcher.Intensity(req.Strength),
		Gender:         matcher.Gender(req.Gender),
		Sweetness:      sliderValue(req.Sweetness),
		Freshness:      sliderValue(req.Freshness),
		AvoidVerySweet: req.AvoidVerySweet,
		AvoidOud:       req.AvoidOud,
		Limit:          req.Limit,
	}
	return profile
}

func toEnums[T ~string](values []string) []T {
	if len(values) == 0 {
		return nil
	}
	result := make([]T, len(values))
	for i, v := range values {
		result[i] = T(v)
	}
	return result
}

func sliderValue(v *int) int {
	if v == nil {
		return defaultSliderValue
	}
	return *v
}

// FragranceRequest is the admin create/update body.
type FragranceRequest struct {
	ID          string   `json:"id" validate:"required,min=1,max=128"`
	Name        string   `json:"name" validate:"required,min=1,max=256"`
	Brand       string   `json:"brand" validate:"omitempty,max=256"`
	Family      string   `json:"family" validate:"omitempty,max=64"`
	Gender      string   `json:"gender" validate:"omitempty,oneof=male female unisex"`
	TopNotes    []string `json:"top_notes" validate:"omitempty,dive,min=1,max=128"`
	HeartNotes  []string `json:"heart_notes" validate:"omitempty,dive,min=1,max=128"`
	BaseNotes   []string `json:"base_notes" validate:"omitempty,dive,min=1,max=128"`
	MainAccords []string `json:"main_accords" validate:"omitempty,dive,min=1,max=128"`
	Seasons     []string `json:"seasons" validate:"omitempty,dive,oneof=spring summer autumn winter"`
	Occasions   []string `json:"occasions" validate:"omitempty,dive,oneof=office date night_out everyday formal sport daytime night"`
	Intensity   string   `json:"intensity" validate:"omitempty,oneof=soft moderate strong very_strong"`
}

// ToFragrance converts the validated request into a catalog item.
func (req *FragranceRequest) ToFragrance() matcher.Fragrance {
	f := matcher.Fragrance{
		ID:          req.ID,
		Name:        req.Name,
		Brand:       req.Brand,
		Family:      req.Family,
		Gender:      matcher.Gender(req.Gender),
		TopNotes:    req.TopNotes,
		HeartNotes:  req.HeartNotes,
		BaseNotes:   req.BaseNotes,
		MainAccords: req.MainAccords,
		Seasons:     toEnums[matcher.Season](req.Seasons),
		Occasions:   toEnums[matcher.Occasion](req.Occasions),
		Intensity:   matcher.Intensity(req.Intensity),
	}
	f.Canonicalize()
	return f
}
