// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Limit        int      `validate:"omitempty,min=1,max=50"`
	Moods        []string `validate:"omitempty,dive,oneof=fresh sweet warm floral woody"`
	NoteLikes    []string `validate:"omitempty,dive,note_category"`
	NoteDislikes []string `validate:"omitempty,dive,note_category"`
	Sweetness    *int     `validate:"omitempty,min=1,max=5"`
}

func intPtr(v int) *int { return &v }

func TestValidateStructAccepts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  sampleRequest
	}{
		{"empty request", sampleRequest{}},
		{"valid moods", sampleRequest{Moods: []string{"fresh", "woody"}}},
		{"valid categories", sampleRequest{NoteLikes: []string{"citrus"}, NoteDislikes: []string{"woody"}}},
		{"valid limit and slider", sampleRequest{Limit: 50, Sweetness: intPtr(5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateStruct(&tt.req); err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestValidateStructRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       sampleRequest
		wantField string
	}{
		{"unknown mood", sampleRequest{Moods: []string{"cozy"}}, "Moods"},
		{"unknown category", sampleRequest{NoteLikes: []string{"plastic"}}, "NoteLikes"},
		{"limit too high", sampleRequest{Limit: 51}, "Limit"},
		{"slider too high", sampleRequest{Sweetness: intPtr(6)}, "Sweetness"},
		{"slider too low", sampleRequest{Sweetness: intPtr(0)}, "Sweetness"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(&tt.req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			found := false
			for _, fe := range err.Errors() {
				if strings.Contains(fe.Field(), tt.wantField) {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for field %s in %v", tt.wantField, err)
			}
		})
	}
}

func TestToAPIErrorSingleAndMultiple(t *testing.T) {
	t.Parallel()

	single := ValidateStruct(&sampleRequest{Limit: 99})
	if single == nil {
		t.Fatal("expected error")
	}
	apiErr := single.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %s", apiErr.Code)
	}
	if apiErr.Details["field"] == nil {
		t.Error("single error should carry field detail")
	}

	multiple := ValidateStruct(&sampleRequest{Limit: 99, Moods: []string{"cozy"}})
	if multiple == nil {
		t.Fatal("expected errors")
	}
	if multiple.ToAPIError().Details["fields"] == nil {
		t.Error("multiple errors should carry fields detail")
	}
}
