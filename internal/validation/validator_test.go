// Stagemate - Shared-Venue Artist Recommendations from Tour History
// Copyright 2026 Stagemate Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stagemate/stagemate

package validation

import (
	"strings"
	"testing"
)

type artistRequest struct {
	MBID string `validate:"required,mbid"`
	TopN int    `validate:"omitempty,min=1,max=100"`
	From string `validate:"omitempty,datetime=2006-01-02"`
}

func TestValidateStructPasses(t *testing.T) {
	req := artistRequest{
		MBID: "5b11f4ce-a62d-471e-81fc-a69a8278c7da",
		TopN: 10,
		From: "2015-01-01",
	}
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestValidateMBID(t *testing.T) {
	tests := []struct {
		mbid string
		ok   bool
	}{
		{"5b11f4ce-a62d-471e-81fc-a69a8278c7da", true},
		{"5B11F4CE-A62D-471E-81FC-A69A8278C7DA", true},
		{"not-a-uuid", false},
		{"5b11f4ce-a62d-471e-81fc", false},
	}
	for _, tt := range tests {
		err := ValidateStruct(&artistRequest{MBID: tt.mbid})
		if tt.ok && err != nil {
			t.Errorf("mbid %q rejected: %v", tt.mbid, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("mbid %q accepted", tt.mbid)
		}
	}
}

func TestValidateRequiredMessage(t *testing.T) {
	err := ValidateStruct(&artistRequest{})
	if err == nil {
		t.Fatal("expected error for missing MBID")
	}
	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "MBID is required") {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestValidateMultipleErrors(t *testing.T) {
	err := ValidateStruct(&artistRequest{MBID: "bad", TopN: 500, From: "01-01-2015"})
	if err == nil {
		t.Fatal("expected errors")
	}
	if len(err.Errors()) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(err.Errors()), err)
	}
	apiErr := err.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-error response must list fields")
	}
}

func TestValidateDateFormat(t *testing.T) {
	req := artistRequest{
		MBID: "5b11f4ce-a62d-471e-81fc-a69a8278c7da",
		From: "2015-13-01",
	}
	if err := ValidateStruct(&req); err == nil {
		t.Error("invalid month must be rejected")
	}
}
