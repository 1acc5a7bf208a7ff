// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// requestStruct mirrors the shape of the API request DTOs.
type requestStruct struct {
	UserID  string   `validate:"required,max=128"`
	Limit   int      `validate:"min=0,max=200"`
	Quality string   `validate:"omitempty,oneof=high medium all"`
	Tags    []string `validate:"omitempty,max=20"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input requestStruct
	}{
		{
			name:  "all fields set",
			input: requestStruct{UserID: "user-1", Limit: 20, Quality: "high", Tags: []string{"fitness"}},
		},
		{
			name:  "minimal",
			input: requestStruct{UserID: "u"},
		},
		{
			name:  "limit at cap",
			input: requestStruct{UserID: "user-1", Limit: 200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     requestStruct
		wantField string
		wantTag   string
	}{
		{
			name:      "missing user id",
			input:     requestStruct{Limit: 20},
			wantField: "UserID",
			wantTag:   "required",
		},
		{
			name:      "user id too long",
			input:     requestStruct{UserID: strings.Repeat("x", 200)},
			wantField: "UserID",
			wantTag:   "max",
		},
		{
			name:      "limit above cap",
			input:     requestStruct{UserID: "u", Limit: 500},
			wantField: "Limit",
			wantTag:   "max",
		},
		{
			name:      "negative limit",
			input:     requestStruct{UserID: "u", Limit: -1},
			wantField: "Limit",
			wantTag:   "min",
		},
		{
			name:      "unknown quality tier",
			input:     requestStruct{UserID: "u", Quality: "platinum"},
			wantField: "Quality",
			wantTag:   "oneof",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}

			found := false
			for _, e := range err.Errors() {
				if e.Field() == tt.wantField && e.Tag() == tt.wantTag {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected error on field %s with tag %s, got: %v", tt.wantField, tt.wantTag, err.Errors())
			}
		})
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	input := requestStruct{Limit: 20}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %s, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message != "UserID is required" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "UserID" {
		t.Errorf("details field = %v", apiErr.Details["field"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	input := requestStruct{Limit: 500, Quality: "platinum"}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %s, want VALIDATION_ERROR", apiErr.Code)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("details should contain 'fields' key for multiple errors")
	}
	if !strings.Contains(apiErr.Message, "UserID") || !strings.Contains(apiErr.Message, "Quality") {
		t.Errorf("message should name all failed fields: %q", apiErr.Message)
	}
}

type nestedStruct struct {
	Inner innerStruct `validate:"required"`
}

type innerStruct struct {
	Value string `validate:"required"`
}

func TestNestedStructValidation(t *testing.T) {
	valid := nestedStruct{Inner: innerStruct{Value: "test"}}
	if err := ValidateStruct(&valid); err != nil {
		t.Errorf("ValidateStruct() returned unexpected error for valid nested struct: %v", err)
	}

	invalid := nestedStruct{}
	if err := ValidateStruct(&invalid); err == nil {
		t.Error("ValidateStruct() should have returned error for empty nested struct")
	}
}

func TestErrorMessageTranslation(t *testing.T) {
	tests := []struct {
		name  string
		input requestStruct
		want  string
	}{
		{"required", requestStruct{}, "UserID is required"},
		{"max numeric", requestStruct{UserID: "u", Limit: 1000}, "Limit must be at most 200"},
		{"oneof", requestStruct{UserID: "u", Quality: "bad"}, "Quality must be one of: high medium all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.want)
			}
		})
	}
}
