package ats

import (
	"testing"

	apperrors "resumeforge/internal/errors"
)

func TestCheckReportShape(t *testing.T) {
	report, err := Check("Name: John Smith\nSkills: Python")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.OverallScore < 0 || report.OverallScore > 100 {
		t.Errorf("overall score out of range: %d", report.OverallScore)
	}

	wantFactors := []string{
		FactorSectionHeadings,
		FactorFormatting,
		FactorKeywords,
		FactorStructure,
		FactorReadability,
	}
	for _, name := range wantFactors {
		factor, ok := report.Factors[name]
		if !ok {
			t.Errorf("missing factor %q", name)
			continue
		}
		if factor.Score < 0 || factor.Score > 100 {
			t.Errorf("factor %q score out of range: %d", name, factor.Score)
		}
		if factor.Feedback == "" {
			t.Errorf("factor %q has empty feedback", name)
		}
	}

	if len(report.Recommendations) == 0 {
		t.Error("expected recommendations")
	}
	if report.CriticalIssues == nil {
		t.Error("critical issues must be a list, not nil")
	}
}

func TestCheckEmptyText(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty string", text: ""},
		{name: "whitespace only", text: "  \n\t "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Check(tt.text)
			if err == nil {
				t.Fatal("expected error")
			}
			appErr, ok := err.(*apperrors.AppError)
			if !ok {
				t.Fatalf("expected *AppError, got %T", err)
			}
			if appErr.Code != apperrors.ErrCodeInvalidRequest {
				t.Errorf("expected code %s, got %s", apperrors.ErrCodeInvalidRequest, appErr.Code)
			}
		})
	}
}
