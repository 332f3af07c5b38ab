package formatters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"resumeforge/internal/export"
	"resumeforge/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ResumeContent", &ResumeTextFormatter{})
	registry.RegisterFormatter("markdown", "ResumeContent", &ResumeMarkdownFormatter{})
	registry.RegisterFormatter("text", "JobAnalysis", &JobAnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "JobAnalysis", &JobAnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "MatchAnalysis", &MatchTextFormatter{})
	registry.RegisterFormatter("markdown", "MatchAnalysis", &MatchMarkdownFormatter{})
	registry.RegisterFormatter("text", "ATSReport", &ATSTextFormatter{})
	registry.RegisterFormatter("markdown", "ATSReport", &ATSMarkdownFormatter{})
	registry.RegisterFormatter("text", "SuggestionList", &SuggestionListTextFormatter{})
	registry.RegisterFormatter("markdown", "SuggestionList", &SuggestionListMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ResumeContent:
		return "ResumeContent"
	case types.JobAnalysis:
		return "JobAnalysis"
	case types.MatchAnalysis:
		return "MatchAnalysis"
	case types.ATSReport:
		return "ATSReport"
	case []types.AISuggestion:
		return "SuggestionList"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ResumeTextFormatter renders parsed resumes as plain text
type ResumeTextFormatter struct{}

func (rtf *ResumeTextFormatter) Format(data any) (string, error) {
	resume, ok := data.(types.ResumeContent)
	if !ok {
		return "", fmt.Errorf("expected ResumeContent, got %T", data)
	}
	return export.PlainText(resume), nil
}

func (rtf *ResumeTextFormatter) SupportedType() string {
	return "ResumeContent"
}

// ResumeMarkdownFormatter renders parsed resumes as markdown
type ResumeMarkdownFormatter struct{}

func (rmf *ResumeMarkdownFormatter) Format(data any) (string, error) {
	resume, ok := data.(types.ResumeContent)
	if !ok {
		return "", fmt.Errorf("expected ResumeContent, got %T", data)
	}
	return export.Markdown(resume), nil
}

func (rmf *ResumeMarkdownFormatter) SupportedType() string {
	return "ResumeContent"
}

// JobAnalysisTextFormatter handles text formatting for job analysis results
type JobAnalysisTextFormatter struct{}

func (jtf *JobAnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.JobAnalysis)
	if !ok {
		return "", fmt.Errorf("expected JobAnalysis, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== JOB ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Experience Level: %s\n", result.ExperienceLevel))
	output.WriteString(fmt.Sprintf("Industry: %s\n\n", result.Industry))

	writeTextList(&output, "Required Skills", result.RequiredSkills)
	writeTextList(&output, "Preferred Skills", result.PreferredSkills)
	writeTextList(&output, "Qualifications", result.Qualifications)
	writeTextList(&output, "Key Responsibilities", result.KeyResponsibilities)
	writeTextList(&output, "Culture Keywords", result.CultureKeywords)

	return output.String(), nil
}

func (jtf *JobAnalysisTextFormatter) SupportedType() string {
	return "JobAnalysis"
}

// JobAnalysisMarkdownFormatter handles markdown formatting for job analysis results
type JobAnalysisMarkdownFormatter struct{}

func (jmf *JobAnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.JobAnalysis)
	if !ok {
		return "", fmt.Errorf("expected JobAnalysis, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Job Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Experience Level:** %s\n\n", result.ExperienceLevel))
	output.WriteString(fmt.Sprintf("**Industry:** %s\n\n", result.Industry))

	writeMarkdownList(&output, "Required Skills", result.RequiredSkills)
	writeMarkdownList(&output, "Preferred Skills", result.PreferredSkills)
	writeMarkdownList(&output, "Qualifications", result.Qualifications)
	writeMarkdownList(&output, "Key Responsibilities", result.KeyResponsibilities)
	writeMarkdownList(&output, "Culture Keywords", result.CultureKeywords)

	return output.String(), nil
}

func (jmf *JobAnalysisMarkdownFormatter) SupportedType() string {
	return "JobAnalysis"
}

// MatchTextFormatter handles text formatting for match results
type MatchTextFormatter struct{}

func (mtf *MatchTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MatchAnalysis)
	if !ok {
		return "", fmt.Errorf("expected MatchAnalysis, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== MATCH ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %d/100\n", result.OverallScore))
	output.WriteString(fmt.Sprintf("Skill Score: %.0f/100\n", result.SkillScore))
	output.WriteString(fmt.Sprintf("Experience Score: %.0f/100\n", result.ExperienceScore))
	output.WriteString(fmt.Sprintf("ATS Compliance Score: %d/100\n\n", result.ATSComplianceScore))

	writeTextList(&output, "Matched Keywords", result.KeywordMatches)
	writeTextList(&output, "Missing Keywords", result.MissingKeywords)

	if len(result.Suggestions) > 0 {
		output.WriteString("=== SUGGESTIONS ===\n\n")
		for i, s := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, s.Section, s.SuggestionType))
			output.WriteString(fmt.Sprintf("   Relevance: %d/100\n", s.RelevanceScore))
			output.WriteString("   Suggested: ")
			output.WriteString(s.SuggestedContent)
			output.WriteString("\n")
			output.WriteString("   Why: ")
			output.WriteString(s.Explanation)
			output.WriteString("\n\n")
		}
	}

	return output.String(), nil
}

func (mtf *MatchTextFormatter) SupportedType() string {
	return "MatchAnalysis"
}

// MatchMarkdownFormatter handles markdown formatting for match results
type MatchMarkdownFormatter struct{}

func (mmf *MatchMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MatchAnalysis)
	if !ok {
		return "", fmt.Errorf("expected MatchAnalysis, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Match Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %d/100\n\n", result.OverallScore))
	output.WriteString(fmt.Sprintf("**Skill Score:** %.0f/100\n\n", result.SkillScore))
	output.WriteString(fmt.Sprintf("**Experience Score:** %.0f/100\n\n", result.ExperienceScore))
	output.WriteString(fmt.Sprintf("**ATS Compliance Score:** %d/100\n\n", result.ATSComplianceScore))

	writeMarkdownList(&output, "Matched Keywords", result.KeywordMatches)
	writeMarkdownList(&output, "Missing Keywords", result.MissingKeywords)

	if len(result.Suggestions) > 0 {
		output.WriteString("## Suggestions\n\n")
		for i, s := range result.Suggestions {
			output.WriteString(fmt.Sprintf("### %d. %s (%s)\n\n", i+1, s.Section, s.SuggestionType))
			output.WriteString(fmt.Sprintf("**Relevance:** %d/100\n\n", s.RelevanceScore))
			output.WriteString("**Suggested:** ")
			output.WriteString(s.SuggestedContent)
			output.WriteString("\n\n")
			output.WriteString("**Why:** ")
			output.WriteString(s.Explanation)
			output.WriteString("\n\n")
		}
	}

	return output.String(), nil
}

func (mmf *MatchMarkdownFormatter) SupportedType() string {
	return "MatchAnalysis"
}

// ATSTextFormatter handles text formatting for ATS compliance reports
type ATSTextFormatter struct{}

func (atf *ATSTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ATSReport)
	if !ok {
		return "", fmt.Errorf("expected ATSReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS COMPLIANCE ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %d/100\n\n", result.OverallScore))

	if len(result.Factors) > 0 {
		output.WriteString("Factors:\n")
		for _, name := range sortedFactorNames(result.Factors) {
			factor := result.Factors[name]
			output.WriteString(fmt.Sprintf("- %s: %d/100 (%s)\n", name, factor.Score, factor.Feedback))
		}
		output.WriteString("\n")
	}

	writeTextList(&output, "Recommendations", result.Recommendations)
	writeTextList(&output, "Critical Issues", result.CriticalIssues)

	return output.String(), nil
}

func (atf *ATSTextFormatter) SupportedType() string {
	return "ATSReport"
}

// ATSMarkdownFormatter handles markdown formatting for ATS compliance reports
type ATSMarkdownFormatter struct{}

func (amf *ATSMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ATSReport)
	if !ok {
		return "", fmt.Errorf("expected ATSReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Compliance\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %d/100\n\n", result.OverallScore))

	if len(result.Factors) > 0 {
		output.WriteString("## Factors\n\n")
		for _, name := range sortedFactorNames(result.Factors) {
			factor := result.Factors[name]
			output.WriteString(fmt.Sprintf("- **%s:** %d/100 (%s)\n", name, factor.Score, factor.Feedback))
		}
		output.WriteString("\n")
	}

	writeMarkdownList(&output, "Recommendations", result.Recommendations)
	writeMarkdownList(&output, "Critical Issues", result.CriticalIssues)

	return output.String(), nil
}

func (amf *ATSMarkdownFormatter) SupportedType() string {
	return "ATSReport"
}

// SuggestionListTextFormatter handles text formatting for suggestion lists
type SuggestionListTextFormatter struct{}

func (stf *SuggestionListTextFormatter) Format(data any) (string, error) {
	suggestions, ok := data.([]types.AISuggestion)
	if !ok {
		return "", fmt.Errorf("expected []AISuggestion, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== SUGGESTIONS ===\n\n")
	if len(suggestions) == 0 {
		output.WriteString("No suggestions generated.\n")
		return output.String(), nil
	}

	for i, s := range suggestions {
		output.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, s.Section, s.SuggestionType))
		output.WriteString(fmt.Sprintf("   Relevance: %d/100\n", s.RelevanceScore))
		if s.OriginalContent != "" {
			output.WriteString("   Original: ")
			output.WriteString(s.OriginalContent)
			output.WriteString("\n")
		}
		output.WriteString("   Suggested: ")
		output.WriteString(s.SuggestedContent)
		output.WriteString("\n")
		output.WriteString("   Why: ")
		output.WriteString(s.Explanation)
		output.WriteString("\n\n")
	}

	return output.String(), nil
}

func (stf *SuggestionListTextFormatter) SupportedType() string {
	return "SuggestionList"
}

// SuggestionListMarkdownFormatter handles markdown formatting for suggestion lists
type SuggestionListMarkdownFormatter struct{}

func (smf *SuggestionListMarkdownFormatter) Format(data any) (string, error) {
	suggestions, ok := data.([]types.AISuggestion)
	if !ok {
		return "", fmt.Errorf("expected []AISuggestion, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Suggestions\n\n")
	if len(suggestions) == 0 {
		output.WriteString("No suggestions generated.\n")
		return output.String(), nil
	}

	for i, s := range suggestions {
		output.WriteString(fmt.Sprintf("## %d. %s (%s)\n\n", i+1, s.Section, s.SuggestionType))
		output.WriteString(fmt.Sprintf("**Relevance:** %d/100\n\n", s.RelevanceScore))
		if s.OriginalContent != "" {
			output.WriteString("**Original:** ")
			output.WriteString(s.OriginalContent)
			output.WriteString("\n\n")
		}
		output.WriteString("**Suggested:** ")
		output.WriteString(s.SuggestedContent)
		output.WriteString("\n\n")
		output.WriteString("**Why:** ")
		output.WriteString(s.Explanation)
		output.WriteString("\n\n")
	}

	return output.String(), nil
}

func (smf *SuggestionListMarkdownFormatter) SupportedType() string {
	return "SuggestionList"
}

func sortedFactorNames(factors map[string]types.ATSFactor) []string {
	names := make([]string, 0, len(factors))
	for name := range factors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeTextList(output *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	output.WriteString(heading + ":\n")
	for _, item := range items {
		output.WriteString(fmt.Sprintf("- %s\n", item))
	}
	output.WriteString("\n")
}

func writeMarkdownList(output *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	output.WriteString("## " + heading + "\n\n")
	for _, item := range items {
		output.WriteString(fmt.Sprintf("- %s\n", item))
	}
	output.WriteString("\n")
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
