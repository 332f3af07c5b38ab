// Package analyzer extracts structured requirements from job
// description text using keyword heuristics. An AI-backed path with the
// same output schema lives in internal/ai.
package analyzer

import (
	"strings"

	"resumeforge/internal/types"
)

// requiredSkillVocabulary is matched case-insensitively against the job
// text; the first ten matches are reported with this casing, in this
// order.
var requiredSkillVocabulary = []string{
	"Python", "Java", "JavaScript", "React", "Node.js", "SQL", "AWS",
	"Docker", "Kubernetes", "Git", "HTML", "CSS", "MongoDB", "PostgreSQL",
	"Linux", "Machine Learning", "Data Analysis", "Project Management",
	"Agile", "Scrum", "REST API", "GraphQL", "TypeScript", "Vue.js",
	"Angular", "Spring Boot", "Django", "Flask", "Redis", "Elasticsearch",
	"Kafka", "Jenkins", "CI/CD",
}

var cultureVocabulary = []string{
	"innovative", "collaborative", "fast-paced", "startup", "agile",
	"remote", "flexible", "team player", "growth", "learning",
}

const (
	maxRequiredSkills    = 10
	maxResponsibilities  = 5
	minResponsibilityLen = 20
)

// Analyze produces a JobAnalysis from raw job description text. It is
// deterministic and never fails, so callers always have a usable
// baseline even without an AI credential.
func Analyze(text string) types.JobAnalysis {
	lower := strings.ToLower(text)

	return types.JobAnalysis{
		RequiredSkills:      extractSkills(lower),
		Qualifications:      extractQualifications(lower),
		KeyResponsibilities: extractResponsibilities(text),
		CultureKeywords:     extractCulture(lower),
		ExperienceLevel:     detectExperienceLevel(lower),
		Industry:            detectIndustry(lower),
	}
}

func extractSkills(lower string) []string {
	skills := []string{}
	for _, skill := range requiredSkillVocabulary {
		if strings.Contains(lower, strings.ToLower(skill)) {
			skills = append(skills, skill)
			if len(skills) == maxRequiredSkills {
				break
			}
		}
	}
	return skills
}

func extractQualifications(lower string) []string {
	quals := []string{}
	if strings.Contains(lower, "bachelor") {
		quals = append(quals, "Bachelor's degree")
	}
	if strings.Contains(lower, "master") {
		quals = append(quals, "Master's degree")
	}
	if strings.Contains(lower, "certification") {
		quals = append(quals, "Professional certifications")
	}
	return quals
}

func extractResponsibilities(text string) []string {
	resp := []string{}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !hasBulletPrefix(trimmed) {
			continue
		}
		if len(trimmed) <= minResponsibilityLen {
			continue
		}
		resp = append(resp, stripBulletPrefix(trimmed))
		if len(resp) == maxResponsibilities {
			break
		}
	}
	return resp
}

func extractCulture(lower string) []string {
	keywords := []string{}
	for _, word := range cultureVocabulary {
		if strings.Contains(lower, word) {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

func detectExperienceLevel(lower string) string {
	for _, marker := range []string{"senior", "5+ years", "7+ years"} {
		if strings.Contains(lower, marker) {
			return "senior"
		}
	}
	for _, marker := range []string{"junior", "entry level", "0-2 years"} {
		if strings.Contains(lower, marker) {
			return "junior"
		}
	}
	return "mid"
}

// detectIndustry checks domains in a fixed priority order so text
// mentioning several industries resolves consistently.
func detectIndustry(lower string) string {
	checks := []struct {
		industry string
		markers  []string
	}{
		{"finance", []string{"fintech", "finance", "banking", "trading"}},
		{"healthcare", []string{"healthcare", "medical", "biotech"}},
		{"technology", []string{"startup", "tech", "software", "saas"}},
	}
	for _, check := range checks {
		for _, marker := range check.markers {
			if strings.Contains(lower, marker) {
				return check.industry
			}
		}
	}
	return "general"
}

func hasBulletPrefix(line string) bool {
	return strings.HasPrefix(line, "•") ||
		strings.HasPrefix(line, "-") ||
		strings.HasPrefix(line, "*")
}

func stripBulletPrefix(line string) string {
	line = strings.TrimPrefix(line, "•")
	line = strings.TrimPrefix(line, "-")
	line = strings.TrimPrefix(line, "*")
	return strings.TrimSpace(line)
}
