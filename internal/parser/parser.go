// Package parser turns extracted resume text into structured content
// using deterministic section heuristics.
package parser

import (
	"regexp"
	"strings"
	"unicode"

	"resumeforge/internal/types"
)

var (
	emailRE = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRE = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b|\(\d{3}\)\s*\d{3}[-.]?\d{4}`)
)

// skillVocabulary is the fixed list matched case-insensitively against
// resume text. Matches are reported title-cased in this order.
var skillVocabulary = []string{
	"python", "java", "javascript", "react", "node.js", "sql", "aws",
	"docker", "kubernetes", "git", "html", "css", "mongodb", "postgresql",
	"linux", "machine learning", "data analysis", "project management",
	"agile",
}

var summaryHeadings = []string{"summary", "objective", "profile", "about"}

var jobTitleMarkers = []string{"engineer", "developer", "manager", "analyst", "specialist"}

// Parse structures raw resume text. The same text always yields the
// same result.
func Parse(text string) types.ResumeContent {
	lines := strings.Split(text, "\n")

	return types.ResumeContent{
		PersonalInfo: parsePersonalInfo(text, lines),
		Summary:      parseSummary(lines),
		Experience:   parseExperience(lines),
		Education:    parseEducation(text),
		Skills:       parseSkills(text),
	}
}

func parsePersonalInfo(text string, lines []string) types.PersonalInfo {
	info := types.PersonalInfo{
		Email: emailRE.FindString(text),
		Phone: phoneRE.FindString(text),
	}

	// The name is assumed to live near the top: the first of the first
	// five lines that is not contact data and has at least two words.
	limit := len(lines)
	if limit > 5 {
		limit = 5
	}
	for _, line := range lines[:limit] {
		candidate := strings.TrimSpace(line)
		if candidate == "" {
			continue
		}
		if emailRE.MatchString(candidate) || phoneRE.MatchString(candidate) {
			continue
		}
		if len(strings.Fields(candidate)) < 2 {
			continue
		}
		info.Name = candidate
		break
	}
	return info
}

func parseSummary(lines []string) string {
	var collected []string
	inSummary := false

	for i, line := range lines {
		lower := strings.ToLower(line)
		if !inSummary {
			for _, heading := range summaryHeadings {
				if strings.Contains(lower, heading) {
					inSummary = true
					break
				}
			}
			if inSummary {
				continue
			}
		}
		if !inSummary {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			// A blank line followed by a heading two lines ahead closes
			// the section; a lone blank line inside it does not.
			if i+2 < len(lines) && isAllUpper(lines[i+2]) {
				break
			}
			continue
		}
		if isAllUpper(line) {
			break
		}
		collected = append(collected, trimmed)
	}

	return strings.Join(collected, " ")
}

func parseExperience(lines []string) []types.Experience {
	var entries []types.Experience
	var current *types.Experience
	inExperience := false

	for _, line := range lines {
		lower := strings.ToLower(line)
		if !inExperience {
			if strings.Contains(lower, "experience") || strings.Contains(lower, "employment") {
				inExperience = true
			}
			continue
		}

		if containsAny(lower, jobTitleMarkers) {
			if current != nil {
				entries = append(entries, *current)
			}
			current = &types.Experience{
				Title:   strings.TrimSpace(line),
				Bullets: []string{},
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if current != nil && isBullet(trimmed) {
			current.Bullets = append(current.Bullets, stripBullet(trimmed))
		}
	}

	if current != nil {
		entries = append(entries, *current)
	}
	if entries == nil {
		entries = []types.Experience{}
	}
	return entries
}

func parseEducation(text string) []types.Education {
	lower := strings.ToLower(text)
	for _, marker := range []string{"bachelor", "master", "phd"} {
		if strings.Contains(lower, marker) {
			return []types.Education{{
				Degree: "Degree found in text",
				School: "University",
			}}
		}
	}
	return []types.Education{}
}

func parseSkills(text string) []string {
	lower := strings.ToLower(text)
	skills := []string{}
	for _, skill := range skillVocabulary {
		if strings.Contains(lower, skill) {
			skills = append(skills, titleCase(skill))
		}
	}
	return skills
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "•") ||
		strings.HasPrefix(line, "-") ||
		strings.HasPrefix(line, "*")
}

func stripBullet(line string) string {
	line = strings.TrimPrefix(line, "•")
	line = strings.TrimPrefix(line, "-")
	line = strings.TrimPrefix(line, "*")
	return strings.TrimSpace(line)
}

// isAllUpper reports whether the line reads as an uppercase heading:
// it contains at least one letter and no lowercase letters.
func isAllUpper(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// titleCase upper-cases the first letter of every word boundary, so
// "node.js" becomes "Node.Js" and "machine learning" becomes
// "Machine Learning".
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
