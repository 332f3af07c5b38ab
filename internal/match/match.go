// Package match scores how well a resume fits a job analysis.
package match

import (
	"math"
	"strings"

	"resumeforge/internal/types"
)

const (
	skillWeight      = 0.6
	experienceWeight = 0.4
	pointsPerRole    = 20
)

// Score holds the component and combined scores for a resume/job pair.
type Score struct {
	Skill      float64
	Experience float64
	Overall    int
}

// Compute calculates the weighted match score. A job with no listed
// skills contributes a zero skill score rather than dividing by zero.
func Compute(resume types.ResumeContent, job types.JobAnalysis) Score {
	var s Score

	if len(job.RequiredSkills) > 0 {
		matched := len(Matched(resume.Skills, job.RequiredSkills))
		// Whole-percentage skill score, so 1/3 matched reads as 33.
		s.Skill = math.Floor(float64(matched) / float64(len(job.RequiredSkills)) * 100)
	}

	s.Experience = float64(len(resume.Experience) * pointsPerRole)
	if s.Experience > 100 {
		s.Experience = 100
	}

	s.Overall = int(s.Skill*skillWeight + s.Experience*experienceWeight)
	if s.Overall > 100 {
		s.Overall = 100
	}
	if s.Overall < 0 {
		s.Overall = 0
	}
	return s
}

// Matched returns the job skills present in the resume, compared
// case-insensitively, in job order.
func Matched(resumeSkills, jobSkills []string) []string {
	have := make(map[string]bool, len(resumeSkills))
	for _, skill := range resumeSkills {
		have[strings.ToLower(skill)] = true
	}

	matched := []string{}
	for _, skill := range jobSkills {
		if have[strings.ToLower(skill)] {
			matched = append(matched, skill)
		}
	}
	return matched
}

// Missing returns the job skills absent from the resume, compared
// case-insensitively, in job order.
func Missing(resumeSkills, jobSkills []string) []string {
	have := make(map[string]bool, len(resumeSkills))
	for _, skill := range resumeSkills {
		have[strings.ToLower(skill)] = true
	}

	missing := []string{}
	for _, skill := range jobSkills {
		if !have[strings.ToLower(skill)] {
			missing = append(missing, skill)
		}
	}
	return missing
}

// Analysis assembles a full MatchAnalysis from precomputed parts.
func Analysis(resume types.ResumeContent, job types.JobAnalysis, suggestions []types.AISuggestion, atsScore int) types.MatchAnalysis {
	score := Compute(resume, job)
	if suggestions == nil {
		suggestions = []types.AISuggestion{}
	}
	return types.MatchAnalysis{
		OverallScore:       score.Overall,
		SkillScore:         score.Skill,
		ExperienceScore:    score.Experience,
		KeywordMatches:     Matched(resume.Skills, job.RequiredSkills),
		MissingKeywords:    Missing(resume.Skills, job.RequiredSkills),
		Suggestions:        suggestions,
		ATSComplianceScore: atsScore,
	}
}
