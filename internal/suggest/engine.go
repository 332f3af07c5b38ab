package suggest

import (
	"context"
	"strings"

	"resumeforge/internal/ai"
	"resumeforge/internal/errors"
	"resumeforge/internal/match"
	"resumeforge/internal/types"
)

const (
	skillsRelevanceScore  = 90
	summaryRelevanceScore = 85
	maxProposedSkills     = 3
	maxSummarySkills      = 3
)

// Options bounds the suggestion set the engine returns. Zero values mean
// no limit.
type Options struct {
	MaxSuggestions int
	MinRelevance   int
}

// Engine produces section-scoped resume improvement suggestions. Bullet
// rewrites go through the AI provider; the skills and summary suggestions
// are deterministic.
type Engine struct {
	provider ai.Provider
	logger   *errors.Logger
	opts     Options
}

// NewEngine creates a suggestion engine backed by the given provider
func NewEngine(provider ai.Provider, logger *errors.Logger, opts Options) *Engine {
	return &Engine{
		provider: provider,
		logger:   logger,
		opts:     opts,
	}
}

// Generate returns suggestions in fixed section order: experience bullets
// first (by experience index, then bullet index), then skills, then summary.
// A failed bullet enhancement is skipped and logged; it never aborts the
// batch.
func (e *Engine) Generate(ctx context.Context, resume types.ResumeContent, job types.JobAnalysis) []types.AISuggestion {
	suggestions := e.enhanceExperience(ctx, resume, job)
	suggestions = append(suggestions, e.suggestSkills(resume, job)...)
	suggestions = append(suggestions, e.suggestSummary(resume, job)...)

	if e.opts.MaxSuggestions > 0 && len(suggestions) > e.opts.MaxSuggestions {
		suggestions = suggestions[:e.opts.MaxSuggestions]
	}

	return suggestions
}

// enhanceExperience requests an enhanced phrasing for every bullet of every
// experience entry, sequentially. Calls stop early once the context is done;
// whatever completed so far is returned.
func (e *Engine) enhanceExperience(ctx context.Context, resume types.ResumeContent, job types.JobAnalysis) []types.AISuggestion {
	suggestions := []types.AISuggestion{}

	for expIdx, exp := range resume.Experience {
		for bulletIdx, bullet := range exp.Bullets {
			if ctx.Err() != nil {
				e.logger.Warn("Suggestion budget exhausted, returning partial set",
					"completed", len(suggestions),
					"error", ctx.Err().Error())
				return suggestions
			}

			enhancement, _, err := e.provider.EnhanceBullet(ctx, ai.BulletInput{
				Bullet:              bullet,
				RequiredSkills:      job.RequiredSkills,
				KeyResponsibilities: job.KeyResponsibilities,
			})
			if err != nil {
				e.logger.Warn("Failed to enhance bullet point, skipping",
					"experience_index", expIdx,
					"bullet_index", bulletIdx,
					"error", err.Error())
				continue
			}

			if e.opts.MinRelevance > 0 && enhancement.RelevanceScore < e.opts.MinRelevance {
				e.logger.Debug("Dropping low-relevance enhancement",
					"experience_index", expIdx,
					"bullet_index", bulletIdx,
					"relevance_score", enhancement.RelevanceScore)
				continue
			}

			subIdx, itemIdx := expIdx, bulletIdx
			suggestions = append(suggestions, types.AISuggestion{
				Section:          "experience",
				SubsectionIndex:  &subIdx,
				ItemIndex:        &itemIdx,
				OriginalContent:  bullet,
				SuggestedContent: enhancement.EnhancedBullet,
				Explanation:      enhancement.ImprovementExplanation,
				RelevanceScore:   enhancement.RelevanceScore,
				SuggestionType:   types.SuggestionEnhancement,
			})
		}
	}

	return suggestions
}

// suggestSkills proposes appending required skills the resume is missing.
// Nothing is emitted when the resume already covers every required skill.
func (e *Engine) suggestSkills(resume types.ResumeContent, job types.JobAnalysis) []types.AISuggestion {
	missing := match.Missing(resume.Skills, job.RequiredSkills)
	if len(missing) == 0 {
		return nil
	}
	if len(missing) > maxProposedSkills {
		missing = missing[:maxProposedSkills]
	}

	proposed := make([]string, 0, len(resume.Skills)+len(missing))
	proposed = append(proposed, resume.Skills...)
	proposed = append(proposed, missing...)

	zero := 0
	return []types.AISuggestion{{
		Section:          "skills",
		SubsectionIndex:  &zero,
		ItemIndex:        &zero,
		OriginalContent:  strings.Join(resume.Skills, ", "),
		SuggestedContent: strings.Join(proposed, ", "),
		Explanation:      "Added relevant skills from job requirements",
		RelevanceScore:   skillsRelevanceScore,
		SuggestionType:   types.SuggestionAddition,
	}}
}

// suggestSummary appends a clause naming the top required skills to the
// existing summary. An empty summary yields no suggestion.
func (e *Engine) suggestSummary(resume types.ResumeContent, job types.JobAnalysis) []types.AISuggestion {
	if resume.Summary == "" {
		return nil
	}

	skills := job.RequiredSkills
	if len(skills) > maxSummarySkills {
		skills = skills[:maxSummarySkills]
	}

	zero := 0
	return []types.AISuggestion{{
		Section:          "summary",
		SubsectionIndex:  &zero,
		ItemIndex:        &zero,
		OriginalContent:  resume.Summary,
		SuggestedContent: resume.Summary + " Skilled in " + strings.Join(skills, ", ") + ".",
		Explanation:      "Added relevant keywords from job requirements",
		RelevanceScore:   summaryRelevanceScore,
		SuggestionType:   types.SuggestionEnhancement,
	}}
}
