package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"resumeforge/internal/ai"
	"resumeforge/internal/errors"
	"resumeforge/internal/types"
)

var testLogger = errors.NewLogger(slog.LevelError)

// fakeProvider returns canned enhancements and can fail on selected bullets
type fakeProvider struct {
	failOn    map[string]bool
	relevance int
	calls     int
}

func (f *fakeProvider) AnalyzeJob(ctx context.Context, jobText string) (types.JobAnalysis, *ai.TokenUsage, error) {
	return types.JobAnalysis{}, nil, nil
}

func (f *fakeProvider) EnhanceBullet(ctx context.Context, input ai.BulletInput) (types.BulletEnhancement, *ai.TokenUsage, error) {
	f.calls++
	if f.failOn[input.Bullet] {
		return types.BulletEnhancement{}, nil, fmt.Errorf("provider unavailable")
	}
	relevance := f.relevance
	if relevance == 0 {
		relevance = 80
	}
	return types.BulletEnhancement{
		EnhancedBullet:         "Enhanced: " + input.Bullet,
		ImprovementExplanation: "Stronger phrasing",
		RelevanceScore:         relevance,
	}, nil, nil
}

func (f *fakeProvider) GetModelInfo(ctx context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "fake", Available: true}
}

func (f *fakeProvider) Close() error { return nil }

func sampleResume() types.ResumeContent {
	return types.ResumeContent{
		Summary: "Backend engineer with six years of experience.",
		Experience: []types.Experience{
			{
				Title:   "Software Engineer",
				Company: "Acme",
				Bullets: []string{"Built data pipelines", "Led migration to cloud"},
			},
			{
				Title:   "Senior Engineer",
				Company: "Globex",
				Bullets: []string{"Designed billing service"},
			},
		},
		Skills: []string{"Python", "SQL"},
	}
}

func sampleJob() types.JobAnalysis {
	return types.JobAnalysis{
		RequiredSkills:      []string{"Python", "React", "AWS", "Docker"},
		KeyResponsibilities: []string{"Design and build backend services"},
	}
}

func TestGenerateOrdering(t *testing.T) {
	engine := NewEngine(&fakeProvider{}, testLogger, Options{})

	got := engine.Generate(context.Background(), sampleResume(), sampleJob())

	// 3 bullets + skills + summary
	if len(got) != 5 {
		t.Fatalf("expected 5 suggestions, got %d", len(got))
	}

	wantSections := []string{"experience", "experience", "experience", "skills", "summary"}
	for i, want := range wantSections {
		if got[i].Section != want {
			t.Errorf("suggestion %d: expected section %q, got %q", i, want, got[i].Section)
		}
	}

	// Experience suggestions follow source order
	if *got[0].SubsectionIndex != 0 || *got[0].ItemIndex != 0 {
		t.Errorf("first suggestion should target experience 0 bullet 0, got (%d,%d)", *got[0].SubsectionIndex, *got[0].ItemIndex)
	}
	if *got[1].SubsectionIndex != 0 || *got[1].ItemIndex != 1 {
		t.Errorf("second suggestion should target experience 0 bullet 1, got (%d,%d)", *got[1].SubsectionIndex, *got[1].ItemIndex)
	}
	if *got[2].SubsectionIndex != 1 || *got[2].ItemIndex != 0 {
		t.Errorf("third suggestion should target experience 1 bullet 0, got (%d,%d)", *got[2].SubsectionIndex, *got[2].ItemIndex)
	}
}

func TestGenerateSkipsFailedBullet(t *testing.T) {
	provider := &fakeProvider{failOn: map[string]bool{"Led migration to cloud": true}}
	engine := NewEngine(provider, testLogger, Options{})

	got := engine.Generate(context.Background(), sampleResume(), sampleJob())

	var experience []types.AISuggestion
	for _, s := range got {
		if s.Section == "experience" {
			experience = append(experience, s)
		}
	}

	if len(experience) != 2 {
		t.Fatalf("expected 2 experience suggestions after one failure, got %d", len(experience))
	}
	if experience[0].OriginalContent != "Built data pipelines" {
		t.Errorf("unexpected first surviving bullet: %q", experience[0].OriginalContent)
	}
	if experience[1].OriginalContent != "Designed billing service" {
		t.Errorf("unexpected second surviving bullet: %q", experience[1].OriginalContent)
	}
	if provider.calls != 3 {
		t.Errorf("expected all 3 bullets attempted, got %d calls", provider.calls)
	}
}

func TestGenerateSkillsSuggestion(t *testing.T) {
	engine := NewEngine(&fakeProvider{}, testLogger, Options{})

	got := engine.Generate(context.Background(), sampleResume(), sampleJob())

	var skills *types.AISuggestion
	for i := range got {
		if got[i].Section == "skills" {
			skills = &got[i]
			break
		}
	}
	if skills == nil {
		t.Fatal("expected a skills suggestion")
	}

	if skills.RelevanceScore != 90 {
		t.Errorf("expected relevance 90, got %d", skills.RelevanceScore)
	}
	if skills.SuggestionType != types.SuggestionAddition {
		t.Errorf("expected addition type, got %q", skills.SuggestionType)
	}
	if skills.OriginalContent != "Python, SQL" {
		t.Errorf("unexpected original content: %q", skills.OriginalContent)
	}
	// Up to 3 missing skills appended in job order
	if skills.SuggestedContent != "Python, SQL, React, AWS, Docker" {
		t.Errorf("unexpected suggested content: %q", skills.SuggestedContent)
	}
}

func TestGenerateNoSkillsSuggestionWhenCovered(t *testing.T) {
	engine := NewEngine(&fakeProvider{}, testLogger, Options{})

	resume := sampleResume()
	resume.Skills = []string{"python", "react", "aws", "docker"}

	got := engine.Generate(context.Background(), resume, sampleJob())

	for _, s := range got {
		if s.Section == "skills" {
			t.Fatal("expected no skills suggestion when resume covers all required skills")
		}
	}
}

func TestGenerateSummarySuggestion(t *testing.T) {
	engine := NewEngine(&fakeProvider{}, testLogger, Options{})

	got := engine.Generate(context.Background(), sampleResume(), sampleJob())

	last := got[len(got)-1]
	if last.Section != "summary" {
		t.Fatalf("expected summary suggestion last, got %q", last.Section)
	}
	want := "Backend engineer with six years of experience. Skilled in Python, React, AWS."
	if last.SuggestedContent != want {
		t.Errorf("expected %q, got %q", want, last.SuggestedContent)
	}
	if last.RelevanceScore != 85 {
		t.Errorf("expected relevance 85, got %d", last.RelevanceScore)
	}
	if last.SuggestionType != types.SuggestionEnhancement {
		t.Errorf("expected enhancement type, got %q", last.SuggestionType)
	}
}

func TestGenerateNoSummarySuggestionWhenEmpty(t *testing.T) {
	engine := NewEngine(&fakeProvider{}, testLogger, Options{})

	resume := sampleResume()
	resume.Summary = ""

	got := engine.Generate(context.Background(), resume, sampleJob())

	for _, s := range got {
		if s.Section == "summary" {
			t.Fatal("expected no summary suggestion for empty summary")
		}
	}
}

func TestGenerateMinRelevanceFilter(t *testing.T) {
	provider := &fakeProvider{relevance: 40}
	engine := NewEngine(provider, testLogger, Options{MinRelevance: 60})

	got := engine.Generate(context.Background(), sampleResume(), sampleJob())

	for _, s := range got {
		if s.Section == "experience" {
			t.Fatal("expected low-relevance enhancements to be dropped")
		}
	}
	// Deterministic suggestions are unaffected by the relevance gate
	if len(got) != 2 {
		t.Fatalf("expected skills and summary suggestions to remain, got %d", len(got))
	}
}

func TestGenerateMaxSuggestionsCap(t *testing.T) {
	engine := NewEngine(&fakeProvider{}, testLogger, Options{MaxSuggestions: 2})

	got := engine.Generate(context.Background(), sampleResume(), sampleJob())

	if len(got) != 2 {
		t.Fatalf("expected cap of 2 suggestions, got %d", len(got))
	}
}

func TestGenerateCancelledContextReturnsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &fakeProvider{}
	engine := NewEngine(provider, testLogger, Options{})

	got := engine.Generate(ctx, sampleResume(), sampleJob())

	if provider.calls != 0 {
		t.Errorf("expected no provider calls after cancellation, got %d", provider.calls)
	}
	// The deterministic suggestions still come back
	if len(got) != 2 {
		t.Fatalf("expected skills and summary suggestions, got %d", len(got))
	}
}
