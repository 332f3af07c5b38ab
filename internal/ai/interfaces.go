package ai

import (
	"context"

	"resumeforge/internal/types"
)

// BulletInput carries one experience bullet plus the job context it should
// be rewritten against.
type BulletInput struct {
	Bullet              string
	RequiredSkills      []string
	KeyResponsibilities []string
}

// Provider is the interface AI backends implement.
// All methods return token usage information - callers can ignore it if not needed.
type Provider interface {
	AnalyzeJob(ctx context.Context, jobText string) (types.JobAnalysis, *TokenUsage, error)
	EnhanceBullet(ctx context.Context, input BulletInput) (types.BulletEnhancement, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
