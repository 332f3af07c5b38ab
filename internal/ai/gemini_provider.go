package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"resumeforge/internal/config"
	forgeErrors "resumeforge/internal/errors"
	"resumeforge/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const (
	modelCheckTimeout = 10 * time.Second
	maxRetryBackoff   = 30 * time.Second
)

// ModelInfo describes the configured model and whether it answered a
// readiness probe.
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// TokenUsage carries prompt and completion token counts for one request.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// GeminiProvider implements Provider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	httpClient     *http.Client
	config         *config.OperationAIConfig
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	logger         *forgeErrors.Logger
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance for a specific
// operation. The API key is an explicit parameter so construction is the one
// place a credential enters the provider.
func NewGeminiProvider(apiKey string, cfg *config.OperationAIConfig, operationType string, logger *forgeErrors.Logger) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, forgeErrors.NewConfigError(forgeErrors.ErrCodeMissingAPIKey,
			"API key is required for AI operations", nil)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, forgeErrors.NewAIError(forgeErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:         client,
		httpClient:     &http.Client{Timeout: *cfg.Timeout},
		config:         cfg,
		circuitBreaker: NewAICircuitBreaker(operationType, cfg, logger),
		modelBreaker:   NewModelCircuitBreaker(operationType, cfg, logger),
		logger:         logger,
	}, nil
}

// AnalyzeJob implements Provider for structured job description analysis
func (g *GeminiProvider) AnalyzeJob(ctx context.Context, jobText string) (types.JobAnalysis, *TokenUsage, error) {
	system, user := g.operationPrompts("analyze")

	analysis, usage, err := generateJSON[types.JobAnalysis](ctx, g, "analyze_job",
		fmt.Sprintf(user, jobText), system, g.analyzeResponseConfig(),
		attribute.Int("input.job_length", len(jobText)))
	if err != nil {
		return types.JobAnalysis{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("output.required_skills", len(analysis.RequiredSkills)),
			attribute.String("output.experience_level", analysis.ExperienceLevel),
			attribute.String("output.industry", analysis.Industry),
		)
	}
	return analysis, usage, nil
}

// EnhanceBullet implements Provider for rewriting a single experience bullet
func (g *GeminiProvider) EnhanceBullet(ctx context.Context, input BulletInput) (types.BulletEnhancement, *TokenUsage, error) {
	system, user := g.operationPrompts("suggest")

	responsibilities := strings.Join(input.KeyResponsibilities, "\n- ")
	if responsibilities != "" {
		responsibilities = "- " + responsibilities
	}
	prompt := fmt.Sprintf(user, input.Bullet, strings.Join(input.RequiredSkills, ", "), responsibilities)

	enhancement, usage, err := generateJSON[types.BulletEnhancement](ctx, g, "enhance_bullet",
		prompt, system, g.enhanceResponseConfig(),
		attribute.Int("input.bullet_length", len(input.Bullet)),
		attribute.Int("input.required_skills", len(input.RequiredSkills)))
	if err != nil {
		return types.BulletEnhancement{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("output.enhanced_length", len(enhancement.EnhancedBullet)),
			attribute.Int("output.relevance_score", enhancement.RelevanceScore),
		)
	}
	return enhancement, usage, nil
}

// generateJSON sends one prompt through the circuit breaker and retry layers,
// then decodes the schema-constrained JSON reply into Out.
func generateJSON[Out any](
	ctx context.Context,
	g *GeminiProvider,
	operation string,
	userPrompt string,
	systemPrompt string,
	genCfg *genai.GenerateContentConfig,
	attrs ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var decoded Out

	ctx, span := otel.Tracer("resumeforge.ai.gemini").Start(ctx, "gemini."+operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(attrs...)

	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	fail := func(err error) {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.generateWithRetry(ctx, operation, genCfg, userPrompt)
	})
	if err != nil {
		fail(err)
		return decoded, nil, forgeErrors.NewAIError(forgeErrors.ErrCodeAIServiceFailed,
			"Failed to generate content for "+operation, err)
	}

	if err := json.Unmarshal([]byte(result.Text()), &decoded); err != nil {
		fail(err)
		return decoded, nil, forgeErrors.NewAIError("AI_RESPONSE_PARSE_FAILED",
			"Failed to parse AI response for "+operation, err)
	}

	usage := tokenUsageFrom(result)
	if usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}
	span.SetAttributes(attribute.Bool("success", true))
	return decoded, usage, nil
}

// generateWithRetry calls the model up to MaxRetries+1 times, backing off
// exponentially between attempts. Non-transient failures stop the loop early.
func (g *GeminiProvider) generateWithRetry(ctx context.Context, operation string, genCfg *genai.GenerateContentConfig, userPrompt string) (*genai.GenerateContentResponse, error) {
	maxRetries := *g.config.MaxRetries
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(retryDelay(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genCfg)
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err
		if !retryable(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", maxRetries+1)
	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, maxRetries, lastErr)
}

// retryDelay doubles per attempt with up to 10% random jitter, capped at
// maxRetryBackoff.
func retryDelay(attempt int) time.Duration {
	base := time.Second << (attempt - 1)
	if jitterCeil := big.NewInt(int64(base / 10)); jitterCeil.Sign() > 0 {
		if j, err := rand.Int(rand.Reader, jitterCeil); err == nil {
			base += time.Duration(j.Int64())
		}
	}
	return min(base, maxRetryBackoff)
}

// retryable reports whether an error is worth another attempt. Network
// failures and transient upstream status codes qualify, auth and input
// errors do not.
func retryable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

// GetModelInfo probes the configured model and reports its availability
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	info := &ModelInfo{Name: g.config.Model}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return info
	}

	info.Available = true
	info.DisplayName = model.DisplayName
	info.Version = model.Version

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", g.config.Provider,
		"display_name", info.DisplayName,
		"version", info.Version)
	return info
}

// GetCircuitBreakerStats reports both breakers plus a combined health flag
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
		"overall_healthy":  g.circuitBreaker.IsHealthy() && g.modelBreaker.IsModelHealthy(),
	}
}

// Close implements Provider. The genai client holds no resources that need
// releasing in single-shot use.
func (g *GeminiProvider) Close() error {
	return nil
}

// operationPrompts resolves the system and user prompts for an operation.
// File-loaded content wins over config-defined prompts, which win over the
// built-in defaults.
func (g *GeminiProvider) operationPrompts(operation string) (system, user string) {
	loaded := config.GetPromptsForOperation(operation)
	custom := g.config.CustomPrompts

	switch operation {
	case "analyze":
		system = firstNonEmpty(loaded.SystemPrompts.AnalyzeJob, custom.SystemPrompts.AnalyzeJob, DefaultSystemPrompts.AnalyzeJob)
		user = firstNonEmpty(loaded.UserPrompts.AnalyzeJob, custom.UserPrompts.AnalyzeJob, DefaultUserPrompts.AnalyzeJob)
	case "suggest":
		system = firstNonEmpty(loaded.SystemPrompts.EnhanceBullet, custom.SystemPrompts.EnhanceBullet, DefaultSystemPrompts.EnhanceBullet)
		user = firstNonEmpty(loaded.UserPrompts.EnhanceBullet, custom.UserPrompts.EnhanceBullet, DefaultUserPrompts.EnhanceBullet)
	}
	return system, user
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func stringArraySchema() *genai.Schema {
	return &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}
}

// jsonResponseConfig builds a GenerateContentConfig that forces JSON output
// matching the given schema, applying the operation temperature when set.
func (g *GeminiProvider) jsonResponseConfig(schema *genai.Schema) *genai.GenerateContentConfig {
	genCfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	if *g.config.Temperature > 0 {
		genCfg.Temperature = g.config.Temperature
	}
	return genCfg
}

func (g *GeminiProvider) analyzeResponseConfig() *genai.GenerateContentConfig {
	return g.jsonResponseConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"required_skills":          stringArraySchema(),
			"preferred_skills":         stringArraySchema(),
			"qualifications":           stringArraySchema(),
			"key_responsibilities":     stringArraySchema(),
			"company_culture_keywords": stringArraySchema(),
			"experience_level":         {Type: genai.TypeString},
			"industry":                 {Type: genai.TypeString},
		},
		Required: []string{"required_skills", "qualifications", "key_responsibilities", "company_culture_keywords", "experience_level", "industry"},
	})
}

func (g *GeminiProvider) enhanceResponseConfig() *genai.GenerateContentConfig {
	return g.jsonResponseConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"enhanced_bullet":         {Type: genai.TypeString},
			"improvement_explanation": {Type: genai.TypeString},
			"relevance_score":         {Type: genai.TypeInteger},
		},
		Required: []string{"enhanced_bullet", "improvement_explanation", "relevance_score"},
	})
}

func tokenUsageFrom(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}
	return &TokenUsage{
		InputTokens:  int64(result.UsageMetadata.PromptTokenCount),
		OutputTokens: int64(result.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int64(result.UsageMetadata.TotalTokenCount),
	}
}
