package ai

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"
)

func timePtr(d time.Duration) *time.Duration { return &d }
func intPtr(i int) *int                      { return &i }
func float32Ptr(f float32) *float32          { return &f }
func boolPtr(b bool) *bool                   { return &b }

var testLogger = errors.NewLogger(slog.LevelDebug)

// The analyze and suggest operations each derive their own config from the
// global AI block, overriding only what they set explicitly.
func TestOperationConfigDerivation(t *testing.T) {
	cfg := &config.Config{
		AI: config.AIConfig{
			Provider:         "gemini",
			Model:            "global-model",
			Timeout:          60 * time.Second,
			APIKey:           "global-api-key",
			MaxRetries:       5,
			Temperature:      0.9,
			UseSystemPrompts: true,

			Analyze: config.OperationAIConfig{
				Model:       "analyze-specific-model",
				Timeout:     timePtr(90 * time.Second),
				Temperature: float32Ptr(0.2),
			},
			Suggest: config.OperationAIConfig{
				Model:      "suggest-specific-model",
				MaxRetries: intPtr(1),
			},
		},
	}

	t.Run("analyze overrides", func(t *testing.T) {
		derived := cfg.GetAnalyzeConfig()

		assert.Equal(t, "analyze-specific-model", derived.Model)
		assert.Equal(t, 90*time.Second, *derived.Timeout)
		assert.Equal(t, float32(0.2), *derived.Temperature)

		// Unset fields fall back to the global block
		assert.Equal(t, "global-api-key", derived.APIKey)
		assert.Equal(t, 5, *derived.MaxRetries)
	})

	t.Run("suggest overrides", func(t *testing.T) {
		derived := cfg.GetSuggestConfig()

		assert.Equal(t, "suggest-specific-model", derived.Model)
		assert.Equal(t, 1, *derived.MaxRetries)

		assert.Equal(t, 60*time.Second, *derived.Timeout)
		assert.Equal(t, "global-api-key", derived.APIKey)
	})
}

func testOperationConfig(provider, apiKey string) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider:         provider,
		Model:            "test-model",
		APIKey:           apiKey,
		Timeout:          timePtr(30 * time.Second),
		MaxRetries:       intPtr(1),
		Temperature:      float32Ptr(0.5),
		UseSystemPrompts: boolPtr(true),
	}
}

func TestNewServiceRequiresAPIKey(t *testing.T) {
	_, err := NewService(testOperationConfig("gemini", ""), "analyze", testLogger)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeMissingAPIKey, appErr.Code)
}

func TestNewServiceRejectsUnknownProvider(t *testing.T) {
	_, err := NewService(testOperationConfig("oracle", "test-key"), "analyze", testLogger)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeInvalidConfig, appErr.Code)
}

func TestServiceWiresBreakersIntoProvider(t *testing.T) {
	opCfg := testOperationConfig("gemini", "test-key")
	opCfg.CircuitBreaker = config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          45 * time.Second,
		MinRequests:      2,
		FailureThreshold: 0.8,
	}

	service, err := NewService(opCfg, "test-op", testLogger)
	if err != nil {
		t.Skipf("Could not create service with test key: %v", err)
	}

	assert.Equal(t, uint32(5), service.config.CircuitBreaker.MaxRequests)
	assert.Equal(t, 0.8, service.config.CircuitBreaker.FailureThreshold)

	provider, ok := service.Provider.(*GeminiProvider)
	require.True(t, ok, "service provider should be a *GeminiProvider")

	stats := provider.GetCircuitBreakerStats()

	aiStats, ok := stats["ai_operations"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "AI-test-op", aiStats["name"])

	modelStats, ok := stats["model_operations"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "AI-Model-test-op", modelStats["name"])

	assert.Equal(t, true, stats["overall_healthy"])
}
