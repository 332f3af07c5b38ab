package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"resumeforge/internal/config"
)

func breakerConfig(maxRequests uint32, minRequests uint32, threshold float64) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "gemini-2.5-pro",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      maxRequests,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			MinRequests:      minRequests,
			FailureThreshold: threshold,
		},
	}
}

func TestBreakerPerOperationIsolation(t *testing.T) {
	analyzeCB := NewAICircuitBreaker("Analyze", breakerConfig(3, 3, 0.6), nil)
	suggestCB := NewAICircuitBreaker("Suggest", breakerConfig(5, 2, 0.7), nil)

	require.NotNil(t, analyzeCB)
	require.NotNil(t, suggestCB)
	assert.NotSame(t, analyzeCB, suggestCB)

	analyzeStats := analyzeCB.GetStats()
	assert.Equal(t, "AI-Analyze", analyzeStats["name"])
	assert.Equal(t, "closed", analyzeStats["state"])
	assert.Equal(t, true, analyzeStats["enabled"])

	suggestStats := suggestCB.GetStats()
	assert.Equal(t, "AI-Suggest", suggestStats["name"])

	assert.True(t, analyzeCB.IsHealthy())
	assert.True(t, suggestCB.IsHealthy())
}

func TestBreakerNameIncludesOperation(t *testing.T) {
	cb := NewAICircuitBreaker("Test", breakerConfig(10, 5, 0.8), nil)
	require.NotNil(t, cb)

	stats := cb.GetStats()
	assert.Equal(t, "AI-Test", stats["name"])
}

func TestModelBreakerName(t *testing.T) {
	mb := NewModelCircuitBreaker("Analyze", breakerConfig(3, 3, 0.6), nil)
	require.NotNil(t, mb)

	stats := mb.GetModelStats()
	assert.Equal(t, "AI-Model-Analyze", stats["name"])
	assert.True(t, mb.IsModelHealthy())
}

func TestBreakerDisabledIsNil(t *testing.T) {
	cfg := &config.OperationAIConfig{
		Provider:       "gemini",
		Model:          "test-model",
		CircuitBreaker: config.CircuitBreakerConfig{Enabled: false},
	}

	assert.Nil(t, NewAICircuitBreaker("Disabled", cfg, nil))
	assert.Nil(t, NewModelCircuitBreaker("Disabled", cfg, nil))
}

func TestNilBreakerPassesThrough(t *testing.T) {
	var cb *AICircuitBreaker

	called := false
	_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		called = true
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, called, "nil breaker should still run the wrapped function")

	stats := cb.GetStats()
	assert.Equal(t, false, stats["enabled"])
	assert.True(t, cb.IsHealthy())
}

func TestNilModelBreakerPassesThrough(t *testing.T) {
	var mb *ModelCircuitBreaker

	called := false
	_, err := mb.ExecuteModel(func() (*genai.Model, error) {
		called = true
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, false, mb.GetModelStats()["enabled"])
}
