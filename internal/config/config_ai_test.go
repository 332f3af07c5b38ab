package config

import (
	"testing"
	"time"
)

func baseAIConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:    "gemini",
			Model:       "gemini-2.5-flash",
			Timeout:     60 * time.Second,
			APIKey:      "global-key",
			MaxRetries:  3,
			Temperature: 0.5,
		},
	}
}

func TestGetAnalyzeConfigFallsBackToGlobal(t *testing.T) {
	c := baseAIConfig()

	got := c.GetAnalyzeConfig()

	if got.Provider != "gemini" {
		t.Errorf("expected provider gemini, got %q", got.Provider)
	}
	if got.Model != "gemini-2.5-flash" {
		t.Errorf("expected model gemini-2.5-flash, got %q", got.Model)
	}
	if got.APIKey != "global-key" {
		t.Errorf("expected global API key, got %q", got.APIKey)
	}
	if got.Timeout == nil || *got.Timeout != 60*time.Second {
		t.Errorf("expected timeout 60s, got %v", got.Timeout)
	}
	if got.MaxRetries == nil || *got.MaxRetries != 3 {
		t.Errorf("expected maxRetries 3, got %v", got.MaxRetries)
	}
	if got.Temperature == nil || *got.Temperature != 0.5 {
		t.Errorf("expected temperature 0.5, got %v", got.Temperature)
	}
}

func TestGetAnalyzeConfigOperationOverrides(t *testing.T) {
	c := baseAIConfig()
	opTimeout := 75 * time.Second
	opTemp := float32(0.2)
	c.AI.Analyze = OperationAIConfig{
		Model:       "gemini-2.5-pro",
		APIKey:      "analyze-key",
		Timeout:     &opTimeout,
		Temperature: &opTemp,
	}

	got := c.GetAnalyzeConfig()

	if got.Model != "gemini-2.5-pro" {
		t.Errorf("expected operation model override, got %q", got.Model)
	}
	if got.APIKey != "analyze-key" {
		t.Errorf("expected operation API key override, got %q", got.APIKey)
	}
	if *got.Timeout != opTimeout {
		t.Errorf("expected timeout %v, got %v", opTimeout, *got.Timeout)
	}
	if *got.Temperature != opTemp {
		t.Errorf("expected temperature %v, got %v", opTemp, *got.Temperature)
	}
	// Provider not overridden, so the global one applies
	if got.Provider != "gemini" {
		t.Errorf("expected global provider fallback, got %q", got.Provider)
	}
}

func TestGetSuggestConfigPromptFallback(t *testing.T) {
	c := baseAIConfig()
	c.AI.CustomPrompts.SystemPrompts.EnhanceBullet = "global enhance prompt"

	got := c.GetSuggestConfig()

	if got.CustomPrompts.SystemPrompts.EnhanceBullet != "global enhance prompt" {
		t.Errorf("expected global prompt fallback, got %q", got.CustomPrompts.SystemPrompts.EnhanceBullet)
	}
}

func TestGetSuggestConfigPromptOverride(t *testing.T) {
	c := baseAIConfig()
	c.AI.CustomPrompts.SystemPrompts.EnhanceBullet = "global enhance prompt"
	c.AI.Suggest.CustomPrompts.SystemPrompts.EnhanceBullet = "suggest enhance prompt"

	got := c.GetSuggestConfig()

	if got.CustomPrompts.SystemPrompts.EnhanceBullet != "suggest enhance prompt" {
		t.Errorf("expected operation prompt override, got %q", got.CustomPrompts.SystemPrompts.EnhanceBullet)
	}
}

func TestGetConfigsDoNotMutateOriginal(t *testing.T) {
	c := baseAIConfig()

	_ = c.GetAnalyzeConfig()
	_ = c.GetSuggestConfig()

	if c.AI.Analyze.Provider != "" || c.AI.Suggest.Provider != "" {
		t.Error("expected stored operation configs to stay untouched")
	}
}
