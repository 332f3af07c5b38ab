package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePromptFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadAnalyzePromptsFromFiles(t *testing.T) {
	dir := t.TempDir()
	systemFile := writePromptFile(t, dir, "system.analyze.md", "Test system prompt for job analysis")
	userFile := writePromptFile(t, dir, "user.analyze.md", "Test user prompt template: %s")

	cfg := &Config{
		AI: AIConfig{
			Analyze: OperationAIConfig{
				CustomPrompts: PromptConfig{
					SystemPrompts: SystemPrompts{AnalyzeJobFile: systemFile},
					UserPrompts:   UserPrompts{AnalyzeJobFile: userFile},
				},
			},
		},
	}

	require.NoError(t, cfg.loadPromptsFromFiles())

	loaded := GetPromptsForOperation("analyze")
	assert.Equal(t, "Test system prompt for job analysis", loaded.SystemPrompts.AnalyzeJob)
	assert.Equal(t, "Test user prompt template: %s", loaded.UserPrompts.AnalyzeJob)

	// File paths stay on the config; loaded content lives in the registry
	assert.Equal(t, systemFile, cfg.AI.Analyze.CustomPrompts.SystemPrompts.AnalyzeJobFile)
	assert.Equal(t, userFile, cfg.AI.Analyze.CustomPrompts.UserPrompts.AnalyzeJobFile)
}

func TestLoadSuggestPromptsFromFiles(t *testing.T) {
	dir := t.TempDir()
	systemFile := writePromptFile(t, dir, "system.suggest.md", "You improve resume bullet points.")

	cfg := &Config{
		AI: AIConfig{
			Suggest: OperationAIConfig{
				CustomPrompts: PromptConfig{
					SystemPrompts: SystemPrompts{EnhanceBulletFile: systemFile},
				},
			},
		},
	}

	require.NoError(t, cfg.loadPromptsFromFiles())

	loaded := GetPromptsForOperation("suggest")
	assert.Equal(t, "You improve resume bullet points.", loaded.SystemPrompts.EnhanceBullet)
}

func TestValidatePromptFiles(t *testing.T) {
	dir := t.TempDir()
	validFile := writePromptFile(t, dir, "valid.md", "Valid content")

	cfg := &Config{
		AI: AIConfig{
			Analyze: OperationAIConfig{
				CustomPrompts: PromptConfig{
					SystemPrompts: SystemPrompts{AnalyzeJobFile: validFile},
				},
			},
		},
	}

	assert.NoError(t, cfg.validatePromptFiles())

	cfg.AI.Analyze.CustomPrompts.SystemPrompts.AnalyzeJobFile = filepath.Join(dir, "nonexistent.md")
	assert.Error(t, cfg.validatePromptFiles())
}

func TestLoadPromptFromFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("existing file", func(t *testing.T) {
		path := writePromptFile(t, dir, "test.md", "Test prompt content")

		content, err := loadPromptFromFile(path, "system", "analyzeJob")
		require.NoError(t, err)
		assert.Equal(t, "Test prompt content", content)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writePromptFile(t, dir, "empty.md", "")

		_, err := loadPromptFromFile(path, "system", "analyzeJob")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadPromptFromFile(filepath.Join(dir, "nonexistent.md"), "system", "analyzeJob")
		assert.Error(t, err)
	})
}
