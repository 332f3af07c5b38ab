package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// GetLoadedPrompts returns the prompt content resolved at startup
func GetLoadedPrompts() *AllLoadedPrompts {
	return &loadedPrompts
}

// promptSlot ties a configured file path to its destination and the
// labels used in error messages
type promptSlot struct {
	file       string
	target     *string
	promptType string
	operation  string
}

func (c *Config) promptSlots() []promptSlot {
	loadedPromptsOnce.Do(func() {
		loadedPrompts = AllLoadedPrompts{}
	})

	slots := []promptSlot{}
	add := func(cp *PromptConfig, dst *OperationLoadedPrompts, label string) {
		slots = append(slots,
			promptSlot{cp.SystemPrompts.AnalyzeJobFile, &dst.SystemPrompts.AnalyzeJob, label + "system", "analyzeJob"},
			promptSlot{cp.SystemPrompts.EnhanceBulletFile, &dst.SystemPrompts.EnhanceBullet, label + "system", "enhanceBullet"},
			promptSlot{cp.UserPrompts.AnalyzeJobFile, &dst.UserPrompts.AnalyzeJob, label + "user", "analyzeJob"},
			promptSlot{cp.UserPrompts.EnhanceBulletFile, &dst.UserPrompts.EnhanceBullet, label + "user", "enhanceBullet"},
		)
	}

	add(&c.AI.CustomPrompts, &loadedPrompts.Global, "")
	add(&c.AI.Analyze.CustomPrompts, &loadedPrompts.Analyze, "analyze ")
	add(&c.AI.Suggest.CustomPrompts, &loadedPrompts.Suggest, "suggest ")
	return slots
}

// loadPromptsFromFiles resolves every configured prompt file into the
// loaded prompt store
func (c *Config) loadPromptsFromFiles() error {
	for _, slot := range c.promptSlots() {
		if slot.file == "" {
			continue
		}
		content, err := loadPromptFromFile(slot.file, slot.promptType, slot.operation)
		if err != nil {
			return err
		}
		*slot.target = content
	}
	return nil
}

// validatePromptFiles checks that every configured prompt file exists
// before any content is loaded, so a bad path fails startup with a full
// list rather than one error at a time
func (c *Config) validatePromptFiles() error {
	var problems []string

	for _, slot := range c.promptSlots() {
		if slot.file == "" {
			continue
		}
		absPath, err := filepath.Abs(slot.file)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid path for %s %s prompt: %s", slot.promptType, slot.operation, slot.file))
			continue
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			problems = append(problems, fmt.Sprintf("%s %s prompt file not found: %s", slot.promptType, slot.operation, absPath))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}

func loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	raw, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
		}
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	content := strings.TrimSpace(string(raw))
	if content == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	log.Printf("[CONFIG] Loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(content))
	return content, nil
}
