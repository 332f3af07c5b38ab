package config

import (
	"sync"
)

var (
	loadedPrompts     AllLoadedPrompts
	loadedPromptsOnce sync.Once
)

// LoadedSystemPrompts contains system instruction content read from files
type LoadedSystemPrompts struct {
	AnalyzeJob    string
	EnhanceBullet string
}

// LoadedUserPrompts contains user prompt template content read from files
type LoadedUserPrompts struct {
	AnalyzeJob    string
	EnhanceBullet string
}

// OperationLoadedPrompts groups the loaded prompts for one scope
type OperationLoadedPrompts struct {
	SystemPrompts LoadedSystemPrompts
	UserPrompts   LoadedUserPrompts
}

// AllLoadedPrompts holds the global prompts plus per-operation overrides
type AllLoadedPrompts struct {
	Global  OperationLoadedPrompts
	Analyze OperationLoadedPrompts
	Suggest OperationLoadedPrompts
}

// GetPromptsForOperation returns the loaded prompts for an operation,
// falling back to the global set for unknown operation names
func GetPromptsForOperation(operationType string) OperationLoadedPrompts {
	switch operationType {
	case "analyze":
		return loadedPrompts.Analyze
	case "suggest":
		return loadedPrompts.Suggest
	default:
		return loadedPrompts.Global
	}
}
