package ai

import (
	"context"
	"fmt"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"
)

// Service owns the provider for one operation type. The provider field is
// exported so the server package can reach breaker stats on the concrete type.
type Service struct {
	Provider Provider
	config   *config.OperationAIConfig
	logger   *errors.Logger
}

// NewService builds a service from the operation's resolved configuration.
// The credential is pulled from the config here and handed to the provider
// at construction.
func NewService(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) (*Service, error) {
	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	if cfg.Provider != "gemini" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	provider, err := NewGeminiProvider(cfg.APIKey, cfg, operationType, logger)
	if err != nil {
		return nil, err
	}

	return &Service{Provider: provider, config: cfg, logger: logger}, nil
}

// GetModelInfo reports model availability for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}
