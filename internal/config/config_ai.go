package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetAnalyzeConfig returns the AI configuration for job analysis operations
// with fallback to global config
func (c *Config) GetAnalyzeConfig() OperationAIConfig {
	config := c.AI.Analyze

	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SystemPrompts.AnalyzeJob == "" {
		config.CustomPrompts.SystemPrompts.AnalyzeJob = c.AI.CustomPrompts.SystemPrompts.AnalyzeJob
	}
	if config.CustomPrompts.UserPrompts.AnalyzeJob == "" {
		config.CustomPrompts.UserPrompts.AnalyzeJob = c.AI.CustomPrompts.UserPrompts.AnalyzeJob
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.AnalyzeJobFile == "" {
		config.CustomPrompts.SystemPrompts.AnalyzeJobFile = c.AI.CustomPrompts.SystemPrompts.AnalyzeJobFile
	}
	if config.CustomPrompts.UserPrompts.AnalyzeJobFile == "" {
		config.CustomPrompts.UserPrompts.AnalyzeJobFile = c.AI.CustomPrompts.UserPrompts.AnalyzeJobFile
	}

	return config
}

// GetSuggestConfig returns the AI configuration for bullet enhancement
// operations with fallback to global config
func (c *Config) GetSuggestConfig() OperationAIConfig {
	config := c.AI.Suggest

	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SystemPrompts.EnhanceBullet == "" {
		config.CustomPrompts.SystemPrompts.EnhanceBullet = c.AI.CustomPrompts.SystemPrompts.EnhanceBullet
	}
	if config.CustomPrompts.UserPrompts.EnhanceBullet == "" {
		config.CustomPrompts.UserPrompts.EnhanceBullet = c.AI.CustomPrompts.UserPrompts.EnhanceBullet
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.EnhanceBulletFile == "" {
		config.CustomPrompts.SystemPrompts.EnhanceBulletFile = c.AI.CustomPrompts.SystemPrompts.EnhanceBulletFile
	}
	if config.CustomPrompts.UserPrompts.EnhanceBulletFile == "" {
		config.CustomPrompts.UserPrompts.EnhanceBulletFile = c.AI.CustomPrompts.UserPrompts.EnhanceBulletFile
	}

	return config
}

// GetLoadedAnalyzePrompts returns a copy of the loaded prompts for the analyze operation
func (c *Config) GetLoadedAnalyzePrompts() OperationLoadedPrompts {
	return loadedPrompts.Analyze
}

// GetLoadedSuggestPrompts returns a copy of the loaded prompts for the suggest operation
func (c *Config) GetLoadedSuggestPrompts() OperationLoadedPrompts {
	return loadedPrompts.Suggest
}

// GetLoadedGlobalPrompts returns a copy of the loaded global prompts
func (c *Config) GetLoadedGlobalPrompts() OperationLoadedPrompts {
	return loadedPrompts.Global
}
