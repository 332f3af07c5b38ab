package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks fills gaps viper cannot express: list-valued env vars,
// the legacy Gemini key, and conditional TLS/observability defaults
func (c *Config) applyFallbacks() {
	if len(c.Server.APIKeys) == 0 {
		if raw := os.Getenv("RESUMEFORGE_SERVER_APIKEYS"); raw != "" {
			keys := strings.Split(raw, ",")
			for i := range keys {
				keys[i] = strings.TrimSpace(keys[i])
			}
			c.Server.APIKeys = keys
		}
	}

	// GEMINI_API_KEY predates the RESUMEFORGE_ prefix and is still honored
	if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	c.applyTLSDefaults()

	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = defaultInstanceID(c.Observability.ServiceName)
	}
	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

// applyTLSDefaults applies default TLS configuration values
func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
}

func defaultInstanceID(serviceName string) string {
	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Sprintf("%s-1", serviceName)
	}
	return fmt.Sprintf("%s-%s", serviceName, hostname)
}

// knownEnvVars are the variables worth surfacing in the startup summary
var knownEnvVars = []string{
	"RESUMEFORGE_AI_APIKEY",
	"RESUMEFORGE_AI_PROVIDER",
	"RESUMEFORGE_AI_MODEL",
	"RESUMEFORGE_SERVER_PORT",
	"RESUMEFORGE_SERVER_HOST",
	"RESUMEFORGE_APP_LOGLEVEL",
	"RESUMEFORGE_VAULT_ENABLED",
	"GEMINI_API_KEY",
}

// logConfigurationSources prints where configuration came from and the
// resolved key values. Anything key-like is masked.
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed == "" {
		log.Println("[CONFIG] Config file: None (using defaults)")
	} else {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	}

	log.Println("[CONFIG] Environment variables:")
	found := false
	for _, name := range knownEnvVars {
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		found = true
		if strings.Contains(strings.ToLower(name), "key") {
			log.Printf("[CONFIG]   %s=***MASKED***", name)
		} else {
			log.Printf("[CONFIG]   %s=%s", name, value)
		}
	}
	if !found {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] AI Provider: %s", c.AI.Provider)
	log.Printf("[CONFIG] AI Model: %s", c.AI.Model)
	if c.AI.APIKey == "" {
		log.Println("[CONFIG] AI API Key: ***NOT SET***")
	} else {
		log.Println("[CONFIG] AI API Key: ***CONFIGURED***")
	}
	log.Printf("[CONFIG] Server Host: %s", c.Server.Host)
	log.Printf("[CONFIG] Server Port: %s", c.Server.Port)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] TLS Mode: %s", c.Server.TLS.Mode)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)

	log.Println("[CONFIG] === Operation-Specific AI Configurations ===")
	log.Printf("[CONFIG] Analyze - Provider: %s, Model: %s", c.AI.Analyze.Provider, c.AI.Analyze.Model)
	log.Printf("[CONFIG] Suggest - Provider: %s, Model: %s", c.AI.Suggest.Provider, c.AI.Suggest.Model)

	log.Println("[CONFIG] =====================================")
}
