package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resumeforge/internal/ai"
	"resumeforge/internal/config"
)

// healthHandler reports service health, including AI model reachability,
// circuit breaker state, and certificate validity when TLS is active
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.AppConfig.Observability.HealthCheck.Timeout)
	defer cancel()

	health := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   s.Version,
		"service":   "resumeforge",
	}

	degraded := false

	aiModels := s.checkAIModelHealth(ctx)
	health["ai_models"] = aiModels
	for _, status := range aiModels {
		if m, ok := status.(map[string]any); ok && m["status"] == "unhealthy" {
			degraded = true
		}
	}

	breakers := s.checkCircuitBreakerHealth()
	health["circuit_breakers"] = breakers
	for _, status := range breakers {
		if m, ok := status.(map[string]any); ok && m["healthy"] == false {
			degraded = true
		}
	}

	if s.CertificateManager != nil {
		certHealth := s.checkCertificateHealth()
		health["certificates"] = certHealth
		if certHealth["status"] == "unhealthy" {
			degraded = true
		}
	}

	if s.RateLimiter != nil {
		health["rate_limiter"] = s.RateLimiter.Stats()
	}

	statusCode := http.StatusOK
	if degraded {
		health["status"] = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(health); err != nil {
		s.Logger.Error("Failed to encode health response", "error", err)
	}
}

// checkAIModelHealth probes the configured AI models for each operation.
// Operations without an API key report not_configured rather than unhealthy
// because the heuristic paths still work without one.
func (s *Server) checkAIModelHealth(ctx context.Context) map[string]any {
	result := make(map[string]any)

	operations := map[string]config.OperationAIConfig{
		"analyze": s.AppConfig.GetAnalyzeConfig(),
		"suggest": s.AppConfig.GetSuggestConfig(),
	}

	for operation, opConfig := range operations {
		if opConfig.APIKey == "" {
			result[operation] = map[string]any{"status": "not_configured"}
			continue
		}

		checkCtx, cancel := context.WithTimeout(ctx, s.AppConfig.Observability.HealthCheck.AIModelCheckTimeout)
		status := s.probeModel(checkCtx, &opConfig, operation)
		cancel()
		result[operation] = status
	}

	return result
}

func (s *Server) probeModel(ctx context.Context, opConfig *config.OperationAIConfig, operation string) map[string]any {
	service, err := ai.NewService(opConfig, operation, s.Logger)
	if err != nil {
		return map[string]any{
			"status": "unhealthy",
			"error":  err.Error(),
		}
	}
	defer func() {
		if err := service.Provider.Close(); err != nil {
			s.Logger.Warn("Failed to close AI provider after health check", "operation", operation, "error", err)
		}
	}()

	info := service.GetModelInfo(ctx)
	if info == nil {
		return map[string]any{
			"status": "unhealthy",
			"error":  "model info unavailable",
		}
	}

	return map[string]any{
		"status": "healthy",
		"model":  opConfig.Model,
	}
}

// checkCircuitBreakerHealth reports breaker state for each AI operation
func (s *Server) checkCircuitBreakerHealth() map[string]any {
	result := make(map[string]any)

	operations := map[string]config.OperationAIConfig{
		"analyze": s.AppConfig.GetAnalyzeConfig(),
		"suggest": s.AppConfig.GetSuggestConfig(),
	}

	for operation, opConfig := range operations {
		if opConfig.APIKey == "" {
			continue
		}

		service, err := ai.NewService(&opConfig, operation, s.Logger)
		if err != nil {
			result[operation] = map[string]any{
				"healthy": false,
				"error":   err.Error(),
			}
			continue
		}

		if gemini, ok := service.Provider.(*ai.GeminiProvider); ok {
			result[operation] = gemini.GetCircuitBreakerStats()
		}
		if err := service.Provider.Close(); err != nil {
			s.Logger.Warn("Failed to close AI provider after breaker check", "operation", operation, "error", err)
		}
	}

	return result
}

// checkCertificateHealth inspects the loaded certificate's validity window
func (s *Server) checkCertificateHealth() map[string]any {
	expiry, err := s.CertificateManager.GetCertificateExpiry()
	if err != nil {
		return map[string]any{
			"status": "unhealthy",
			"error":  err.Error(),
		}
	}

	now := time.Now()
	remaining := expiry.Sub(now)
	status := "healthy"
	if remaining <= 0 {
		status = "unhealthy"
	} else if remaining < 7*24*time.Hour {
		status = "expiring_soon"
	}

	return map[string]any{
		"status":     status,
		"expires_at": expiry.UTC().Format(time.RFC3339),
		"remaining":  remaining.Round(time.Second).String(),
		"reloads":    s.CertificateManager.ReloadCount(),
	}
}

// versionHandler returns build information
func (s *Server) versionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	response := map[string]string{
		"service": "resumeforge",
		"version": s.Version,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.Logger.Error("Failed to encode version response", "error", err)
	}
}

// statsHandler exposes rate limiter counters for operational visibility
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if s.RateLimiter != nil {
		stats["rate_limiter"] = s.RateLimiter.Stats()
	} else {
		stats["rate_limiter"] = map[string]any{"enabled": false}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		s.Logger.Error("Failed to encode stats response", "error", err)
	}
}

// parseJSONRequest decodes a JSON request body with content type and size checks
func parseJSONRequest(r *http.Request, v any) error {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return fmt.Errorf("unsupported content type %q, expected application/json", contentType)
	}

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body exceeds the %d byte limit", maxBytesErr.Limit)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	return nil
}

// writeErrorResponse sends a structured JSON error
func writeErrorResponse(w http.ResponseWriter, errorType, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := ErrorResponse{
		Error:   errorType,
		Message: message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
