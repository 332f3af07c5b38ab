package ai

import (
	"resumeforge/internal/config"
	"resumeforge/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

// AICircuitBreaker guards content generation calls for one operation type.
type AICircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.GenerateContentResponse]
}

// ModelCircuitBreaker guards model availability lookups.
type ModelCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.Model]
}

func breakerSettings(name, operationType string, bcfg config.CircuitBreakerConfig, trip func(gobreaker.Counts) bool, logger *errors.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: bcfg.MaxRequests,
		Interval:    bcfg.Interval,
		Timeout:     bcfg.Timeout,
		ReadyToTrip: trip,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger == nil {
				return
			}
			logger.Info("Circuit breaker state changed",
				"name", name,
				"operation_type", operationType,
				"from", from.String(),
				"to", to.String())
		},
	}
}

// NewAICircuitBreaker builds a breaker for a single operation type using that
// operation's thresholds. Returns nil when the breaker is disabled, which
// callers treat as pass-through.
func NewAICircuitBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *AICircuitBreaker {
	bcfg := cfg.CircuitBreaker
	if !bcfg.Enabled {
		return nil
	}

	trip := func(counts gobreaker.Counts) bool {
		if counts.Requests < bcfg.MinRequests {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) >= bcfg.FailureThreshold
	}

	settings := breakerSettings("AI-"+operationType, operationType, bcfg, trip, logger)
	return &AICircuitBreaker{cb: gobreaker.NewCircuitBreaker[*genai.GenerateContentResponse](settings)}
}

// NewModelCircuitBreaker builds a breaker for model info lookups. Model
// availability failures matter less than generation failures, so the trip
// threshold is fixed and higher than the configured one.
func NewModelCircuitBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *ModelCircuitBreaker {
	bcfg := cfg.CircuitBreaker
	if !bcfg.Enabled {
		return nil
	}

	trip := func(counts gobreaker.Counts) bool {
		return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.8
	}

	settings := breakerSettings("AI-Model-"+operationType, operationType, bcfg, trip, logger)
	return &ModelCircuitBreaker{cb: gobreaker.NewCircuitBreaker[*genai.Model](settings)}
}

// Execute runs fn under the breaker. A nil receiver runs fn directly.
func (cb *AICircuitBreaker) Execute(fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

// ExecuteModel runs a model lookup under the breaker. A nil receiver runs fn
// directly.
func (cb *ModelCircuitBreaker) ExecuteModel(fn func() (*genai.Model, error)) (*genai.Model, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

func statsFor[T any](cb *gobreaker.CircuitBreaker[T]) map[string]any {
	if cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    cb.Name(),
		"state":   cb.State().String(),
		"counts":  cb.Counts(),
		"enabled": true,
	}
}

// GetStats reports the breaker's name, state and rolling counts.
func (cb *AICircuitBreaker) GetStats() map[string]any {
	if cb == nil {
		return map[string]any{"enabled": false}
	}
	return statsFor(cb.cb)
}

// GetModelStats reports the model breaker's name, state and rolling counts.
func (cb *ModelCircuitBreaker) GetModelStats() map[string]any {
	if cb == nil {
		return map[string]any{"enabled": false}
	}
	return statsFor(cb.cb)
}

// IsHealthy reports whether the breaker is closed. Nil breakers are healthy.
func (cb *AICircuitBreaker) IsHealthy() bool {
	return cb == nil || cb.cb == nil || cb.cb.State() == gobreaker.StateClosed
}

// IsModelHealthy reports whether the model breaker is closed. Nil breakers
// are healthy.
func (cb *ModelCircuitBreaker) IsModelHealthy() bool {
	return cb == nil || cb.cb == nil || cb.cb.State() == gobreaker.StateClosed
}
