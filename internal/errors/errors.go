package errors

import (
	"fmt"
	"log/slog"
	"os"
)

// ErrorType classifies an AppError by the subsystem it originated in
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeExtraction ErrorType = "extraction"
	ErrorTypeAnalysis   ErrorType = "analysis"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeAI         ErrorType = "ai"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// Stable machine-readable codes carried by AppError
const (
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable   = "FILE_NOT_READABLE"
	ErrCodeFileTooLarge      = "FILE_TOO_LARGE"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeExtractionFailed  = "EXTRACTION_FAILED"
	ErrCodeAnalysisFailed    = "ANALYSIS_FAILED"
	ErrCodeAIServiceFailed   = "AI_SERVICE_FAILED"
	ErrCodeAITimeout         = "AI_TIMEOUT"
	ErrCodeCircuitOpen       = "CIRCUIT_OPEN"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeInvalidFormat     = "INVALID_FORMAT"
	ErrCodeMissingAPIKey     = "MISSING_API_KEY"
	ErrCodeNetworkTimeout    = "NETWORK_TIMEOUT"
	ErrCodeInvalidConfig     = "INVALID_CONFIG"
)

// AppError carries a type, a stable code, and optional structured context
// alongside the human-readable message. It wraps the underlying cause so
// errors.Is and errors.As keep working through it.
type AppError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"cause,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithContext attaches a key/value pair for structured logging
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

func typed(t ErrorType) func(code, message string, cause error) *AppError {
	return func(code, message string, cause error) *AppError {
		return &AppError{Type: t, Code: code, Message: message, Cause: cause}
	}
}

// Per-type constructors
var (
	NewValidationError = typed(ErrorTypeValidation)
	NewExtractionError = typed(ErrorTypeExtraction)
	NewAnalysisError   = typed(ErrorTypeAnalysis)
	NewIOError         = typed(ErrorTypeIO)
	NewAIError         = typed(ErrorTypeAI)
	NewNetworkError    = typed(ErrorTypeNetwork)
	NewConfigError     = typed(ErrorTypeConfig)
	NewInternalError   = typed(ErrorTypeInternal)
)

// Logger is a thin wrapper over slog that knows how to flatten AppError
// fields into log attributes. Output is JSON on stdout.
type Logger struct {
	inner *slog.Logger
}

// NewLogger creates a logger at the given slog level
func NewLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return &Logger{inner: slog.New(handler)}
}

var levelNames = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New creates a logger from a textual level name
func New(level string) (*Logger, error) {
	lvl, ok := levelNames[level]
	if !ok {
		return nil, fmt.Errorf("invalid log level: %s", level)
	}
	return NewLogger(lvl), nil
}

// LogError logs at error level. AppError type, code, message, and context
// become individual attributes; plain errors log under a single key.
func (l *Logger) LogError(err error, message string, args ...any) {
	appErr, ok := err.(*AppError)
	if !ok {
		l.inner.Error(message, append([]any{"error", err.Error()}, args...)...)
		return
	}

	attrs := []any{
		"error_type", appErr.Type,
		"error_code", appErr.Code,
		"error_message", appErr.Message,
	}
	for k, v := range appErr.Context {
		attrs = append(attrs, k, v)
	}
	l.inner.Error(message, append(attrs, args...)...)
}

func (l *Logger) Error(message string, args ...any) {
	l.inner.Error(message, args...)
}

func (l *Logger) Info(message string, args ...any) {
	l.inner.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.inner.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.inner.Warn(message, args...)
}
