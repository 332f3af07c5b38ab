package server

import (
	"time"

	"resumeforge/internal/config"
	resumeforgeErrors "resumeforge/internal/errors"
	"resumeforge/internal/types"
)

// AnalyzeRequest is the request body for the analyze endpoint
type AnalyzeRequest struct {
	JobDescription string `json:"jobDescription"`
}

// MatchRequest is the request body for the match endpoint
type MatchRequest struct {
	Resume         types.ResumeContent `json:"resume"`
	JobDescription string              `json:"jobDescription"`
}

// SuggestRequest is the request body for the suggest endpoint
type SuggestRequest struct {
	Resume         types.ResumeContent `json:"resume"`
	JobDescription string              `json:"jobDescription"`
}

// ATSRequest is the request body for the ats endpoint
type ATSRequest struct {
	ResumeText string `json:"resumeText"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server carries the HTTP server's configuration and long-lived components.
// Fields are exported so the serve command can inspect them after setup.
type Server struct {
	Host    string
	Port    string
	Version string

	AppConfig *config.Config
	TLSConfig config.TLSConfig

	CertificateManager *CertificateManager

	// APIKeys maps each configured key to true for O(1) lookup
	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Logger *resumeforgeErrors.Logger
}

// Options holds configuration for creating a Server instance
type Options struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance
func NewServer(appCfg *config.Config, opts Options, logger *resumeforgeErrors.Logger) *Server {
	s := &Server{
		Host:           opts.Host,
		Port:           opts.Port,
		Version:        opts.Version,
		AppConfig:      appCfg,
		TLSConfig:      opts.TLSConfig,
		APIKeys:        make(map[string]bool, len(opts.APIKeys)),
		ReadTimeout:    opts.ReadTimeout,
		WriteTimeout:   opts.WriteTimeout,
		IdleTimeout:    opts.IdleTimeout,
		MaxRequestSize: opts.MaxRequestSize,
		RateLimit:      opts.RateLimit,
		Logger:         logger,
	}

	for _, key := range opts.APIKeys {
		if key != "" {
			s.APIKeys[key] = true
		}
	}

	if opts.RateLimit != nil && opts.RateLimit.Enabled {
		s.RateLimiter = NewRateLimiter(
			opts.RateLimit.RequestsPerMin,
			opts.RateLimit.Window,
			opts.RateLimit.BurstCapacity,
			logger,
		)
	}

	return s
}
