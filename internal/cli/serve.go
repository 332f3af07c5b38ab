package cli

import (
	"fmt"

	"resumeforge/internal/config"
	"resumeforge/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server that provides REST API endpoints for resume parsing,
job analysis, match scoring, suggestions, and ATS compliance checks.

Available endpoints:
- POST /api/v1/parse: Parse an uploaded resume into structured form
- POST /api/v1/analyze: Analyze a job description
- POST /api/v1/match: Score a resume against a job description
- POST /api/v1/suggest: Generate improvement suggestions
- POST /api/v1/ats: Check ATS compliance of resume text
- GET /health: Health check endpoint
- GET /version: Build information
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	RunE: runServe,
}

// serveFlagBindings maps each serve flag to the config key it overrides
var serveFlagBindings = map[string]string{
	"port":      "server.port",
	"host":      "server.host",
	"tls-mode":  "server.tls.mode",
	"cert-file": "server.tls.certfile",
	"key-file":  "server.tls.keyfile",
	"ca-file":   "server.tls.cafile",
}

func init() {
	flags := serveCmd.Flags()
	flags.StringP("port", "p", "", "Port to listen on (default from config)")
	flags.String("host", "", "Host to bind to (default from config)")
	flags.String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	flags.String("cert-file", "", "Server certificate file (PEM, overrides config)")
	flags.String("key-file", "", "Server private key file (PEM, overrides config)")
	flags.String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")

	for flagName, key := range serveFlagBindings {
		if err := viper.BindPFlag(key, flags.Lookup(flagName)); err != nil {
			panic(err)
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Validate TLS configuration after flag overrides have been applied
	overlaid := &config.Config{Server: cfg.Server}
	if err := overlaid.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	srv := server.NewServer(cfg, server.Options{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		RateLimit:      &cfg.Server.RateLimit,
	}, logger)

	return srv.Start()
}
