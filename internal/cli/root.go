package cli

import (
	"context"

	"resumeforge/internal/common"
	"resumeforge/internal/config"
	"resumeforge/internal/errors"

	"github.com/spf13/cobra"
)

// Unexported context key types so the config and logger cannot collide with
// values set by other packages.
type (
	configKeyType struct{}
	loggerKeyType struct{}
)

var (
	configKey = configKeyType{}
	loggerKey = loggerKeyType{}
)

var rootCmd = &cobra.Command{
	Use:   "resumeforge",
	Short: "A CLI tool for matching resumes to job descriptions",
	Long: `ResumeForge parses resumes, analyzes job descriptions, and scores how
well a resume matches a given posting. It can generate AI-backed improvement
suggestions, check ATS compliance, and export resumes in several formats.`,
}

func init() {
	for _, cmd := range []*cobra.Command{
		parseCmd, analyzeCmd, matchCmd, suggestCmd,
		atsCmd, exportCmd, versionCmd, serveCmd,
	} {
		rootCmd.AddCommand(cmd)
	}
}

// Execute runs the root command with the config and logger attached to the
// context, where every subcommand can reach them.
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

func getConfigFromContext(ctx context.Context) *config.Config {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok {
		panic("config not found in context")
	}
	return cfg
}

func getLoggerFromContext(ctx context.Context) *errors.Logger {
	logger, ok := ctx.Value(loggerKey).(*errors.Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// applyDefaultFormat fills in the configured default output format and
// validates the result against the supported formats
func applyDefaultFormat(ctx context.Context, cmdConfig *common.CommandConfig) error {
	cfg := getConfigFromContext(ctx)
	if cmdConfig.OutputFormat == "" {
		cmdConfig.OutputFormat = cfg.App.DefaultFormat
	}
	return common.ValidateOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats)
}
