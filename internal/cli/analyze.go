package cli

import (
	"context"
	"fmt"

	"resumeforge/internal/ai"
	"resumeforge/internal/analyzer"
	"resumeforge/internal/common"
	"resumeforge/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [job-description-file]",
	Short: "Analyze a job description into a requirements profile",
	Long: `Analyze a job description and extract a structured requirements profile:
required and preferred skills, qualifications, key responsibilities, culture
keywords, experience level, and industry.

When an AI API key is configured the analysis runs through the AI provider.
Without one a keyword-based analysis runs locally.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyDefaultFormat(cmd.Context(), &analyzeConfig)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	createInput := func(contents []string) (string, error) {
		if len(contents) != 1 {
			return "", fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return contents[0], nil
	}

	logDetails := func(jobText string, cmdCfg common.CommandConfig) {
		logger.Info("Starting job description analysis",
			"job_chars", len(jobText),
			"output_format", cmdCfg.OutputFormat)
	}

	analyzeAIConfig := cfg.GetAnalyzeConfig()
	if analyzeAIConfig.APIKey == "" {
		logger.Info("No AI API key configured, using local analysis")
		err := common.RunLocalCommand(
			cmd.Context(),
			logger,
			analyzeConfig,
			args,
			createInput,
			func(ctx context.Context, jobText string) (types.JobAnalysis, error) {
				return analyzer.Analyze(jobText), nil
			},
			logDetails,
		)
		if err != nil {
			return fmt.Errorf("failed to analyze job description: %w", err)
		}
		logger.Info("Job description analysis completed successfully")
		return nil
	}

	aiService, err := ai.NewService(&analyzeAIConfig, "analyze", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	analyzeOperation := func(ctx context.Context, jobText string) (types.JobAnalysis, *ai.TokenUsage, error) {
		return aiService.Provider.AnalyzeJob(ctx, jobText)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args,
		createInput,
		analyzeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze job description: %w", err)
	}
	logger.Info("Job description analysis completed successfully")
	return nil
}
