package cli

import (
	"fmt"

	"resumeforge/internal/ai"
	"resumeforge/internal/analyzer"
	"resumeforge/internal/common"
	"resumeforge/internal/parser"
	"resumeforge/internal/suggest"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [resume-file] [job-description-file]",
	Short: "Generate suggestions to improve a resume for a job",
	Long: `Generate targeted improvement suggestions for a resume against a specific
job description. Experience bullets are rewritten by the AI provider to better
match the posting, and skill gaps are flagged with suggested additions.

Requires an AI API key to be configured.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyDefaultFormat(cmd.Context(), &suggestConfig)
	},
	RunE: runSuggest,
}

var suggestConfig common.CommandConfig

func init() {
	suggestCmd.Flags().StringVarP(&suggestConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	suggestCmd.Flags().StringVar(&suggestConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = suggestCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	suggestAIConfig := cfg.GetSuggestConfig()
	aiService, err := ai.NewService(&suggestAIConfig, "suggest", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	fileProcessor := common.NewFileProcessor(logger)

	resumeText, err := fileProcessor.ReadDocument(args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	jobText, err := fileProcessor.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	logger.Info("Starting suggestion generation",
		"resume_chars", len(resumeText),
		"job_chars", len(jobText),
		"output_format", suggestConfig.OutputFormat)

	resume := parser.Parse(resumeText)
	job := analyzer.Analyze(jobText)

	engine := suggest.NewEngine(aiService.Provider, logger, suggest.Options{
		MaxSuggestions: cfg.App.MaxSuggestions,
		MinRelevance:   cfg.App.MinRelevance,
	})
	suggestions := engine.Generate(cmd.Context(), resume, job)

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(suggestions, suggestConfig); err != nil {
		return err
	}

	logger.Info("Suggestion generation completed successfully",
		"suggestions", len(suggestions))
	return nil
}
