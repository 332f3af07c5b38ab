package cli

import (
	"fmt"

	"resumeforge/internal/analyzer"
	"resumeforge/internal/ats"
	"resumeforge/internal/common"
	"resumeforge/internal/export"
	"resumeforge/internal/match"
	"resumeforge/internal/parser"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match [resume-file] [job-description-file]",
	Short: "Score a resume against a job description",
	Long: `Compute a match analysis between a resume and a job description.
The analysis includes an overall score, skill and experience sub-scores,
matched and missing keywords, and an ATS compliance score.

The resume may be a PDF, DOCX, DOC, or plain text file. The job description
should be plain text.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyDefaultFormat(cmd.Context(), &matchConfig)
	},
	RunE: runMatch,
}

var matchConfig common.CommandConfig

func init() {
	matchCmd.Flags().StringVarP(&matchConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	matchCmd.Flags().StringVar(&matchConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = matchCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runMatch(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	fileProcessor := common.NewFileProcessor(logger)

	resumeText, err := fileProcessor.ReadDocument(args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	jobText, err := fileProcessor.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	logger.Info("Starting match analysis",
		"resume_chars", len(resumeText),
		"job_chars", len(jobText),
		"output_format", matchConfig.OutputFormat)

	resume := parser.Parse(resumeText)
	job := analyzer.Analyze(jobText)

	atsReport, err := ats.Check(export.PlainText(resume))
	if err != nil {
		return fmt.Errorf("failed to check ATS compliance: %w", err)
	}

	result := match.Analysis(resume, job, nil, atsReport.OverallScore)

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(result, matchConfig); err != nil {
		return err
	}

	logger.Info("Match analysis completed successfully",
		"overall_score", result.OverallScore,
		"missing_keywords", len(result.MissingKeywords))
	return nil
}
