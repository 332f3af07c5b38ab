package cli

import (
	"fmt"

	"resumeforge/internal/ats"
	"resumeforge/internal/common"

	"github.com/spf13/cobra"
)

var atsCmd = &cobra.Command{
	Use:   "ats [resume-file]",
	Short: "Check a resume for ATS compliance",
	Long: `Check how well a resume will survive Applicant Tracking System parsing.
The report scores individual factors such as section headings, contact
information, formatting artifacts, and keyword density, and lists concrete
recommendations and critical issues.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyDefaultFormat(cmd.Context(), &atsConfig)
	},
	RunE: runATS,
}

var atsConfig common.CommandConfig

func init() {
	atsCmd.Flags().StringVarP(&atsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	atsCmd.Flags().StringVar(&atsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = atsCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runATS(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	fileProcessor := common.NewFileProcessor(logger)
	resumeText, err := fileProcessor.ReadDocument(args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	logger.Info("Starting ATS compliance check",
		"file", args[0],
		"resume_chars", len(resumeText),
		"output_format", atsConfig.OutputFormat)

	report, err := ats.Check(resumeText)
	if err != nil {
		return fmt.Errorf("failed to check ATS compliance: %w", err)
	}

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(report, atsConfig); err != nil {
		return err
	}

	logger.Info("ATS compliance check completed successfully",
		"overall_score", report.OverallScore,
		"critical_issues", len(report.CriticalIssues))
	return nil
}
