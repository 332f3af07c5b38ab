package cli

import (
	"fmt"

	"resumeforge/internal/common"
	"resumeforge/internal/parser"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [resume-file]",
	Short: "Parse a resume into structured form",
	Long: `Parse a resume document into structured sections: contact information,
summary, skills, experience, education, and certifications.

Supported input formats: PDF, DOCX, DOC, and plain text.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyDefaultFormat(cmd.Context(), &parseConfig)
	},
	RunE: runParse,
}

var parseConfig common.CommandConfig

func init() {
	parseCmd.Flags().StringVarP(&parseConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	parseCmd.Flags().StringVar(&parseConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = parseCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runParse(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	fileProcessor := common.NewFileProcessor(logger)
	text, err := fileProcessor.ReadDocument(args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	logger.Info("Starting resume parsing",
		"file", args[0],
		"resume_chars", len(text),
		"output_format", parseConfig.OutputFormat)

	resume := parser.Parse(text)

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(resume, parseConfig); err != nil {
		return err
	}

	logger.Info("Resume parsing completed successfully",
		"skills", len(resume.Skills),
		"experience_entries", len(resume.Experience))
	return nil
}
