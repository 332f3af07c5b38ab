package cli

import (
	"fmt"

	"resumeforge/internal/common"
	"resumeforge/internal/export"
	"resumeforge/internal/parser"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [resume-file]",
	Short: "Export a resume in a different format",
	Long: `Parse a resume document and export it in another format.

Formats:
- text:     plain text with standard section headings
- document: formatted text layout suitable for printing
- markdown: markdown with section headers
- json:     the structured resume as JSON`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if exportConfig.OutputFormat == "" {
			exportConfig.OutputFormat = "text"
		}
		switch exportConfig.OutputFormat {
		case "text", "document", "markdown", "json":
			return nil
		default:
			return fmt.Errorf("unsupported export format '%s'. Supported formats: [text document markdown json]", exportConfig.OutputFormat)
		}
	},
	RunE: runExport,
}

var exportConfig common.CommandConfig

func init() {
	exportCmd.Flags().StringVarP(&exportConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	exportCmd.Flags().StringVar(&exportConfig.OutputFormat, "format", "", "Export format: text, document, markdown, or json")

	_ = exportCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "document", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func runExport(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	fileProcessor := common.NewFileProcessor(logger)
	resumeText, err := fileProcessor.ReadDocument(args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	logger.Info("Starting resume export",
		"file", args[0],
		"format", exportConfig.OutputFormat)

	resume := parser.Parse(resumeText)

	// The document layout has no registry formatter, so handle it here
	if exportConfig.OutputFormat == "document" {
		content := export.Document(resume)
		if exportConfig.OutputFile != "" {
			if err := fileProcessor.WriteFile(exportConfig.OutputFile, content); err != nil {
				return err
			}
			logger.Info("Resume export completed successfully", "output_file", exportConfig.OutputFile)
			return nil
		}
		fmt.Print(content)
		return nil
	}

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(resume, exportConfig); err != nil {
		return err
	}

	logger.Info("Resume export completed successfully")
	return nil
}
