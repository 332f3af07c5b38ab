package common

import (
	"context"
	"fmt"
	"os"

	"resumeforge/internal/ai"
	"resumeforge/internal/errors"
)

// CreateInputFunc defines how to create the specific operation input from file contents.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// AIOperationFunc is a generic function signature for any AI operation with context and token usage.
type AIOperationFunc[Input, Output any] func(context.Context, Input) (Output, *ai.TokenUsage, error)

// LocalOperationFunc is a generic function signature for deterministic operations.
type LocalOperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// RunAICommand encapsulates the common logic for file-based CLI commands with token usage reporting.
func RunAICommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	aiOperation AIOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	return runCommand(ctx, logger, cmdConfig, args, createInput, logDetails,
		func(ctx context.Context, input Input) (Output, error) {
			result, tokenUsage, err := aiOperation(ctx, input)
			if err != nil {
				return result, err
			}
			reportTokenUsage(logger, tokenUsage)
			return result, nil
		})
}

// RunLocalCommand encapsulates the common logic for file-based CLI commands
// that run entirely locally.
func RunLocalCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation LocalOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	return runCommand(ctx, logger, cmdConfig, args, createInput, logDetails, operation)
}

func runCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	logDetails LogDetailsFunc[Input],
	operation LocalOperationFunc[Input, Output],
) error {
	// Pass the logger when creating helpers
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	logDetails(input, cmdConfig)

	result, err := operation(ctx, input)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}

func reportTokenUsage(logger *errors.Logger, tokenUsage *ai.TokenUsage) {
	if tokenUsage == nil {
		return
	}
	if logger != nil {
		logger.Info("AI token usage", "input_tokens", tokenUsage.InputTokens, "output_tokens", tokenUsage.OutputTokens, "total_tokens", tokenUsage.TotalTokens)
	} else {
		fmt.Fprintf(os.Stderr, "AI token usage: input=%d, output=%d, total=%d\n", tokenUsage.InputTokens, tokenUsage.OutputTokens, tokenUsage.TotalTokens)
	}
}
