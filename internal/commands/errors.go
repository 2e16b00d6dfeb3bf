package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	commandValidationCode   = "COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "COMMAND_EXECUTION_FAILED"
)

// tagCommandError wraps err with category and code and records the command
// type. Errors already carrying go-errors metadata pass through untouched so
// the generator's codes (COLLECTION_UNKNOWN, CONTENT_DATE_INVALID, ...) reach
// the caller.
func tagCommandError(err error, category goerrors.Category, code, commandType, message string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, commandType+": "+message).
		WithTextCode(code).
		WithMetadata(map[string]any{"command": commandType})
}

func wrapValidationError(commandType string, err error) error {
	return tagCommandError(err, goerrors.CategoryValidation, commandValidationCode, commandType, "invalid message")
}

func wrapContextError(commandType string, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return tagCommandError(err, goerrors.CategoryCommand, commandContextCanceled, commandType, "cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		return tagCommandError(err, goerrors.CategoryCommand, commandContextTimeout, commandType, "deadline exceeded")
	default:
		return tagCommandError(err, goerrors.CategoryCommand, commandContextErrorCode, commandType, "context error")
	}
}

func wrapExecuteError(commandType string, err error) error {
	return tagCommandError(err, goerrors.CategoryCommand, commandExecuteFailed, commandType, "execution failed")
}
