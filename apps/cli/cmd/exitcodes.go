package cmd

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/barbouse/packages/core/parser"
	"github.com/abdul-hamid-achik/barbouse/packages/http"
)

// Exit codes for barbouse CLI
const (
	// ExitSuccess indicates every file was processed
	ExitSuccess = 0

	// ExitFailure indicates a file failed for any other reason
	ExitFailure = 1

	// ExitParseError indicates a malformed request file or filter
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// ExitError carries the process exit code for an error returned by a
// command. A nil Err means the failure was already reported.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps a per-file error to its exit code.
func exitCodeFor(err error) int {
	var (
		formatErr    *parser.FormatError
		compileErr   *parser.FilterCompileError
		transportErr *http.TransportError
		exitErr      *ExitError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.As(err, &formatErr), errors.As(err, &compileErr):
		return ExitParseError
	case errors.As(err, &transportErr):
		return ExitNetworkError
	default:
		return ExitFailure
	}
}
