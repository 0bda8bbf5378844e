package cli

import (
	"errors"
	"fmt"
)

// ExitError represents a command failure with a specific exit code.
//
// Commands return it after reporting the failure themselves, so
// [RunWithConfig] does not print it again. The code reaches the shell
// through [ExecuteResult] and [Execute].
type ExitError struct {
	// Code is the exit code to return to the shell.
	// Convention: 0 = success, 1 = runtime failure, 2 = bad input.
	Code int
}

// Error implements the error interface in the "exit status N" format of
// os/exec.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError creates an [ExitError] with the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// IsExitError checks if err wraps an [ExitError] and extracts its exit code.
//
// Returns (0, false) for nil or any other error.
func IsExitError(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
