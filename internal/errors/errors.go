// Package errors provides a hierarchical error system for lofreq operations.
// It implements typed errors that can be inspected and handled differently
// based on their category, and maps each category to the process exit code
// the command-line front end reports for it.
package errors

import (
	"fmt"
)

// ErrorType represents the category of error for classification and handling.
type ErrorType string

// Error type constants define the categories of errors that can occur while
// dispatching commands and running the call pipeline.
const (
	ErrTypeUsage    ErrorType = "usage"
	ErrTypeCommand  ErrorType = "command"
	ErrTypeConfig   ErrorType = "config"
	ErrTypeParse    ErrorType = "parse"
	ErrTypeDelegate ErrorType = "delegate"
	ErrTypeExternal ErrorType = "external"
)

// Process exit codes reported for each error category. ExitLaunchFailure is
// deliberately distinct from ExitFailure so that callers can tell "the
// filter delegate never ran" apart from "something ran and failed".
const (
	ExitSuccess       = 0
	ExitFailure       = 1
	ExitLaunchFailure = 255
)

// LofreqError is the base error type that provides structured error
// information. The optional Path carries the file or program the error
// relates to; Cause preserves the underlying error for unwrapping.
type LofreqError struct {
	Type    ErrorType
	Path    string
	Message string
	Cause   error
}

func (e *LofreqError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Type, e.Path, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *LofreqError) Unwrap() error {
	return e.Cause
}

// Is implements error identity checking so that errors.Is() matches on the
// error category rather than on pointer identity.
func (e *LofreqError) Is(target error) bool {
	t, ok := target.(*LofreqError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// ExitCode returns the process exit code this error category maps to.
// Delegate launch failures get the distinguished sentinel; everything else
// is a generic failure.
func (e *LofreqError) ExitCode() int {
	if e.Type == ErrTypeDelegate {
		return ExitLaunchFailure
	}
	return ExitFailure
}

// UsageError represents invocations that cannot be dispatched because the
// argument vector is too short for a subcommand to be named.
type UsageError struct {
	*LofreqError
}

// NewUsageError creates a usage error.
func NewUsageError(message string) *UsageError {
	return &UsageError{
		LofreqError: &LofreqError{
			Type:    ErrTypeUsage,
			Message: message,
		},
	}
}

// UnknownCommandError represents a first token that matches no known
// subcommand. Token preserves the offending argument for diagnostics.
type UnknownCommandError struct {
	*LofreqError
	Token string
}

// NewUnknownCommandError creates an unrecognized-command error naming the
// token that failed to match.
func NewUnknownCommandError(token string) *UnknownCommandError {
	return &UnknownCommandError{
		LofreqError: &LofreqError{
			Type:    ErrTypeCommand,
			Message: fmt.Sprintf("unrecognized command '%s'", token),
		},
		Token: token,
	}
}

// ConfigError represents configuration validation and parsing errors.
// Validation runs before any external process is started, so these errors
// always surface before resource-intensive work begins.
type ConfigError struct {
	*LofreqError
}

// NewConfigError creates a configuration error without file context.
func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{
		LofreqError: &LofreqError{
			Type:    ErrTypeConfig,
			Message: message,
			Cause:   cause,
		},
	}
}

// NewConfigErrorWithPath creates a configuration error tied to a specific
// file, such as a malformed defaults file.
func NewConfigErrorWithPath(path, message string, cause error) *ConfigError {
	return &ConfigError{
		LofreqError: &LofreqError{
			Type:    ErrTypeConfig,
			Path:    path,
			Message: message,
			Cause:   cause,
		},
	}
}

// ParseError represents malformed input data: pileup columns, BED region
// tables or samtools header lines that do not follow their format.
type ParseError struct {
	*LofreqError
}

// NewParseError creates a parsing error. Path may name the input file, or
// be empty for stream input.
func NewParseError(path, message string, cause error) *ParseError {
	return &ParseError{
		LofreqError: &LofreqError{
			Type:    ErrTypeParse,
			Path:    path,
			Message: message,
			Cause:   cause,
		},
	}
}

// DelegateError represents a failure to start an external delegate, i.e.
// the delegate never ran. Program names the executable that could not be
// launched.
type DelegateError struct {
	*LofreqError
	Program string
}

// NewDelegateError creates a delegation launch failure naming the program
// that could not be started.
func NewDelegateError(program, message string, cause error) *DelegateError {
	return &DelegateError{
		LofreqError: &LofreqError{
			Type:    ErrTypeDelegate,
			Path:    program,
			Message: message,
			Cause:   cause,
		},
		Program: program,
	}
}

// ExternalToolError represents a collaborator process (samtools) that could
// be started but failed or produced unusable output. Unlike DelegateError
// the collaborator did run, so the generic failure exit code applies.
type ExternalToolError struct {
	*LofreqError
	Tool string
}

// NewExternalToolError creates an external-tool error naming the tool.
func NewExternalToolError(tool, message string, cause error) *ExternalToolError {
	return &ExternalToolError{
		LofreqError: &LofreqError{
			Type:    ErrTypeExternal,
			Path:    tool,
			Message: message,
			Cause:   cause,
		},
		Tool: tool,
	}
}

// ExitCode extracts the process exit code for err. Typed errors report
// their category's code; any other non-nil error is a generic failure.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	type exitCoder interface {
		ExitCode() int
	}
	if ec, ok := err.(exitCoder); ok {
		return ec.ExitCode()
	}
	return ExitFailure
}
