package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
	"github.com/Davimalu/TourPlanner-sub000/internal/tourfile"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Domain failure (tour not found, validation failed, store error)
	ExitCommandError = 2 // Command error (bad flags, database cannot be opened, unreadable file)
)

// Error codes reported in CLI output.
const (
	ErrCodeGeneric    = "E001" // Generic/unknown error
	ErrCodeNotFound   = "E005" // Tour or log not found
	ErrCodeValidation = "E010" // Input rejected
	ErrCodeSchema     = "E011" // Snapshot file violates the schema
	ErrCodeStore      = "E020" // Store call failed
	ErrCodeWrite      = "E030" // Output file could not be written
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string      `json:"status"`           // "ok" or "error"
	Data    interface{} `json:"data,omitempty"`   // success payload
	Error   *CLIError   `json:"error,omitempty"`  // error details
	OpID    string      `json:"op_id,omitempty"`  // synchronizer operation id
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E005", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// SuccessWithOp outputs a successful result tagged with an operation id.
func (f *OutputFormatter) SuccessWithOp(opID string, data interface{}) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "ok",
			Data:   data,
			OpID:   opID,
		})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}

// Fail reports err through the formatter and returns the matching ExitError.
// Domain failures exit with ExitFailure; anything unclassified is a command
// error.
func (f *OutputFormatter) Fail(message string, err error) error {
	code, exit := classifyError(err)

	var details interface{}
	var schemaErr *tourfile.SchemaError
	if errors.As(err, &schemaErr) {
		details = map[string]string{"path": schemaErr.Path, "reason": schemaErr.Message}
	}

	if outErr := f.Error(code, fmt.Sprintf("%s: %v", message, err), details); outErr != nil {
		return outErr
	}
	return WrapExitError(exit, message, err)
}

// classifyError maps an error onto an output code and exit code.
func classifyError(err error) (string, int) {
	var schemaErr *tourfile.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		return ErrCodeSchema, ExitFailure
	case tour.IsNotFound(err):
		return ErrCodeNotFound, ExitFailure
	case tour.IsValidation(err):
		return ErrCodeValidation, ExitFailure
	case tour.IsStoreFailure(err):
		return ErrCodeStore, ExitFailure
	default:
		return ErrCodeGeneric, ExitCommandError
	}
}
