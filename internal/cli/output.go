package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Exit codes for the julian command.
const (
	ExitSuccess      = 0 // every argument converted
	ExitFailure      = 1 // at least one argument could not be converted
	ExitCommandError = 2 // bad flags, configuration or database
)

// ExitError is an error carrying the exit status of the command. An empty
// Message means the failure has already been reported.
type ExitError struct {
	Code    int
	Message string
	Err     error
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
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Reported reports whether err has already been written to the user.
func Reported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Message == "" && exitErr.Err == nil
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{FormatText, FormatJSON, FormatYAML}

// OutputFormatter writes command results as text, JSON or YAML.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics and per-argument errors in text mode
}

// CLIResponse is the document written in JSON and YAML modes.
type CLIResponse struct {
	Status string      `json:"status" yaml:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty" yaml:"data,omitempty"`
	Errors []CLIError  `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// CLIError describes one failed input.
type CLIError struct {
	Input   string `json:"input,omitempty" yaml:"input,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// Structured reports whether output is a single JSON or YAML document.
func (f *OutputFormatter) Structured() bool {
	return f.Format == FormatJSON || f.Format == FormatYAML
}

// Line writes one line of text output.
func (f *OutputFormatter) Line(s string) {
	fmt.Fprintln(f.Writer, s)
}

// Failure reports a failed input on the error writer.
func (f *OutputFormatter) Failure(input string, err error) {
	fmt.Fprintf(f.errWriter(), "julian: %s: %v\n", input, err)
}

// Document writes data and errs as one CLIResponse.
func (f *OutputFormatter) Document(data interface{}, errs []CLIError) error {
	resp := CLIResponse{Status: "ok", Data: data, Errors: errs}
	if len(errs) > 0 {
		resp.Status = "error"
	}

	switch f.Format {
	case FormatYAML:
		enc := yaml.NewEncoder(f.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
}

func (f *OutputFormatter) errWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
