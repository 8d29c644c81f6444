package errors

import (
	"bufio"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryRouting   Category = "routing"
	CategoryConfig    Category = "config"
	CategoryDiscovery Category = "discovery"
	CategoryCodegen   Category = "codegen"
	CategoryManifest  Category = "manifest"
	CategoryDev       Category = "dev"
	CategoryCLI       Category = "cli"
)

// Location represents a source code location.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// TrellisError is a structured error with source location, suggestions,
// and documentation links, used by the CLI and dev server to present
// engine errors. The engine itself never imports this package.
type TrellisError struct {
	// Code is a unique error identifier (e.g., "T001").
	Code string

	// Category is the error type (routing, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the source location where the error occurred,
	// typically a route file.
	Location *Location

	// Context contains surrounding source code lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example is code or configuration showing the correct approach.
	Example string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *TrellisError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *TrellisError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds source location to the error.
func (e *TrellisError) WithLocation(file string, line, column int) *TrellisError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *TrellisError) WithSuggestion(s string) *TrellisError {
	e.Suggestion = s
	return e
}

// WithExample adds an example to the error.
func (e *TrellisError) WithExample(ex string) *TrellisError {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *TrellisError) WithDetail(d string) *TrellisError {
	e.Detail = d
	return e
}

// WithContext adds custom context lines to the error.
func (e *TrellisError) WithContext(lines []string) *TrellisError {
	e.Context = lines
	return e
}

// Wrap wraps another error.
func (e *TrellisError) Wrap(err error) *TrellisError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a TrellisError from a registered error code.
func New(code string) *TrellisError {
	template, ok := registry[code]
	if !ok {
		return &TrellisError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &TrellisError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new TrellisError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *TrellisError {
	return &TrellisError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a TrellisError.
func FromError(err error, code string) *TrellisError {
	if err == nil {
		return nil
	}
	if te, ok := err.(*TrellisError); ok {
		return te
	}
	return New(code).Wrap(err)
}
