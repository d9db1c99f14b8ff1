// Package errors provides a lightweight structured error type (LatexError)
// for category-based classification in the compile pipeline and HTTP adapter.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a service error for classification
type ErrorCategory string

const (
	// User-facing input errors
	CategoryValidation ErrorCategory = "validation"

	// External toolchain errors
	CategoryCompile    ErrorCategory = "compile"
	CategoryConvert    ErrorCategory = "convert"
	CategoryDependency ErrorCategory = "dependency"

	// Runtime and infrastructure errors
	CategoryWorkspace ErrorCategory = "workspace"
	CategoryInternal  ErrorCategory = "internal"
)

// ErrorCode identifies the precise failure class within a category. Codes are
// stable contract strings surfaced in JSON error responses.
type ErrorCode string

const (
	CodeEmptySource       ErrorCode = "EMPTY_SOURCE"
	CodeStructuralError   ErrorCode = "STRUCTURAL_ERROR"
	CodeCompilationFailed ErrorCode = "COMPILATION_FAILED"
	CodeOutputMissing     ErrorCode = "OUTPUT_MISSING"
	CodeConversionFailed  ErrorCode = "CONVERSION_FAILED"
	CodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	CodeMissingDependency ErrorCode = "MISSING_DEPENDENCY"
	CodeInternal          ErrorCode = "INTERNAL"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops process startup
	SeverityError   ErrorSeverity = "error"   // Request fails
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// LatexError is a structured error with category, code, and context
type LatexError struct {
	Category ErrorCategory `json:"category"`
	Code     ErrorCode     `json:"code"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"-"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for LatexError
type ContextFields map[string]any

// Error implements the error interface
func (e *LatexError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Code, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *LatexError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *LatexError) WithContext(key string, value any) *LatexError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new LatexError
func New(category ErrorCategory, code ErrorCode, message string) *LatexError {
	return &LatexError{
		Category: category,
		Code:     code,
		Severity: SeverityError,
		Message:  message,
	}
}

// Wrap creates a new LatexError that wraps an existing error
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *LatexError {
	return &LatexError{
		Category: category,
		Code:     code,
		Severity: SeverityError,
		Message:  message,
		Cause:    err,
	}
}

// IsCode checks if an error carries a specific code
func IsCode(err error, code ErrorCode) bool {
	var le *LatexError
	if errors.As(err, &le) {
		return le.Code == code
	}
	return false
}

// GetCategory extracts the category from an error, or CategoryInternal if not a LatexError
func GetCategory(err error) ErrorCategory {
	var le *LatexError
	if errors.As(err, &le) {
		return le.Category
	}
	return CategoryInternal
}

// EmptySource reports blank input source text.
func EmptySource() *LatexError {
	return New(CategoryValidation, CodeEmptySource, "empty LaTeX content provided")
}

// Structural reports a missing required document marker.
func Structural(message string) *LatexError {
	return New(CategoryValidation, CodeStructuralError, message)
}

// CompilationFailed carries the composed diagnostic of a failed compile.
func CompilationFailed(diagnostic string) *LatexError {
	return New(CategoryCompile, CodeCompilationFailed, diagnostic)
}

// OutputMissing reports a zero exit code without the expected artifact.
func OutputMissing(path string) *LatexError {
	return New(CategoryCompile, CodeOutputMissing, "PDF file was not generated").
		WithContext("expected_path", path)
}

// ConversionFailed carries stdout/stderr of a failed raster conversion.
func ConversionFailed(message string) *LatexError {
	return New(CategoryConvert, CodeConversionFailed, message)
}

// UnsupportedFormat rejects an image format outside {png, jpg, jpeg}.
func UnsupportedFormat(format string) *LatexError {
	return New(CategoryValidation, CodeUnsupportedFormat, "unsupported image format").
		WithContext("format", format)
}

// MissingDependency is fatal at startup: a required external tool is not invocable.
func MissingDependency(tools []string) *LatexError {
	e := New(CategoryDependency, CodeMissingDependency, "missing system dependencies")
	e.Severity = SeverityFatal
	return e.WithContext("tools", tools)
}

// HTTPStatus maps an error to the status code the boundary layer should emit.
func HTTPStatus(err error) int {
	var le *LatexError
	if errors.As(err, &le) {
		if le.Category == CategoryValidation {
			return 400
		}
	}
	return 500
}
