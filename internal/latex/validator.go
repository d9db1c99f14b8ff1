package latex

import (
	"strings"

	"github.com/cvitae/latexsvc/internal/errors"
)

const (
	markerDocumentClass = `\documentclass`
	markerBeginDocument = `\begin{document}`
	markerEndDocument   = `\end{document}`
)

// PrepareSource runs the cheap structural checks a compile requires and
// returns the source to actually compile. A missing \end{document} is the
// one silently repaired case: it is appended and compilation continues.
// Callers should surface that this mutation can happen.
func PrepareSource(source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", errors.EmptySource()
	}
	if !strings.Contains(source, markerDocumentClass) {
		return "", errors.Structural("LaTeX content missing \\documentclass declaration")
	}
	if !strings.Contains(source, markerBeginDocument) {
		return "", errors.Structural("LaTeX content missing \\begin{document}")
	}
	if !strings.Contains(source, markerEndDocument) {
		source = strings.TrimRight(source, " \t\r\n") + "\n" + markerEndDocument
	}
	return source, nil
}

// ValidationResult is the outcome of the non-compiling structure check.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateStructure performs syntax-level checks without compiling. It never
// touches the filesystem or spawns processes, and reports findings as a
// warning list instead of failing: a missing \end{document} or unbalanced
// braces simply mark the source invalid.
func ValidateStructure(source string) ValidationResult {
	var validationErrors []string

	if !strings.Contains(source, markerDocumentClass) {
		validationErrors = append(validationErrors, "Missing \\documentclass")
	}
	if !strings.Contains(source, markerBeginDocument) {
		validationErrors = append(validationErrors, "Missing \\begin{document}")
	}
	if !strings.Contains(source, markerEndDocument) {
		validationErrors = append(validationErrors, "Missing \\end{document}")
	}

	// Simplified balance check: raw counts, ignoring escaped braces.
	if strings.Count(source, "{") != strings.Count(source, "}") {
		validationErrors = append(validationErrors, "Unbalanced braces")
	}

	return ValidationResult{
		Valid:  len(validationErrors) == 0,
		Errors: validationErrors,
	}
}
