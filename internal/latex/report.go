package latex

import (
	"fmt"
	"sort"
	"strings"
)

// logTailLimit bounds the log excerpt included in diagnostics.
const logTailLimit = 2000

// TailLog returns at most logTailLimit trailing characters of the log.
func TailLog(logContent string) string {
	if len(logContent) <= logTailLimit {
		return logContent
	}
	return logContent[len(logContent)-logTailLimit:]
}

// BuildDiagnostic composes the single human-readable failure message
// surfaced to the boundary layer: headline with strategy and exit code, raw
// STDOUT/STDERR blocks, a bounded log excerpt, and an error analysis section
// enumerating each classified category with comma-joined evidence.
func BuildDiagnostic(strategy string, exitCode int, stdout, stderr, logTail string, report ErrorReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "LaTeX compilation failed (method: %s, exit code: %d)\n", strategy, exitCode)
	fmt.Fprintf(&b, "STDERR: %s\n", stderr)
	fmt.Fprintf(&b, "STDOUT: %s", stdout)

	if logTail != "" {
		fmt.Fprintf(&b, "\nLOG: %s", logTail)
	}

	if len(report) > 0 {
		b.WriteString("\n\nERROR ANALYSIS:\n")
		categories := make([]string, 0, len(report))
		for cat := range report {
			categories = append(categories, string(cat))
		}
		sort.Strings(categories)
		for _, cat := range categories {
			evidence := report[Category(cat)]
			if len(evidence) == 0 {
				continue
			}
			fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(cat), strings.Join(evidence, ", "))
		}
	}

	return b.String()
}
