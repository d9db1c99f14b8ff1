package latex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTailLog_Short(t *testing.T) {
	assert.Equal(t, "short log", TailLog("short log"))
}

func TestTailLog_Bounded(t *testing.T) {
	long := strings.Repeat("x", 5000) + "TAIL"
	tail := TailLog(long)
	assert.Len(t, tail, logTailLimit)
	assert.True(t, strings.HasSuffix(tail, "TAIL"))
}

func TestBuildDiagnostic_Sections(t *testing.T) {
	report := ErrorReport{
		CategoryUndefinedCommands: {`\resumeItem`, `\foo`},
		CategoryMissingDollar:     {"Unescaped $ characters or math mode issues"},
	}
	msg := BuildDiagnostic("pdflatex", 1, "out text", "err text", "log tail here", report)

	assert.Contains(t, msg, "LaTeX compilation failed (method: pdflatex, exit code: 1)")
	assert.Contains(t, msg, "STDOUT: out text")
	assert.Contains(t, msg, "STDERR: err text")
	assert.Contains(t, msg, "LOG: log tail here")
	assert.Contains(t, msg, "ERROR ANALYSIS:")
	assert.Contains(t, msg, `UNDEFINED_COMMANDS: \resumeItem, \foo`)
	assert.Contains(t, msg, "MISSING_DOLLAR: Unescaped $ characters or math mode issues")
}

func TestBuildDiagnostic_NoLogNoAnalysis(t *testing.T) {
	msg := BuildDiagnostic("latexmk", 12, "", "", "", ErrorReport{})
	assert.Contains(t, msg, "exit code: 12")
	assert.NotContains(t, msg, "LOG:")
	assert.NotContains(t, msg, "ERROR ANALYSIS")
}
