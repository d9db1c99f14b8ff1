package latex

import (
	"strings"
	"testing"

	svcerrors "github.com/cvitae/latexsvc/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalDoc = "\\documentclass{article}\n\\begin{document}\nHello\n\\end{document}\n"

func TestPrepareSource_Valid(t *testing.T) {
	out, err := PrepareSource(minimalDoc)
	require.NoError(t, err)
	assert.Equal(t, minimalDoc, out)
}

func TestPrepareSource_Empty(t *testing.T) {
	for _, src := range []string{"", "   \n\t  "} {
		_, err := PrepareSource(src)
		require.Error(t, err)
		assert.True(t, svcerrors.IsCode(err, svcerrors.CodeEmptySource))
	}
}

func TestPrepareSource_MissingDocumentclass(t *testing.T) {
	_, err := PrepareSource("\\begin{document}hi\\end{document}")
	require.Error(t, err)
	assert.True(t, svcerrors.IsCode(err, svcerrors.CodeStructuralError))
	assert.Contains(t, err.Error(), "\\documentclass")
}

func TestPrepareSource_MissingBeginDocument(t *testing.T) {
	_, err := PrepareSource("\\documentclass{article}\nhi\n\\end{document}")
	require.Error(t, err)
	assert.True(t, svcerrors.IsCode(err, svcerrors.CodeStructuralError))
	assert.Contains(t, err.Error(), "\\begin{document}")
}

func TestPrepareSource_AutoRepairsMissingEnd(t *testing.T) {
	src := "\\documentclass{article}\n\\begin{document}\nHello  \n\n"
	out, err := PrepareSource(src)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "\n\\end{document}"))
	// Trailing whitespace trimmed before the repair, not doubled up.
	assert.NotContains(t, out, "  \n\\end{document}")
}

func TestValidateStructure_Valid(t *testing.T) {
	res := ValidateStructure(minimalDoc)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateStructure_ReportsAllFindings(t *testing.T) {
	res := ValidateStructure("plain text { only")
	assert.False(t, res.Valid)
	assert.Equal(t, []string{
		"Missing \\documentclass",
		"Missing \\begin{document}",
		"Missing \\end{document}",
		"Unbalanced braces",
	}, res.Errors)
}

func TestValidateStructure_UnbalancedBraces(t *testing.T) {
	src := "\\documentclass{article}\n\\begin{document}\n\\textbf{oops\n\\end{document}"
	res := ValidateStructure(src)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "Unbalanced braces")
}

func TestValidateStructure_MissingEndIsNonFatalWarning(t *testing.T) {
	// The non-compiling path reports a missing \end{document} instead of
	// repairing it; it never mutates input or touches the filesystem.
	res := ValidateStructure("\\documentclass{article}\n\\begin{document}\nhi")
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"Missing \\end{document}"}, res.Errors)
}
