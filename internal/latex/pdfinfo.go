package latex

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageCount opens the produced PDF and returns its page count. Beyond the
// number itself this doubles as a structural sanity check: a file latexmk
// left behind that pdfcpu cannot read is worth a warning upstream.
func PageCount(path string) (int, error) {
	count, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu page count: %w", err)
	}
	return count, nil
}
