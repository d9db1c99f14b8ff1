package latex

import "regexp"

// Category names a recognized failure class in a LaTeX build log. The
// strings are stable contract: they appear verbatim in error analysis
// sections and JSON payloads.
type Category string

const (
	CategoryMissingDocument   Category = "missing_document"
	CategoryUndefinedCommands Category = "undefined_commands"
	CategoryLonelyItems       Category = "lonely_items"
	CategoryMisalignedAmp     Category = "misaligned_amp"
	CategoryMissingDollar     Category = "missing_dollar"
	CategoryFontErrors        Category = "font_errors"
	CategoryPackageErrors     Category = "package_errors"
)

// ErrorReport maps a failure category to its distinct evidence strings.
// Categories with no evidence are absent entirely; an empty report means
// "no known cause identified", not "checked and clean".
type ErrorReport map[Category][]string

var (
	reMissingDocument = regexp.MustCompile(`Missing \\begin\{document\}`)
	reUndefinedCmd    = regexp.MustCompile(`Undefined control sequence\.\s*l\.\d+\s+(\\[A-Za-z@]+)`)
	reLonelyItem      = regexp.MustCompile(`Lonely \\item`)
	reMisalignedAmp   = regexp.MustCompile(`Misplaced alignment tab character &`)
	reMissingDollar   = regexp.MustCompile(`Missing \$ inserted`)
	reFontNotFound    = regexp.MustCompile(`Font .* not found`)
	rePackageNotFound = regexp.MustCompile("! LaTeX Error: File `([^']+)' not found")
)

// ClassifyLog parses raw LaTeX log text into an ErrorReport. It is a pure
// text function so it can be tested against captured log fixtures; each
// category is detected independently and evidence is deduplicated in order
// of first appearance.
func ClassifyLog(logContent string) ErrorReport {
	report := ErrorReport{}
	if logContent == "" {
		return report
	}

	if reMissingDocument.MatchString(logContent) {
		report[CategoryMissingDocument] = []string{"Document missing \\begin{document}"}
	}

	if matches := reUndefinedCmd.FindAllStringSubmatch(logContent, -1); len(matches) > 0 {
		var tokens []string
		for _, m := range matches {
			tokens = append(tokens, m[1])
		}
		report[CategoryUndefinedCommands] = dedupe(tokens)
	}

	if reLonelyItem.MatchString(logContent) {
		report[CategoryLonelyItems] = []string{"\\item commands outside list environments"}
	}

	if reMisalignedAmp.MatchString(logContent) {
		report[CategoryMisalignedAmp] = []string{"Unescaped & characters outside tables"}
	}

	if reMissingDollar.MatchString(logContent) {
		report[CategoryMissingDollar] = []string{"Unescaped $ characters or math mode issues"}
	}

	if reFontNotFound.MatchString(logContent) {
		report[CategoryFontErrors] = []string{"Missing font files"}
	}

	if matches := rePackageNotFound.FindAllStringSubmatch(logContent, -1); len(matches) > 0 {
		var files []string
		for _, m := range matches {
			files = append(files, m[1])
		}
		report[CategoryPackageErrors] = dedupe(files)
	}

	return report
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
