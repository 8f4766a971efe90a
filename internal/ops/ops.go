package ops

import (
	"fmt"
	"sort"
	"strings"
)

// FileReport carries the diagnostics for one content file.
type FileReport struct {
	Filename string   `json:"filename"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// HasProblems reports whether the file produced any diagnostic at all.
func (r FileReport) HasProblems() bool {
	return len(r.Errors) > 0 || len(r.Warnings) > 0
}

// CountErrors sums hard errors across reports.
func CountErrors(reports []FileReport) int {
	total := 0
	for _, r := range reports {
		total += len(r.Errors)
	}
	return total
}

// CountWarnings sums warnings across reports.
func CountWarnings(reports []FileReport) int {
	total := 0
	for _, r := range reports {
		total += len(r.Warnings)
	}
	return total
}

// FormatReports renders diagnostics grouped per source file, each with a
// bulleted list of violated rules, followed by a summary count line.
func FormatReports(reports []FileReport, indexed int) string {
	var b strings.Builder

	sorted := make([]FileReport, len(reports))
	copy(sorted, reports)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Filename < sorted[j].Filename })

	for _, r := range sorted {
		if !r.HasProblems() {
			continue
		}
		fmt.Fprintf(&b, "%s\n", r.Filename)
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  - error: %s\n", e)
		}
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "  - warning: %s\n", w)
		}
	}

	fmt.Fprintf(&b, "%d post(s) indexed, %d error(s), %d warning(s)\n",
		indexed, CountErrors(sorted), CountWarnings(sorted))
	return b.String()
}
