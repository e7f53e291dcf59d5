package report

import (
	"fmt"
	"io"
	"strings"
)

// maxConsoleRows caps the per-page listing in terminal output.
// Full detail always goes to the export file; the console is a preview.
const maxConsoleRows = 20

// SimpleWriter outputs human-readable text results for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because:
//  1. It works in all terminals without compatibility issues
//  2. It's easier to pipe to files or other tools
//  3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the result in human-readable format.
func (w *SimpleWriter) Write(result *Result) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          CRAWL RESULTS\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Domain: %s\n\n", result.Domain))

	limit := len(result.Records)
	if limit > maxConsoleRows {
		limit = maxConsoleRows
	}
	for _, r := range result.Records[:limit] {
		sb.WriteString(fmt.Sprintf("  [%d] %s\n", r.StatusCode, truncate(r.URL, 60)))
		if r.Title != "" {
			sb.WriteString(fmt.Sprintf("      %s\n", truncate(r.Title, 60)))
		}
	}
	if rest := len(result.Records) - limit; rest > 0 {
		sb.WriteString(fmt.Sprintf("  ... and %d more pages\n", rest))
	}

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Pages crawled:     %d\n", result.Stats.PagesCrawled))
	sb.WriteString(fmt.Sprintf("Pages filtered:    %d\n", result.Stats.PagesFiltered))
	sb.WriteString(fmt.Sprintf("Total links found: %d\n", result.Stats.TotalLinksFound))

	return io.WriteString(w.output, sb.String())
}

// truncate shortens a string for single-line display. It counts runes,
// not bytes, so multibyte titles and URLs are never split mid-character.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
