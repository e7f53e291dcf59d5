package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs crawl results in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. GitHub-flavored markdown output
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result *Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Results")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Domain", "`" + result.Domain + "`"},
			{"Pages Crawled", strconv.Itoa(result.Stats.PagesCrawled)},
			{"Pages Filtered", strconv.Itoa(result.Stats.PagesFiltered)},
			{"Links Found", strconv.Itoa(result.Stats.TotalLinksFound)},
		},
	})
	md.PlainText("")

	w.writePages(md, result)

	return len(md.String()), md.Build()
}

// writePages writes the per-page table.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, result *Result) {
	md.H2("Pages")
	md.PlainText("")

	if len(result.Records) == 0 {
		md.PlainText("No pages were crawled.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(result.Records))
	for _, r := range result.Records {
		rows = append(rows, []string{
			strconv.Itoa(r.StatusCode),
			r.URL,
			r.Title,
			r.MetaDescription,
		})
	}

	md.Table(markdown.TableSet{
		Header: baseColumns,
		Rows:   rows,
	})
	md.PlainText("")
}
