package report

import (
	"encoding/csv"
	"io"
)

// CSVWriter exports crawl results as CSV rows.
// The column set is Status Code, URL, Title, Meta Description followed by
// H1-1..N and H2-1..N sized to the widest record.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the result as CSV. Byte counting goes through a small
// tee because encoding/csv does not report written sizes.
func (w *CSVWriter) Write(result *Result) (int, error) {
	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	maxH1, maxH2 := headingCounts(result.Records)
	if err := cw.Write(flattenHeader(maxH1, maxH2)); err != nil {
		return counter.n, err
	}
	for _, r := range result.Records {
		if err := cw.Write(flattenRecord(r, maxH1, maxH2)); err != nil {
			return counter.n, err
		}
	}

	cw.Flush()
	return counter.n, cw.Error()
}

// countingWriter counts bytes passed through to the underlying writer.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
