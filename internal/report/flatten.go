package report

import (
	"fmt"

	"github.com/mrgkanev/datadiver/internal/model"
)

// baseColumns are the fixed export columns, in order. Heading columns
// (H1-1..N, H2-1..N) follow, sized to the widest record in the run.
var baseColumns = []string{"Status Code", "URL", "Title", "Meta Description"}

// headingCounts returns the maximum number of H1 and H2 entries across
// all records, which determines how many heading columns the export needs.
func headingCounts(records []*model.PageRecord) (maxH1, maxH2 int) {
	for _, r := range records {
		if len(r.H1s) > maxH1 {
			maxH1 = len(r.H1s)
		}
		if len(r.H2s) > maxH2 {
			maxH2 = len(r.H2s)
		}
	}
	return maxH1, maxH2
}

// flattenHeader builds the full column header for the given heading widths.
func flattenHeader(maxH1, maxH2 int) []string {
	header := make([]string, 0, len(baseColumns)+maxH1+maxH2)
	header = append(header, baseColumns...)
	for i := 1; i <= maxH1; i++ {
		header = append(header, fmt.Sprintf("H1-%d", i))
	}
	for i := 1; i <= maxH2; i++ {
		header = append(header, fmt.Sprintf("H2-%d", i))
	}
	return header
}

// flattenRecord turns one page record into a row matching flattenHeader.
// Records with fewer headings than the widest record get empty cells.
func flattenRecord(r *model.PageRecord, maxH1, maxH2 int) []string {
	row := make([]string, 0, len(baseColumns)+maxH1+maxH2)
	row = append(row,
		fmt.Sprintf("%d", r.StatusCode),
		r.URL,
		r.Title,
		r.MetaDescription,
	)
	for i := range maxH1 {
		if i < len(r.H1s) {
			row = append(row, r.H1s[i])
		} else {
			row = append(row, "")
		}
	}
	for i := range maxH2 {
		if i < len(r.H2s) {
			row = append(row, r.H2s[i])
		} else {
			row = append(row, "")
		}
	}
	return row
}
