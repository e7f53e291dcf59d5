package report

import (
	"io"

	"github.com/xuri/excelize/v2"
)

// xlsxSheetName is the worksheet holding the flattened crawl rows.
const xlsxSheetName = "Crawl Results"

// XLSXWriter exports crawl results as an Excel workbook.
// The column layout matches the CSV export exactly.
type XLSXWriter struct {
	baseWriter
}

// NewXLSXWriter creates an XLSXWriter that outputs to the given writer.
func NewXLSXWriter(output io.Writer) *XLSXWriter {
	return &XLSXWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the result as an xlsx workbook.
func (w *XLSXWriter) Write(result *Result) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheetName)
	if err != nil {
		return 0, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return 0, err
	}

	maxH1, maxH2 := headingCounts(result.Records)

	if err := writeXLSXRow(f, 1, flattenHeader(maxH1, maxH2)); err != nil {
		return 0, err
	}
	for i, r := range result.Records {
		if err := writeXLSXRow(f, i+2, flattenRecord(r, maxH1, maxH2)); err != nil {
			return 0, err
		}
	}

	counter := &countingWriter{w: w.output}
	if err := f.Write(counter); err != nil {
		return counter.n, err
	}
	return counter.n, nil
}

// writeXLSXRow writes one row of cells starting at column A.
func writeXLSXRow(f *excelize.File, row int, values []string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(xlsxSheetName, cell, v); err != nil {
			return err
		}
	}
	return nil
}
