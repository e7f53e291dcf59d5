// Package report renders crawl results for humans and machines.
//
// The crawl engine hands over an ordered list of page records plus run
// statistics; everything format-shaped lives here. Writers share one
// flattening scheme (Status Code, URL, Title, Meta Description, H1-1..N,
// H2-1..N) so CSV and XLSX exports of the same run always have identical
// columns.
package report
