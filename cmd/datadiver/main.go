// Package main provides the entry point for the datadiver CLI.
//
// datadiver crawls a single site, extracts shallow metadata (title, meta
// description, headings) from every page it can reach, and exports the
// results as CSV, JSON, Markdown, or XLSX.
//
// Usage:
//
//	datadiver crawl <url>
//	datadiver crawl --max-pages 50 --concurrency 5 <url>
//
// See --help for all available options.
package main

// main is the entry point for datadiver.
func main() {
	Execute()
}
