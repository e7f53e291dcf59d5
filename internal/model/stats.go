package model

// CrawlStats holds counters for a single crawl run.
// The crawler mutates these during the run; once the run terminates the
// values are read-only.
type CrawlStats struct {
	// PagesCrawled is the number of pages that produced a PageRecord.
	PagesCrawled int `json:"pages_crawled"`

	// PagesFiltered is the number of fetch attempts that yielded no record:
	// transport failures, timeouts, and non-HTML responses.
	PagesFiltered int `json:"pages_filtered"`

	// TotalLinksFound is the number of outbound links that survived
	// eligibility filtering, summed across all crawled pages.
	// Links rejected by the filter are not counted.
	TotalLinksFound int `json:"total_links_found"`
}
