package model

// PageRecord represents the metadata extracted from one successfully
// fetched and parsed HTML page.
//
// Design decision: We keep only shallow metadata (title, description,
// headings) rather than the full body because:
//  1. The crawler's purpose is metadata extraction, not archival
//  2. Records stay small enough to hold an entire run in memory
//  3. Export formats (CSV, XLSX) flatten naturally from these fields
type PageRecord struct {
	// URL is the normalized URL of the page.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	// Non-2xx responses that still return HTML are recorded, not dropped.
	StatusCode int `json:"status_code"`

	// Title is the page title from the <title> tag.
	// Empty if the page has no title.
	Title string `json:"title"`

	// MetaDescription is the content attribute of <meta name="description">.
	// Empty if the tag is absent.
	MetaDescription string `json:"meta_description"`

	// H1s contains the text of all <h1> elements in document order.
	H1s []string `json:"h1_tags,omitempty"`

	// H2s contains the text of all <h2> elements in document order.
	H2s []string `json:"h2_tags,omitempty"`
}
