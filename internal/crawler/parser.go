package crawler

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/mrgkanev/datadiver/internal/link"
)

// Parser extracts metadata and crawlable links from HTML content.
//
// Design decision: We use goquery rather than walking the x/net/html node
// tree by hand because:
//  1. CSS selectors make the metadata extraction declarative and short
//  2. It correctly handles malformed HTML common on the web
//  3. Text extraction with nested markup comes for free
type Parser struct {
	// baseURL is the URL of the page being parsed, used for resolving
	// relative hrefs.
	baseURL *url.URL

	// domain is the site domain links must match to be eligible.
	domain string

	// rules carries per-run filter additions.
	rules link.Rules
}

// ParseResult contains everything extracted from one HTML page.
type ParseResult struct {
	// Title is the page title from the <title> tag, trimmed.
	Title string

	// MetaDescription is the content of <meta name="description">, trimmed.
	MetaDescription string

	// H1s holds the text of all <h1> elements in document order.
	H1s []string

	// H2s holds the text of all <h2> elements in document order.
	H2s []string

	// Links holds the normalized, eligibility-filtered outbound links.
	// Duplicates are not removed here; the engine's frontier sets handle
	// deduplication.
	Links []string
}

// NewParser creates a parser for the page at pageURL belonging to the
// given site domain.
func NewParser(pageURL, domain string, rules link.Rules) (*Parser, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u, domain: domain, rules: rules}, nil
}

// Parse reads HTML content and extracts metadata and eligible links.
// The contentType is used to decode non-UTF-8 bodies before parsing.
func (p *Parser) Parse(r io.Reader, contentType string) (*ParseResult, error) {
	decoded, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(decoded)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		Title:           strings.TrimSpace(doc.Find("title").First().Text()),
		MetaDescription: strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")),
	}

	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		result.H1s = append(result.H1s, strings.TrimSpace(s.Text()))
	})
	doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		result.H2s = append(result.H2s, strings.TrimSpace(s.Text()))
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		resolved := p.resolveURL(href)
		if resolved == "" {
			return
		}
		normalized := link.Normalize(resolved)
		if link.IsEligible(normalized, p.domain, p.rules) {
			result.Links = append(result.Links, normalized)
		}
	})

	return result, nil
}

// resolveURL resolves an href against the page URL, turning relative links
// into absolute ones. Non-navigational schemes are dropped.
func (p *Parser) resolveURL(href string) string {
	if href == "" || href == "#" {
		return ""
	}
	if strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return p.baseURL.ResolveReference(u).String()
}
