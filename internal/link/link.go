package link

import (
	"net/url"
	"regexp"
	"strings"
)

// excludedExtensions are file extensions that never contain crawlable HTML.
// Matched as ".ext" substrings against the lowercased URL, so query-less
// asset URLs are rejected wherever the extension appears in the path.
var excludedExtensions = []string{
	"png", "jpg", "jpeg", "gif", "webp", "svg", "ico", "bmp",
	"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx",
	"zip", "rar", "7z", "tar", "gz",
	"mp3", "mp4", "avi", "mov", "wmv", "flv",
	"css", "js", "woff", "woff2", "ttf", "eot",
}

// excludedPaths are path segments for administrative, authentication,
// commerce, and feed/API endpoints that carry no content worth extracting.
var excludedPaths = []string{
	"cart", "checkout", "search", "login", "logout", "register",
	"terms-of-service", "privacy-policy", "wp-admin", "wp-login",
	"feed", "xmlrpc", "wp-json", "api",
}

// paginationPattern matches pagination URLs textually. Query-based variants
// are redundant with the outright query rejection in IsEligible, but the
// path-based forms (/page/, /p/, /pages/) need their own check.
var paginationPattern = regexp.MustCompile(`(?i)\?page=|\?p=|\?pg=|\?pagenumber=|\?start=|\?offset=|/page/|/p/|/pages/|#page=`)

// schemePattern reports whether a raw URL already carries an http(s) scheme.
var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// Rules extends the built-in exclusion sets with per-run additions,
// typically loaded from the configuration file.
type Rules struct {
	// ExtraExtensions are additional file extensions to exclude,
	// without the leading dot (e.g. "webm").
	ExtraExtensions []string

	// ExtraPaths are additional path substrings to exclude (e.g. "tags").
	ExtraPaths []string
}

// Normalize canonicalizes a URL for deduplication: lowercase with trailing
// slashes stripped. It is idempotent, so two URLs differing only by case or
// a trailing slash collapse to the same form. No percent-decoding or
// query canonicalization is performed.
func Normalize(raw string) string {
	return strings.TrimRight(strings.ToLower(raw), "/")
}

// Domain extracts "scheme://host[:port]" from a URL. Two URLs belong to the
// same site iff their Domain strings match exactly: subdomains are distinct
// sites, and http vs https are distinct sites. Returns "" if the URL does
// not parse.
func Domain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Sanitize prepares a user-supplied seed URL: if the scheme is missing,
// https:// is assumed, then the result is normalized. It is applied once,
// to the seed only; discovered links always carry a scheme after resolution.
func Sanitize(raw string) string {
	if !schemePattern.MatchString(raw) {
		raw = "https://" + raw
	}
	return Normalize(raw)
}

// IsEligible reports whether a discovered link should enter the frontier.
// The link must be on the given site domain, carry no query string or
// fragment, match no pagination pattern, and contain neither an excluded
// file extension nor an excluded path segment.
func IsEligible(link, domain string, rules Rules) bool {
	if Domain(link) != domain {
		return false
	}
	if strings.ContainsAny(link, "#?") {
		return false
	}
	if paginationPattern.MatchString(link) {
		return false
	}

	lower := strings.ToLower(link)
	for _, ext := range excludedExtensions {
		if strings.Contains(lower, "."+ext) {
			return false
		}
	}
	for _, ext := range rules.ExtraExtensions {
		if ext != "" && strings.Contains(lower, "."+strings.ToLower(ext)) {
			return false
		}
	}
	for _, path := range excludedPaths {
		if strings.Contains(lower, path) {
			return false
		}
	}
	for _, path := range rules.ExtraPaths {
		if path != "" && strings.Contains(lower, strings.ToLower(path)) {
			return false
		}
	}
	return true
}
