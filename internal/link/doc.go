// Package link provides URL normalization and crawl-eligibility filtering.
//
// Normalization is deliberately shallow: lowercase plus trailing-slash
// stripping. The normalized form is the sole deduplication key for the
// entire crawl, so it must be cheap, deterministic, and idempotent.
//
// Eligibility filtering is a conservative allow-list-by-exclusion: it errs
// toward skipping infrastructure and non-content URLs (assets, auth pages,
// feeds, pagination) rather than toward completeness. The built-in exclusion
// sets can be extended per run via Rules.
package link
