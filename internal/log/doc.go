// Package log provides slog handler utilities for datadiver.
//
// Crawler logs carry URLs, page titles, and meta descriptions as
// attributes, and real-world pages produce values that can be thousands
// of characters long. TruncateHandler wraps any slog.Handler and caps
// oversized string attributes so log lines stay readable.
package log
