// Package database provides SQLite-based storage for crawl runs.
//
// Persistence is optional and append-only: each finished run is stored as
// one row in the runs table plus one row per page record, so runs against
// the same site can be compared over time. The crawl frontier itself is
// never persisted; every run starts from its seed URL alone.
package database
