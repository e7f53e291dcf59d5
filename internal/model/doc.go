// Package model defines the data structures shared across datadiver.
//
// The central types are PageRecord, which holds the metadata extracted from
// one crawled page, and CrawlStats, which accumulates counters for a single
// crawl run. Both are plain value types with no behavior beyond construction
// so they can cross package boundaries (crawler -> report -> database)
// without coupling those packages to each other.
package model
