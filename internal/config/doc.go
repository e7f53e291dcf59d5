// Package config provides configuration structures and utilities for
// datadiver. It defines the crawl settings built from CLI flags, the
// optional .datadiver YAML file with per-site filter overrides, and the
// validation applied before any network activity begins.
package config
