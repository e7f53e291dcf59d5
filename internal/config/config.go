package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These match the behavior most sites tolerate without rate limiting
// while keeping a single crawl run bounded in time and memory.
const (
	// DefaultTimeout is the per-request timeout. 30 seconds is generous
	// enough for slow origin servers while keeping a stuck batch from
	// stalling the whole run indefinitely.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPages is the page budget for a single crawl run.
	// This is the hard stop that guarantees termination even on sites
	// that generate unbounded distinct URLs (calendars, archives).
	DefaultMaxPages = 100

	// DefaultConcurrency is the batch fan-out: the number of pages fetched
	// simultaneously in one round. Ten concurrent requests is a reasonable
	// load for a single origin server.
	DefaultConcurrency = 10

	// DefaultMaxBodySize limits the response body size to read.
	// 5MB is sufficient for any real HTML page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies datadiver in HTTP requests.
	// A descriptive User-Agent lets site operators identify crawler
	// traffic in their logs.
	DefaultUserAgent = "DataDiver/1.0 (+https://github.com/mrgkanev/datadiver)"

	// AppName is the application name used for XDG directory paths.
	AppName = "datadiver"
)

// Export format names accepted by the --format flag.
const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatXLSX     = "xlsx"
)

// Config holds all configuration options for a datadiver run.
// It is populated from CLI flags and the optional .datadiver file, then
// passed through the application via dependency injection rather than
// global state.
type Config struct {
	// Targets is the list of seed URLs to crawl, one crawl run per seed.
	// Each seed is sanitized (scheme coerced, normalized) before use.
	Targets []string

	// MaxPages is the maximum number of pages to crawl per seed.
	// This prevents runaway crawling on large or infinitely-generating sites.
	MaxPages int

	// Concurrency is the batch fan-out: how many fetches run simultaneously
	// within one round. It is also the hard cap on in-flight requests.
	Concurrency int

	// Timeout is the timeout applied to each individual HTTP request.
	// A timed-out fetch counts as a filtered page, not a run failure.
	Timeout time.Duration

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use DefaultMaxBodySize.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// RateLimit caps the overall request rate in requests per second.
	// 0 disables rate limiting; batches then run as fast as the site responds.
	RateLimit float64

	// Format selects the export format: csv, json, markdown, or xlsx.
	Format string

	// OutputFile is the export file path. When empty, a name is derived
	// from the site domain (e.g. site_com_crawl.csv).
	OutputFile string

	// Quiet suppresses the console table and summary; the export file is
	// still written.
	Quiet bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// SaveToDB persists crawl results to the SQLite database under DBDir.
	// Only final records and statistics are stored; the frontier is never
	// persisted across runs.
	SaveToDB bool

	// DBDir is the directory for the SQLite database.
	// Defaults to the XDG data directory (~/.local/share/datadiver on Linux).
	DBDir string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .datadiver in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// FileConfig holds filter overrides loaded from the config file.
	// Populated by LoadFile; nil means no file was found.
	FileConfig *File
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero (timeout, budget, fan-out).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxPages:    DefaultMaxPages,
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
		MaxBodySize: DefaultMaxBodySize,
		UserAgent:   DefaultUserAgent,
		Format:      FormatCSV,
	}
}

// XDGDataDir returns the XDG data directory for datadiver.
// On Linux: ~/.local/share/datadiver
// On macOS: ~/Library/Application Support/datadiver
// On Windows: %LOCALAPPDATA%\datadiver
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate once after CLI parsing, before any network
// activity, and return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.RateLimit < 0 {
		return ErrInvalidRateLimit
	}

	switch c.Format {
	case FormatCSV, FormatJSON, FormatMarkdown, FormatXLSX:
	default:
		return ErrUnknownFormat
	}

	return nil
}
