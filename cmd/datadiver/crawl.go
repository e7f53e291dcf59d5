package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mrgkanev/datadiver/internal/config"
	"github.com/mrgkanev/datadiver/internal/crawler"
	"github.com/mrgkanev/datadiver/internal/database"
	"github.com/mrgkanev/datadiver/internal/link"
	dlog "github.com/mrgkanev/datadiver/internal/log"
	"github.com/mrgkanev/datadiver/internal/model"
	"github.com/mrgkanev/datadiver/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url]...",
		Short: "Crawl a website and extract metadata",
		Long: `Crawl fetches pages starting from the seed URL, follows links within
the same domain, and extracts the title, meta description, and h1/h2
headings from every HTML page.

The crawl stays on the seed's exact domain (subdomains and scheme
changes count as different sites), skips asset and infrastructure URLs
(images, scripts, carts, feeds, pagination), and stops when the page
budget is reached or no new links remain.

Examples:
  # Crawl a site with defaults (100 pages, 10 concurrent requests)
  datadiver crawl example.com

  # Small polite crawl with an xlsx export
  datadiver crawl --max-pages 25 --concurrency 2 --rate 1 --format xlsx example.com

  # Export JSON to a specific file
  datadiver crawl --format json -o results.json example.com

  # Save results to the local database for later comparison
  datadiver crawl --save example.com

Configuration file (.datadiver) example:
  defaults:
    excludePaths:
      - tags
  sites:
    example.com:
      excludeExtensions:
        - webm
      maxPages: 50`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl")
	cmd.Flags().IntP("concurrency", "b", config.DefaultConcurrency,
		"Number of concurrent requests per batch")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().Float64P("rate", "r", 0,
		"Overall request rate limit in requests per second (0 = unlimited)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header to send")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")

	// Output flags
	cmd.Flags().StringP("format", "F", config.FormatCSV,
		"Export format: csv, json, markdown, or xlsx")
	cmd.Flags().StringP("output", "o", "",
		"Export file path (default: derived from the site domain)")
	cmd.Flags().BoolP("quiet", "q", false,
		"Suppress the console summary")
	cmd.Flags().BoolP("save", "s", false,
		"Save results to the local SQLite database")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .datadiver in current or home directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.RateLimit, err = cmd.Flags().GetFloat64("rate")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return nil, err
	}

	cfg.Format, err = cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Quiet, err = cmd.Flags().GetBool("quiet")
	if err != nil {
		return nil, err
	}

	cfg.SaveToDB, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, err
	}
	cfg.DBDir = config.XDGDataDir()

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load filter overrides from the config file.
	// If the user explicitly specified a path, error if it is missing;
	// otherwise a missing file just means no overrides.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.FileConfig, err = config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.FileConfig = &config.File{Sites: make(map[string]config.SiteRules)}
	}

	// Positional arguments are the seed URLs.
	cfg.Targets = args

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
// Attribute values are capped so long URLs and titles stay readable.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := dlog.NewTruncateHandler(slog.NewTextHandler(os.Stderr, opts), dlog.DefaultMaxValueLen)
	return slog.New(handler)
}

// runCrawl crawls each target sequentially and writes the results.
// Per-target failures are reported and the remaining targets still run;
// the command fails only if every target failed.
func runCrawl(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	var db *database.CrawlDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	var lastErr error
	succeeded := 0

	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := crawlTarget(ctx, cmd, cfg, db, logger, target); err != nil {
			logger.Error("crawl failed", "target", target, "error", err)
			fmt.Fprintf(cmd.ErrOrStderr(), "Crawl error for %s: %v\n", target, err)
			lastErr = err
			continue
		}
		succeeded++
	}

	if succeeded == 0 {
		return lastErr
	}
	return nil
}

// crawlTarget runs one full crawl and writes its results.
func crawlTarget(ctx context.Context, cmd *cobra.Command, cfg *config.Config, db *database.CrawlDB, logger *slog.Logger, target string) error {
	seed := link.Sanitize(target)
	domain := link.Domain(seed)

	// Per-site overrides from the config file, keyed by bare host.
	siteRules := cfg.FileConfig.SiteRulesFor(hostOf(seed))
	maxPages := cfg.MaxPages
	if siteRules.MaxPages > 0 {
		maxPages = siteRules.MaxPages
	}
	userAgent := cfg.UserAgent
	if siteRules.UserAgent != "" {
		userAgent = siteRules.UserAgent
	}

	opts := []crawler.SpiderOption{
		crawler.WithMaxPages(maxPages),
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithUserAgent(userAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithRules(siteRules.LinkRules()),
		crawler.WithRateLimit(cfg.RateLimit),
		crawler.WithLogger(logger),
	}
	if !cfg.Quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Crawling %s (budget %d pages)...\n", seed, maxPages)
		opts = append(opts, crawler.WithProgress(func(stats model.CrawlStats) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\r  %d pages crawled, %d filtered", stats.PagesCrawled, stats.PagesFiltered)
		}))
	}

	client := &http.Client{Timeout: cfg.Timeout}
	spider := crawler.NewSpider(client, opts...)

	records, stats, err := spider.Crawl(ctx, target)
	if !cfg.Quiet {
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	if err != nil {
		return err
	}

	result := &report.Result{Domain: domain, Records: records, Stats: stats}

	if !cfg.Quiet {
		if _, err := report.NewSimpleWriter(cmd.OutOrStdout()).Write(result); err != nil {
			return fmt.Errorf("failed to render summary: %w", err)
		}
	}

	outputPath := cfg.OutputFile
	if outputPath == "" {
		outputPath = defaultOutputPath(domain, cfg.Format)
	}
	if err := exportResult(result, cfg.Format, outputPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nResults exported to: %s\n", outputPath)

	if db != nil {
		runID, err := db.SaveRun(ctx, domain, records, stats)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		logger.Info("run saved", "runID", runID, "domain", domain)
	}

	return nil
}

// exportResult writes the result to a file in the requested format.
func exportResult(result *report.Result, format, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	var w report.Writer
	switch format {
	case config.FormatJSON:
		w = report.NewJSONWriter(f, report.WithPrettyPrint())
	case config.FormatMarkdown:
		w = report.NewMarkdownWriter(f)
	case config.FormatXLSX:
		w = report.NewXLSXWriter(f)
	default:
		w = report.NewCSVWriter(f)
	}

	if _, err := w.Write(result); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s export: %w", format, err)
	}

	// Close errors matter here: they can mean the export was not flushed.
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to finalize output file: %w", err)
	}
	return nil
}

// unsafePathChars matches characters that don't belong in a file name.
var unsafePathChars = regexp.MustCompile(`[^\w\-]`)

// defaultOutputPath derives an export file name from the site domain,
// e.g. https://example.com with format csv becomes example_com_crawl.csv.
func defaultOutputPath(domain, format string) string {
	name := strings.TrimPrefix(domain, "https://")
	name = strings.TrimPrefix(name, "http://")
	name = unsafePathChars.ReplaceAllString(name, "_")

	ext := format
	if format == config.FormatMarkdown {
		ext = "md"
	}
	return fmt.Sprintf("%s_crawl.%s", name, ext)
}

// hostOf returns the bare host of a URL, or "" if it does not parse.
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
