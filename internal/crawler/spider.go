package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mrgkanev/datadiver/internal/link"
	"github.com/mrgkanev/datadiver/internal/model"
)

// Run-level errors. Individual page failures are never surfaced; these are
// the only error conditions that cross the engine boundary.
var (
	// ErrInvalidSeed is returned when the seed URL cannot be parsed into
	// a usable site domain even after sanitization.
	ErrInvalidSeed = errors.New("invalid seed URL")

	// ErrNoPages is returned when a run completes without a single
	// successfully crawled page.
	ErrNoPages = errors.New("no pages were crawled successfully")
)

// ProgressFunc receives a statistics snapshot after each batch reduction.
// It is the engine's only outward-facing hook; console rendering stays on
// the caller's side of the boundary.
type ProgressFunc func(model.CrawlStats)

// Spider crawls a single site, extracting shallow metadata from each page.
// It manages the frontier (pending and visited URL sets) and fetches pages
// in concurrency-bounded, batch-synchronous rounds.
//
// A Spider is single-use: each Crawl call builds fresh frontier state, and
// nothing persists between runs.
type Spider struct {
	// client is the HTTP client shared by all fetches.
	// Its Timeout is the per-request timeout; redirects are followed by
	// default.
	client *http.Client

	// maxPages limits the number of successfully crawled pages per run.
	maxPages int

	// concurrency is the batch fan-out and the cap on in-flight requests.
	concurrency int

	// userAgent is the User-Agent header to send.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// rules carries extra filter exclusions beyond the built-ins.
	rules link.Rules

	// limiter optionally caps the overall request rate.
	// Nil means no rate limiting.
	limiter *rate.Limiter

	// progress is invoked after each batch with current statistics.
	// Nil means no progress reporting.
	progress ProgressFunc

	// logger is used for structured logging during the crawl.
	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxPages sets the maximum number of pages to crawl.
func WithMaxPages(n int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = n
	}
}

// WithConcurrency sets the batch fan-out: how many fetches run
// simultaneously within one round.
func WithConcurrency(n int) SpiderOption {
	return func(s *Spider) {
		s.concurrency = n
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) SpiderOption {
	return func(s *Spider) {
		s.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) SpiderOption {
	return func(s *Spider) {
		s.maxBodySize = size
	}
}

// WithRules sets extra link-filter exclusions for this run.
func WithRules(rules link.Rules) SpiderOption {
	return func(s *Spider) {
		s.rules = rules
	}
}

// WithRateLimit caps the overall request rate in requests per second.
// Zero or negative disables rate limiting.
func WithRateLimit(rps float64) SpiderOption {
	return func(s *Spider) {
		if rps > 0 {
			burst := int(rps)
			if burst < 1 {
				burst = 1
			}
			s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithProgress sets a callback invoked after each batch reduction with the
// current statistics.
func WithProgress(fn ProgressFunc) SpiderOption {
	return func(s *Spider) {
		s.progress = fn
	}
}

// WithLogger sets a custom logger for the crawl.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a new Spider with the given HTTP client.
//
// Design decision: We require an external client because:
//  1. Timeout and transport tuning belong to the caller
//  2. Tests can inject clients pointed at httptest servers
//  3. The connection pool is shared read-only across all fetches
func NewSpider(client *http.Client, opts ...SpiderOption) *Spider {
	s := &Spider{
		client:      client,
		maxPages:    100,
		concurrency: 10,
		userAgent:   "DataDiver/1.0",
		maxBodySize: 5 * 1024 * 1024, // 5MB
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// fetchOutcome carries one fetch result into the reduction step.
// A nil record marks a filtered page (transport failure or non-HTML).
type fetchOutcome struct {
	record *model.PageRecord
	links  []string
}

// Crawl runs a full crawl starting from seedURL and returns the page
// records in batch-completion order together with run statistics.
//
// The loop is batch-synchronous: up to concurrency URLs are drawn from the
// frontier, marked visited at draw time, fetched in parallel, and the whole
// batch is joined before its links are folded back in. Mutation of the
// frontier and statistics happens only in the sequential reduction step, so
// no locking is needed despite the parallel fetches.
//
// On context cancellation the accumulated results and statistics are
// returned alongside ctx.Err() rather than being discarded.
func (s *Spider) Crawl(ctx context.Context, seedURL string) ([]*model.PageRecord, model.CrawlStats, error) {
	var stats model.CrawlStats

	seed := link.Sanitize(seedURL)
	domain := link.Domain(seed)
	if domain == "" {
		return nil, stats, fmt.Errorf("%w: %q", ErrInvalidSeed, seedURL)
	}

	visited := make(map[string]struct{})
	pending := map[string]struct{}{seed: {}}
	results := make([]*model.PageRecord, 0)

	s.logger.Debug("starting crawl",
		"seed", seed,
		"domain", domain,
		"maxPages", s.maxPages,
		"concurrency", s.concurrency,
	)

	for len(pending) > 0 && stats.PagesCrawled < s.maxPages {
		// Cancellation is checked between batches only; in-flight requests
		// are bounded by the client timeout.
		select {
		case <-ctx.Done():
			return results, stats, ctx.Err()
		default:
		}

		// Draw up to concurrency unvisited URLs, marking each visited as it
		// is drawn so it can never be drawn again. The draw is additionally
		// capped to the remaining page budget so a final oversized batch
		// cannot push PagesCrawled past maxPages.
		limit := s.maxPages - stats.PagesCrawled
		if limit > s.concurrency {
			limit = s.concurrency
		}
		batch := make([]string, 0, limit)
		for url := range pending {
			delete(pending, url)
			if _, seen := visited[url]; seen {
				continue
			}
			visited[url] = struct{}{}
			batch = append(batch, url)
			if len(batch) >= limit {
				break
			}
		}
		if len(batch) == 0 {
			break
		}

		// Dispatch the whole batch in parallel and join before reducing.
		outcomes := make([]fetchOutcome, len(batch))
		g := new(errgroup.Group)
		for i, url := range batch {
			g.Go(func() error {
				if s.limiter != nil {
					if err := s.limiter.Wait(ctx); err != nil {
						return nil // counted as filtered below
					}
				}
				record, links := s.fetchPage(ctx, url, domain)
				outcomes[i] = fetchOutcome{record: record, links: links}
				return nil
			})
		}
		_ = g.Wait() // fetch outcomes never carry errors

		// Reduce sequentially: fold records and discovered links back into
		// the shared state.
		for _, outcome := range outcomes {
			if outcome.record == nil {
				stats.PagesFiltered++
				continue
			}

			results = append(results, outcome.record)
			stats.PagesCrawled++
			stats.TotalLinksFound += len(outcome.links)

			for _, l := range outcome.links {
				if _, seen := visited[l]; seen {
					continue
				}
				// Frontier cap: stop queueing once the working set reaches
				// twice the page budget.
				if len(pending)+len(visited) >= 2*s.maxPages {
					break
				}
				pending[l] = struct{}{}
			}
		}

		if s.progress != nil {
			s.progress(stats)
		}
	}

	if stats.PagesCrawled == 0 {
		return nil, stats, ErrNoPages
	}

	s.logger.Debug("crawl finished",
		"pagesCrawled", stats.PagesCrawled,
		"pagesFiltered", stats.PagesFiltered,
		"linksFound", stats.TotalLinksFound,
	)

	return results, stats, nil
}

// fetchPage performs one GET and parses the response into a record plus
// eligible outbound links. A nil record means the page was filtered:
// transport failure, timeout, non-HTML content, or unparseable body.
// Non-2xx responses that return HTML are kept with their status code.
func (s *Spider) fetchPage(ctx context.Context, pageURL, domain string) (*model.PageRecord, []string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		s.logger.Debug("request build failed", "url", pageURL, "error", err)
		return nil, nil
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("fetch failed", "url", pageURL, "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		s.logger.Debug("skipping non-HTML response", "url", pageURL, "contentType", contentType)
		return nil, nil
	}

	parser, err := NewParser(pageURL, domain, s.rules)
	if err != nil {
		return nil, nil
	}

	body := io.LimitReader(resp.Body, s.maxBodySize)
	parsed, err := parser.Parse(body, contentType)
	if err != nil {
		s.logger.Debug("parse failed", "url", pageURL, "error", err)
		return nil, nil
	}

	record := &model.PageRecord{
		URL:             pageURL,
		StatusCode:      resp.StatusCode,
		Title:           parsed.Title,
		MetaDescription: parsed.MetaDescription,
		H1s:             parsed.H1s,
		H2s:             parsed.H2s,
	}

	return record, parsed.Links
}
