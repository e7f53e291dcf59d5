package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mrgkanev/datadiver/internal/model"
)

// testSite serves a set of HTML pages and counts fetches per path.
type testSite struct {
	server *httptest.Server

	mu      sync.Mutex
	fetches map[string]int
}

// newTestSite starts an HTTP server serving the given path -> HTML map.
// Unknown paths return 404 with an HTML body.
func newTestSite(t *testing.T, pages map[string]string) *testSite {
	t.Helper()

	site := &testSite{fetches: make(map[string]int)}
	site.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		site.mu.Lock()
		site.fetches[r.URL.Path]++
		site.mu.Unlock()

		body, ok := pages[r.URL.Path]
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, "<html><title>Not Found</title></html>")
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(site.server.Close)

	return site
}

// fetchCount returns how many times the given path was requested.
func (ts *testSite) fetchCount(path string) int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.fetches[path]
}

// TestSpiderCrawl tests end-to-end crawl scenarios against local servers.
func TestSpiderCrawl(t *testing.T) {
	t.Parallel()

	t.Run("linear chain crawls every page once", func(t *testing.T) {
		t.Parallel()

		site := newTestSite(t, map[string]string{
			"/":  `<html><title>A</title><body><a href="/b">B</a></body></html>`,
			"/b": `<html><title>B</title><body><a href="/c">C</a></body></html>`,
			"/c": `<html><title>C</title><body></body></html>`,
		})

		spider := NewSpider(site.server.Client(), WithMaxPages(10), WithConcurrency(2))
		results, stats, err := spider.Crawl(context.Background(), site.server.URL)
		if err != nil {
			t.Fatalf("Crawl() error = %v", err)
		}

		if stats.PagesCrawled != 3 {
			t.Errorf("PagesCrawled = %d, want 3", stats.PagesCrawled)
		}
		if len(results) != 3 {
			t.Fatalf("got %d results, want 3", len(results))
		}

		titles := make(map[string]bool)
		for _, r := range results {
			titles[r.Title] = true
		}
		for _, want := range []string{"A", "B", "C"} {
			if !titles[want] {
				t.Errorf("missing page with title %q in results", want)
			}
		}
	})

	t.Run("cycle terminates without revisits", func(t *testing.T) {
		t.Parallel()

		site := newTestSite(t, map[string]string{
			"/a": `<html><title>A</title><body><a href="/b">B</a></body></html>`,
			"/b": `<html><title>B</title><body><a href="/a">A</a></body></html>`,
		})

		spider := NewSpider(site.server.Client(), WithMaxPages(10), WithConcurrency(2))
		_, stats, err := spider.Crawl(context.Background(), site.server.URL+"/a")
		if err != nil {
			t.Fatalf("Crawl() error = %v", err)
		}

		if stats.PagesCrawled != 2 {
			t.Errorf("PagesCrawled = %d, want 2", stats.PagesCrawled)
		}
		for _, path := range []string{"/a", "/b"} {
			if n := site.fetchCount(path); n != 1 {
				t.Errorf("path %s fetched %d times, want 1", path, n)
			}
		}
	})

	t.Run("all links filtered leaves only the seed", func(t *testing.T) {
		t.Parallel()

		site := newTestSite(t, map[string]string{
			"/": `<html><title>Seed</title><body>
				<a href="/photo.jpg">Photo</a>
				<a href="/cart">Cart</a>
			</body></html>`,
		})

		spider := NewSpider(site.server.Client(), WithMaxPages(10), WithConcurrency(2))
		results, stats, err := spider.Crawl(context.Background(), site.server.URL)
		if err != nil {
			t.Fatalf("Crawl() error = %v", err)
		}

		if stats.PagesCrawled != 1 {
			t.Errorf("PagesCrawled = %d, want 1", stats.PagesCrawled)
		}
		if stats.TotalLinksFound != 0 {
			t.Errorf("TotalLinksFound = %d, want 0", stats.TotalLinksFound)
		}
		if len(results) != 1 || results[0].Title != "Seed" {
			t.Errorf("results = %v, want only the seed page", results)
		}
	})

	t.Run("transport failure on seed yields ErrNoPages", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		server.Close() // connection refused from here on

		spider := NewSpider(&http.Client{Timeout: time.Second}, WithMaxPages(10), WithConcurrency(2))
		results, stats, err := spider.Crawl(context.Background(), server.URL)

		if !errors.Is(err, ErrNoPages) {
			t.Errorf("Crawl() error = %v, want ErrNoPages", err)
		}
		if len(results) != 0 {
			t.Errorf("got %d results, want 0", len(results))
		}
		if stats.PagesFiltered != 1 {
			t.Errorf("PagesFiltered = %d, want 1", stats.PagesFiltered)
		}
	})

	t.Run("non-HTML responses are filtered", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"not": "html"}`)
		}))
		t.Cleanup(server.Close)

		spider := NewSpider(server.Client(), WithMaxPages(10), WithConcurrency(2))
		_, stats, err := spider.Crawl(context.Background(), server.URL)

		if !errors.Is(err, ErrNoPages) {
			t.Errorf("Crawl() error = %v, want ErrNoPages", err)
		}
		if stats.PagesFiltered != 1 {
			t.Errorf("PagesFiltered = %d, want 1", stats.PagesFiltered)
		}
	})

	t.Run("non-2xx HTML pages are recorded with their status", func(t *testing.T) {
		t.Parallel()

		site := newTestSite(t, map[string]string{
			"/": `<html><title>Home</title><body><a href="/gone">Gone</a></body></html>`,
		})

		spider := NewSpider(site.server.Client(), WithMaxPages(10), WithConcurrency(2))
		results, stats, err := spider.Crawl(context.Background(), site.server.URL)
		if err != nil {
			t.Fatalf("Crawl() error = %v", err)
		}

		if stats.PagesCrawled != 2 {
			t.Fatalf("PagesCrawled = %d, want 2", stats.PagesCrawled)
		}

		var notFound *model.PageRecord
		for _, r := range results {
			if r.StatusCode == http.StatusNotFound {
				notFound = r
			}
		}
		if notFound == nil {
			t.Fatal("expected a 404 page record, got none")
		}
		if notFound.Title != "Not Found" {
			t.Errorf("404 page Title = %q, want %q", notFound.Title, "Not Found")
		}
	})

	t.Run("page budget is never exceeded", func(t *testing.T) {
		t.Parallel()

		// Every page links to ten children, so the frontier would grow
		// without bound if the budget and cap did not hold.
		pages := make(map[string]string)
		var root string
		for i := range 10 {
			root += fmt.Sprintf(`<a href="/node%d">n</a>`, i)
			var children string
			for j := range 10 {
				children += fmt.Sprintf(`<a href="/node%d-%d">n</a>`, i, j)
				pages[fmt.Sprintf("/node%d-%d", i, j)] = "<html><title>leaf</title></html>"
			}
			pages[fmt.Sprintf("/node%d", i)] = "<html><title>mid</title><body>" + children + "</body></html>"
		}
		pages["/"] = "<html><title>root</title><body>" + root + "</body></html>"

		site := newTestSite(t, pages)

		const maxPages = 7
		spider := NewSpider(site.server.Client(), WithMaxPages(maxPages), WithConcurrency(3))
		results, stats, err := spider.Crawl(context.Background(), site.server.URL)
		if err != nil {
			t.Fatalf("Crawl() error = %v", err)
		}

		if stats.PagesCrawled > maxPages {
			t.Errorf("PagesCrawled = %d, want <= %d", stats.PagesCrawled, maxPages)
		}
		if len(results) != stats.PagesCrawled {
			t.Errorf("len(results) = %d, want %d", len(results), stats.PagesCrawled)
		}
	})

	t.Run("frontier stays bounded when pages are filtered", func(t *testing.T) {
		t.Parallel()

		// The seed links to far more children than the frontier may hold,
		// and every child responds with non-HTML content. Filtered pages
		// never raise PagesCrawled, so the page budget alone would keep
		// dispatching batches forever; only the frontier cap stops the run.
		var links string
		for i := range 40 {
			links += fmt.Sprintf(`<a href="/blob%d">b</a>`, i)
		}

		var mu sync.Mutex
		fetches := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			fetches++
			mu.Unlock()

			if r.URL.Path == "/" {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				fmt.Fprint(w, "<html><title>root</title><body>"+links+"</body></html>")
				return
			}
			w.Header().Set("Content-Type", "application/octet-stream")
			fmt.Fprint(w, "binary")
		}))
		t.Cleanup(server.Close)

		const maxPages = 5
		spider := NewSpider(server.Client(), WithMaxPages(maxPages), WithConcurrency(4))
		_, stats, err := spider.Crawl(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Crawl() error = %v", err)
		}

		if total := stats.PagesCrawled + stats.PagesFiltered; total > 2*maxPages {
			t.Errorf("PagesCrawled+PagesFiltered = %d, want <= %d", total, 2*maxPages)
		}

		mu.Lock()
		defer mu.Unlock()
		if fetches > 2*maxPages {
			t.Errorf("dispatched %d fetches, want <= %d", fetches, 2*maxPages)
		}
	})

	t.Run("invalid seed fails before any network activity", func(t *testing.T) {
		t.Parallel()

		spider := NewSpider(&http.Client{Timeout: time.Second})
		_, _, err := spider.Crawl(context.Background(), "http://exa mple.com/")

		if !errors.Is(err, ErrInvalidSeed) {
			t.Errorf("Crawl() error = %v, want ErrInvalidSeed", err)
		}
	})

	t.Run("cancellation returns partial work", func(t *testing.T) {
		t.Parallel()

		site := newTestSite(t, map[string]string{
			"/": `<html><title>A</title></html>`,
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		spider := NewSpider(site.server.Client(), WithMaxPages(10), WithConcurrency(2))
		results, stats, err := spider.Crawl(ctx, site.server.URL)

		if !errors.Is(err, context.Canceled) {
			t.Errorf("Crawl() error = %v, want context.Canceled", err)
		}
		if len(results) != 0 || stats.PagesCrawled != 0 {
			t.Errorf("expected no work before first batch, got %d results", len(results))
		}
	})

	t.Run("progress callback observes monotonic counts", func(t *testing.T) {
		t.Parallel()

		site := newTestSite(t, map[string]string{
			"/":  `<html><title>A</title><body><a href="/b">B</a></body></html>`,
			"/b": `<html><title>B</title></html>`,
		})

		var snapshots []model.CrawlStats
		spider := NewSpider(site.server.Client(),
			WithMaxPages(10),
			WithConcurrency(1),
			WithProgress(func(stats model.CrawlStats) {
				snapshots = append(snapshots, stats)
			}),
		)

		_, _, err := spider.Crawl(context.Background(), site.server.URL)
		if err != nil {
			t.Fatalf("Crawl() error = %v", err)
		}

		if len(snapshots) != 2 {
			t.Fatalf("got %d progress snapshots, want 2", len(snapshots))
		}
		if snapshots[0].PagesCrawled != 1 || snapshots[1].PagesCrawled != 2 {
			t.Errorf("snapshots = %v, want pages crawled 1 then 2", snapshots)
		}
	})
}
