package crawler

import (
	"strings"
	"testing"

	"github.com/mrgkanev/datadiver/internal/link"
)

// TestParserMetadata tests metadata extraction from HTML.
func TestParserMetadata(t *testing.T) {
	t.Parallel()

	t.Run("extracts title and meta description", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
			<title>  Test Page  </title>
			<meta name="description" content=" A page about testing. ">
		</head><body></body></html>`

		parser, err := NewParser("http://site.com/page", "http://site.com", link.Rules{})
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		result, err := parser.Parse(strings.NewReader(html), "text/html")
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		if result.Title != "Test Page" {
			t.Errorf("Title = %q, want %q", result.Title, "Test Page")
		}
		if result.MetaDescription != "A page about testing." {
			t.Errorf("MetaDescription = %q, want %q", result.MetaDescription, "A page about testing.")
		}
	})

	t.Run("missing title and description default to empty", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>nothing here</p></body></html>`

		parser, err := NewParser("http://site.com", "http://site.com", link.Rules{})
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		result, err := parser.Parse(strings.NewReader(html), "text/html")
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		if result.Title != "" {
			t.Errorf("Title = %q, want empty", result.Title)
		}
		if result.MetaDescription != "" {
			t.Errorf("MetaDescription = %q, want empty", result.MetaDescription)
		}
	})

	t.Run("extracts headings in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<h1> First </h1>
			<h2>Sub A</h2>
			<h1>Second</h1>
			<h2>Sub B</h2>
		</body></html>`

		parser, err := NewParser("http://site.com", "http://site.com", link.Rules{})
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		result, err := parser.Parse(strings.NewReader(html), "text/html")
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		wantH1s := []string{"First", "Second"}
		if len(result.H1s) != len(wantH1s) {
			t.Fatalf("H1s = %v, want %v", result.H1s, wantH1s)
		}
		for i, want := range wantH1s {
			if result.H1s[i] != want {
				t.Errorf("H1s[%d] = %q, want %q", i, result.H1s[i], want)
			}
		}

		wantH2s := []string{"Sub A", "Sub B"}
		if len(result.H2s) != len(wantH2s) {
			t.Fatalf("H2s = %v, want %v", result.H2s, wantH2s)
		}
		for i, want := range wantH2s {
			if result.H2s[i] != want {
				t.Errorf("H2s[%d] = %q, want %q", i, result.H2s[i], want)
			}
		}
	})
}

// TestParserLinks tests link resolution and eligibility filtering.
func TestParserLinks(t *testing.T) {
	t.Parallel()

	t.Run("resolves relative links and filters ineligible ones", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/blog/post-1">Post</a>
			<a href="about">About</a>
			<a href="http://other.com/page">Other site</a>
			<a href="/img.png">Image</a>
			<a href="/cart">Cart</a>
			<a href="/blog/page/2">Pagination</a>
			<a href="/list?sort=asc">Query</a>
			<a href="#section">Fragment</a>
			<a href="mailto:hi@site.com">Mail</a>
			<a href="javascript:void(0)">JS</a>
		</body></html>`

		parser, err := NewParser("http://site.com/blog/", "http://site.com", link.Rules{})
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		result, err := parser.Parse(strings.NewReader(html), "text/html")
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		want := []string{"http://site.com/blog/post-1", "http://site.com/blog/about"}
		if len(result.Links) != len(want) {
			t.Fatalf("Links = %v, want %v", result.Links, want)
		}
		for i, w := range want {
			if result.Links[i] != w {
				t.Errorf("Links[%d] = %q, want %q", i, result.Links[i], w)
			}
		}
	})

	t.Run("normalizes discovered links", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><a href="HTTP://Site.com/About/">About</a></body></html>`

		parser, err := NewParser("http://site.com", "http://site.com", link.Rules{})
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		result, err := parser.Parse(strings.NewReader(html), "text/html")
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		if len(result.Links) != 1 || result.Links[0] != "http://site.com/about" {
			t.Errorf("Links = %v, want [http://site.com/about]", result.Links)
		}
	})

	t.Run("keeps duplicate links within a page", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/a">One</a>
			<a href="/a">Again</a>
		</body></html>`

		parser, err := NewParser("http://site.com", "http://site.com", link.Rules{})
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		result, err := parser.Parse(strings.NewReader(html), "text/html")
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		// Intra-page dedup is the engine's job, not the parser's.
		if len(result.Links) != 2 {
			t.Errorf("Links = %v, want 2 entries", result.Links)
		}
	})

	t.Run("applies extra filter rules", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/tags/golang">Tag</a>
			<a href="/blog/post">Post</a>
		</body></html>`

		rules := link.Rules{ExtraPaths: []string{"tags"}}
		parser, err := NewParser("http://site.com", "http://site.com", rules)
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		result, err := parser.Parse(strings.NewReader(html), "text/html")
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		if len(result.Links) != 1 || result.Links[0] != "http://site.com/blog/post" {
			t.Errorf("Links = %v, want [http://site.com/blog/post]", result.Links)
		}
	})
}
