package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestTruncateHandler verifies attribute value capping.
func TestTruncateHandler(t *testing.T) {
	t.Parallel()

	t.Run("caps long string values", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		handler := NewTruncateHandler(slog.NewTextHandler(&buf, nil), 10)
		logger := slog.New(handler)

		logger.Info("fetched", "url", "https://example.com/a/very/long/path/that/keeps/going")

		out := buf.String()
		if !strings.Contains(out, "https://ex"+Ellipsis) {
			t.Errorf("expected truncated url in output, got %q", out)
		}
		if strings.Contains(out, "keeps/going") {
			t.Errorf("expected tail of url to be dropped, got %q", out)
		}
	})

	t.Run("short values pass through unchanged", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		handler := NewTruncateHandler(slog.NewTextHandler(&buf, nil), 100)
		logger := slog.New(handler)

		logger.Info("fetched", "status", 200, "title", "Home")

		out := buf.String()
		if !strings.Contains(out, "title=Home") {
			t.Errorf("expected title attribute unchanged, got %q", out)
		}
		if strings.Contains(out, Ellipsis) {
			t.Errorf("expected no truncation, got %q", out)
		}
	})

	t.Run("truncates values inside groups", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		handler := NewTruncateHandler(slog.NewTextHandler(&buf, nil), 5)
		logger := slog.New(handler)

		logger.Info("page", slog.Group("meta", slog.String("description", "a description well past the cap")))

		out := buf.String()
		if !strings.Contains(out, "a des"+Ellipsis) {
			t.Errorf("expected truncated group value, got %q", out)
		}
	})

	t.Run("zero maxLen falls back to default", func(t *testing.T) {
		t.Parallel()

		handler := NewTruncateHandler(nil, 0)
		if handler.maxLen != DefaultMaxValueLen {
			t.Errorf("maxLen = %d, want %d", handler.maxLen, DefaultMaxValueLen)
		}
	})
}
