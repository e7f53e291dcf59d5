package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mrgkanev/datadiver/internal/model"
)

// dbFileName is the SQLite database file name inside the data directory.
const dbFileName = "datadiver.db"

// CrawlDB provides SQLite-based storage for crawl runs.
// It manages connection pooling and provides methods for saving and
// querying run history.
//
// Design decision: We use a single database file for all sites rather
// than one file per site. This simplifies cross-run queries and
// backup/restore operations.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// RunSummary describes one stored crawl run.
type RunSummary struct {
	// ID is the run's primary key.
	ID int64

	// Domain is the site domain that was crawled.
	Domain string

	// StartedAt is when the run was saved.
	StartedAt time.Time

	// Stats holds the run's final counters.
	Stats model.CrawlStats
}

// Open opens or creates a CrawlDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; multiple connections buy nothing here.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- One row per finished crawl run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		domain TEXT NOT NULL,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		pages_crawled INTEGER NOT NULL,
		pages_filtered INTEGER NOT NULL,
		links_found INTEGER NOT NULL
	);

	-- One row per page record, in batch-completion order
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		status_code INTEGER NOT NULL,
		title TEXT NOT NULL,
		meta_description TEXT NOT NULL,
		h1_tags TEXT NOT NULL,
		h2_tags TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_domain ON runs(domain);
	CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores one finished run and its page records.
// Returns the new run's ID. The whole save happens in one transaction so
// a failed insert never leaves a partial run behind.
func (cdb *CrawlDB) SaveRun(ctx context.Context, domain string, records []*model.PageRecord, stats model.CrawlStats) (int64, error) {
	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (domain, pages_crawled, pages_filtered, links_found) VALUES (?, ?, ?, ?)`,
		domain, stats.PagesCrawled, stats.PagesFiltered, stats.TotalLinksFound,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	for _, r := range records {
		h1s, err := json.Marshal(r.H1s)
		if err != nil {
			return 0, fmt.Errorf("failed to encode h1 tags: %w", err)
		}
		h2s, err := json.Marshal(r.H2s)
		if err != nil {
			return 0, fmt.Errorf("failed to encode h2 tags: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO pages (run_id, url, status_code, title, meta_description, h1_tags, h2_tags)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, r.URL, r.StatusCode, r.Title, r.MetaDescription, string(h1s), string(h2s),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert page %s: %w", r.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// Runs returns stored run summaries for the given domain, newest first.
// An empty domain returns runs for all sites.
func (cdb *CrawlDB) Runs(ctx context.Context, domain string) ([]RunSummary, error) {
	query := `SELECT id, domain, started_at, pages_crawled, pages_filtered, links_found FROM runs`
	args := []any{}
	if domain != "" {
		query += ` WHERE domain = ?`
		args = append(args, domain)
	}
	query += ` ORDER BY started_at DESC, id DESC`

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Domain, &r.StartedAt,
			&r.Stats.PagesCrawled, &r.Stats.PagesFiltered, &r.Stats.TotalLinksFound); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// Pages returns the page records stored for the given run, in the order
// they were saved.
func (cdb *CrawlDB) Pages(ctx context.Context, runID int64) ([]*model.PageRecord, error) {
	rows, err := cdb.db.QueryContext(ctx,
		`SELECT url, status_code, title, meta_description, h1_tags, h2_tags
		 FROM pages WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var records []*model.PageRecord
	for rows.Next() {
		var r model.PageRecord
		var h1s, h2s string
		if err := rows.Scan(&r.URL, &r.StatusCode, &r.Title, &r.MetaDescription, &h1s, &h2s); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		if err := json.Unmarshal([]byte(h1s), &r.H1s); err != nil {
			return nil, fmt.Errorf("failed to decode h1 tags: %w", err)
		}
		if err := json.Unmarshal([]byte(h2s), &r.H2s); err != nil {
			return nil, fmt.Errorf("failed to decode h2 tags: %w", err)
		}
		records = append(records, &r)
	}

	return records, rows.Err()
}
