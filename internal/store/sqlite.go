// Package store persists fetched items and aggregation runs in SQLite.
// Nothing in the analysis path requires it; callers treat its errors
// as non-fatal.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"stock-sentiment/internal/interfaces"
	"stock-sentiment/internal/types"
)

//go:embed schema.sql
var schema string

// Store handles database operations
type Store struct {
	db *sql.DB
}

var _ interfaces.Store = (*Store)(nil)

// New opens the database, creating parent directories and the schema
// as needed.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite is single-writer; one pooled connection also keeps
	// :memory: databases coherent across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertStock records a ticker and its resolved company name, bumping
// the fetch timestamp on every call.
func (s *Store) UpsertStock(ctx context.Context, ticker, companyName string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stocks (ticker, company_name, last_fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			company_name = excluded.company_name,
			last_fetched_at = excluded.last_fetched_at`,
		ticker, companyName, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// SaveItems stores analyzed items idempotently: a URL seen before only
// has its sentiment fields refreshed. Items without a URL are skipped.
func (s *Store) SaveItems(ctx context.Context, ticker string, items []types.AnalyzedItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save items: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO news_articles
			(ticker, headline, source, source_type, url, published_at, fetched_at, sentiment_score, sentiment_label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			sentiment_score = excluded.sentiment_score,
			sentiment_label = excluded.sentiment_label,
			fetched_at = excluded.fetched_at`)
	if err != nil {
		return fmt.Errorf("prepare save items: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, item := range items {
		if item.URL == "" {
			continue
		}
		_, err := stmt.ExecContext(ctx,
			ticker, item.Headline, item.Source, item.SourceType,
			item.URL, item.PublishedAt, now, item.Score, item.Label)
		if err != nil {
			return fmt.Errorf("save item %s: %w", item.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save items: %w", err)
	}
	return nil
}

// RecentItems returns the newest stored items for a ticker. sourceType
// narrows the result: "news", "reddit" (posts and comments), a literal
// source_type value, or ""/"all" for everything.
func (s *Store) RecentItems(ctx context.Context, ticker string, sourceType string, limit int) ([]types.AnalyzedItem, error) {
	if limit <= 0 {
		limit = 50
	}

	q := sq.Select("headline", "url", "sentiment_score", "sentiment_label", "published_at", "source", "source_type").
		From("news_articles").
		Where(sq.Eq{"ticker": ticker}).
		OrderBy("published_at DESC").
		Limit(uint64(limit))

	switch sourceType {
	case "", "all":
	case "reddit":
		q = q.Where(sq.Eq{"source_type": []string{types.SourceTypeRedditPost, types.SourceTypeRedditComment}})
	default:
		q = q.Where(sq.Eq{"source_type": sourceType})
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent items query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("recent items: %w", err)
	}
	defer rows.Close()

	var items []types.AnalyzedItem
	for rows.Next() {
		var it types.AnalyzedItem
		var score sql.NullFloat64
		var label, publishedAt, source sql.NullString
		if err := rows.Scan(&it.Headline, &it.URL, &score, &label, &publishedAt, &source, &it.SourceType); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Score = score.Float64
		it.Label = label.String
		it.PublishedAt = publishedAt.String
		it.Source = source.String
		items = append(items, it)
	}
	return items, rows.Err()
}

// SaveRun appends one aggregation outcome to the history. A missing ID
// gets a fresh uuid; a zero CreatedAt gets the current time.
func (s *Store) SaveRun(ctx context.Context, run types.AnalysisRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (id, ticker, data_source, score, suggestion, analyzed_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Ticker, run.DataSource, run.Score, run.Suggestion, run.AnalyzedCount, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// RunHistory returns the newest persisted runs for a ticker.
func (s *Store) RunHistory(ctx context.Context, ticker string, limit int) ([]types.AnalysisRun, error) {
	if limit <= 0 {
		limit = 20
	}

	sqlStr, args, err := sq.Select("id", "ticker", "data_source", "score", "suggestion", "analyzed_count", "created_at").
		From("analysis_runs").
		Where(sq.Eq{"ticker": ticker}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build run history query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("run history: %w", err)
	}
	defer rows.Close()

	var runs []types.AnalysisRun
	for rows.Next() {
		var r types.AnalysisRun
		if err := rows.Scan(&r.ID, &r.Ticker, &r.DataSource, &r.Score, &r.Suggestion, &r.AnalyzedCount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
