package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/baditaflorin/review_sentiment/internal/core/domain"
	"github.com/baditaflorin/review_sentiment/internal/ports"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS cleaned_reviews (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dataset TEXT NOT NULL,
	source_index INTEGER NOT NULL,
	cleaned_text TEXT NOT NULL,
	rating REAL NOT NULL,
	label INTEGER NOT NULL,
	label_name TEXT NOT NULL,
	brand TEXT NOT NULL DEFAULT '',
	categories TEXT NOT NULL DEFAULT '',
	UNIQUE(dataset, source_index)
);
CREATE INDEX IF NOT EXISTS idx_cleaned_reviews_label ON cleaned_reviews(dataset, label_name);
`

var _ ports.RecordSink = (*SQLiteStore)(nil)

// SQLiteStore persists cleaned records of one dataset into sqlite.
type SQLiteStore struct {
	db      *sql.DB
	dataset string
	logger  ports.Logger
}

// InitDB creates the schema on the given connection.
func InitDB(db *sql.DB) error {
	for _, s := range strings.Split(schemaSQL, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// OpenSQLite opens (or creates) the database at path and prepares the schema.
// Use ":memory:" for an in-memory database.
func OpenSQLite(path, dataset string, logger ports.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, dataset: dataset, logger: logger}, nil
}

// Write upserts the records in a single transaction.
func (s *SQLiteStore) Write(ctx context.Context, records []domain.CleanedRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cleaned_reviews
		(dataset, source_index, cleaned_text, rating, label, label_name, brand, categories)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(dataset, source_index) DO UPDATE SET
			cleaned_text = excluded.cleaned_text,
			rating = excluded.rating,
			label = excluded.label,
			label_name = excluded.label_name,
			brand = excluded.brand,
			categories = excluded.categories`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, s.dataset, r.Index, r.Text, r.Rating, r.Label, r.LabelName, r.Brand, r.Categories); err != nil {
			return fmt.Errorf("insert record %d: %w", r.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug("Stored cleaned records", "dataset", s.dataset, "count", len(records))
	return nil
}

// Count returns the number of stored records for the dataset.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cleaned_reviews WHERE dataset = ?`, s.dataset).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// LabelCounts returns the number of stored records per label name.
func (s *SQLiteStore) LabelCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT label_name, COUNT(*) FROM cleaned_reviews WHERE dataset = ? GROUP BY label_name`, s.dataset)
	if err != nil {
		return nil, fmt.Errorf("label counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scan label count: %w", err)
		}
		counts[name] = n
	}
	return counts, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
