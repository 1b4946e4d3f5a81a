// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest persists per-item conversion outcomes across batch
// runs. The manifest is the single source of truth for resumability:
// entries are upserted atomically one at a time, so a crash mid-batch
// loses at most the in-flight item's progress.
package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/docforge/pkg/types"
)

const dbFile = "docforge.db"

// Store manages the manifest SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the manifest database under dir, creating the
// schema if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating manifest directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening manifest database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating manifest schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS items (
		source_id   TEXT PRIMARY KEY,
		status      TEXT NOT NULL,
		doc_path    TEXT,
		report_path TEXT,
		source_hash TEXT,
		attempts    INTEGER NOT NULL DEFAULT 0,
		error_kind  TEXT,
		error_msg   TEXT,
		updated_at  TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Upsert writes one entry, replacing any previous entry for the same
// source item. The write is a single statement, so concurrent readers
// never observe a partial entry.
func (s *Store) Upsert(ctx context.Context, e types.ManifestEntry) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO items
		(source_id, status, doc_path, report_path, source_hash, attempts, error_kind, error_msg, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_id) DO UPDATE SET
			status      = excluded.status,
			doc_path    = excluded.doc_path,
			report_path = excluded.report_path,
			source_hash = excluded.source_hash,
			attempts    = excluded.attempts,
			error_kind  = excluded.error_kind,
			error_msg   = excluded.error_msg,
			updated_at  = excluded.updated_at`,
		e.SourceID, string(e.Status), e.DocPath, e.ReportPath, e.SourceHash,
		e.Attempts, string(e.ErrorKind), e.ErrorMsg, e.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upserting manifest entry %s: %w", e.SourceID, err)
	}
	return nil
}

// Get returns the entry for sourceID, reporting whether one exists.
func (s *Store) Get(ctx context.Context, sourceID string) (types.ManifestEntry, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT source_id, status, doc_path, report_path, source_hash, attempts, error_kind, error_msg, updated_at
		 FROM items WHERE source_id = ?`, sourceID)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return types.ManifestEntry{}, false, nil
	}
	if err != nil {
		return types.ManifestEntry{}, false, fmt.Errorf("reading manifest entry %s: %w", sourceID, err)
	}
	return e, true, nil
}

// All returns every entry ordered by source ID.
func (s *Store) All(ctx context.Context) ([]types.ManifestEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_id, status, doc_path, report_path, source_hash, attempts, error_kind, error_msg, updated_at
		 FROM items ORDER BY source_id`)
	if err != nil {
		return nil, fmt.Errorf("listing manifest entries: %w", err)
	}
	defer rows.Close()

	var entries []types.ManifestEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning manifest entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Counts returns the number of entries per status.
func (s *Store) Counts(ctx context.Context) (map[types.ItemStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting manifest entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[types.ItemStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[types.ItemStatus(status)] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (types.ManifestEntry, error) {
	var (
		e       types.ManifestEntry
		status  string
		kind    string
		updated string
	)
	if err := row.Scan(&e.SourceID, &status, &e.DocPath, &e.ReportPath,
		&e.SourceHash, &e.Attempts, &kind, &e.ErrorMsg, &updated); err != nil {
		return types.ManifestEntry{}, err
	}
	e.Status = types.ItemStatus(status)
	e.ErrorKind = types.ErrorKind(kind)
	if ts, err := time.Parse(time.RFC3339, updated); err == nil {
		e.UpdatedAt = ts
	}
	return e, nil
}
