package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one recorded export.
type Run struct {
	ID         string
	Container  string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcome    string
	Error      string
	Warnings   int
	Documents  []Document
}

// Document is the outcome of persisting one document in a run.
type Document struct {
	Name        string
	Bytes       int
	Fingerprint string
	Error       string
}

// ErrNotFound is returned by Get for unknown run ids.
var ErrNotFound = errors.New("run not found")

// SQLiteStore stores runs in SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the history database at dbPath. ":memory:" gives a
// private in-memory database.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		container TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		warnings INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS documents (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		bytes INTEGER NOT NULL,
		fingerprint TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, name)
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_container ON runs(container);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores a run and its documents in one transaction.
func (s *SQLiteStore) Record(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, container, started_at, finished_at, outcome, error, warnings) VALUES (?, ?, ?, ?, ?, ?, ?)",
		run.ID, run.Container, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(), run.Outcome, run.Error, run.Warnings,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for _, d := range run.Documents {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO documents (run_id, name, bytes, fingerprint, error) VALUES (?, ?, ?, ?, ?)",
			run.ID, d.Name, d.Bytes, d.Fingerprint, d.Error,
		)
		if err != nil {
			return fmt.Errorf("insert document %s: %w", d.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first, with their documents.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, container, started_at, finished_at, outcome, error, warnings FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}
	for i := range runs {
		docs, err := s.documents(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Documents = docs
	}
	return runs, nil
}

// Get returns one run by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, container, started_at, finished_at, outcome, error, warnings FROM runs WHERE id = ?",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	run := runs[0]
	if run.Documents, err = s.documents(ctx, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// LastFingerprints returns, per document name, the fingerprint of the most
// recent successful write for container.
func (s *SQLiteStore) LastFingerprints(ctx context.Context, container string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.name, d.fingerprint
		FROM documents d JOIN runs r ON r.id = d.run_id
		WHERE r.container = ? AND d.error = ''
		ORDER BY r.started_at ASC, r.rowid ASC`,
		container,
	)
	if err != nil {
		return nil, fmt.Errorf("query fingerprints: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, fp string
		if err := rows.Scan(&name, &fp); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		out[name] = fp
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) documents(ctx context.Context, runID string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, bytes, fingerprint, error FROM documents WHERE run_id = ? ORDER BY name",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.Name, &d.Bytes, &d.Fingerprint, &d.Error); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return docs, nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		if err := rows.Scan(&r.ID, &r.Container, &started, &finished, &r.Outcome, &r.Error, &r.Warnings); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(started)
		r.FinishedAt = time.UnixMilli(finished)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return runs, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
