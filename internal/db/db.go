// Package db stores the index manifest: which source documents have been
// indexed into which collection, their content hashes, and a record of past
// index runs. The manifest is what makes re-indexing an unchanged document
// set a no-op.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB with manifest helpers.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens the manifest database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

// OpenMemory creates an in-memory manifest database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    collection   TEXT NOT NULL,
    doc_id       TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    chunk_count  INTEGER NOT NULL,
    indexed_at   DATETIME NOT NULL DEFAULT (datetime('now')),
    PRIMARY KEY (collection, doc_id)
);

CREATE TABLE IF NOT EXISTS index_runs (
    id             TEXT PRIMARY KEY,
    collection     TEXT NOT NULL,
    started_at     DATETIME NOT NULL,
    duration_ms    INTEGER NOT NULL,
    docs_indexed   INTEGER NOT NULL,
    docs_unchanged INTEGER NOT NULL,
    docs_skipped   INTEGER NOT NULL,
    chunks_indexed INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_collection ON index_runs(collection, started_at);
`

// DocumentHash returns the stored content hash for a document, or "" when
// the document has never been indexed into the collection.
func (d *DB) DocumentHash(collection, docID string) (string, error) {
	var hash string
	err := d.QueryRow(
		`SELECT content_hash FROM documents WHERE collection = ? AND doc_id = ?`,
		collection, docID,
	).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("looking up document hash: %w", err)
	}
	return hash, nil
}

// RecordDocument upserts a document's manifest entry after its chunks have
// been written to the vector store.
func (d *DB) RecordDocument(collection, docID, contentHash string, chunkCount int) error {
	_, err := d.Exec(`
INSERT INTO documents (collection, doc_id, content_hash, chunk_count, indexed_at)
VALUES (?, ?, ?, ?, datetime('now'))
ON CONFLICT(collection, doc_id) DO UPDATE SET
    content_hash = excluded.content_hash,
    chunk_count  = excluded.chunk_count,
    indexed_at   = excluded.indexed_at`,
		collection, docID, contentHash, chunkCount)
	if err != nil {
		return fmt.Errorf("recording document %s: %w", docID, err)
	}
	return nil
}

// IndexRun summarizes one completed indexing run.
type IndexRun struct {
	ID            string
	Collection    string
	StartedAt     time.Time
	Duration      time.Duration
	DocsIndexed   int
	DocsUnchanged int
	DocsSkipped   int
	ChunksIndexed int
}

// RecordRun stores an index-run summary.
func (d *DB) RecordRun(run IndexRun) error {
	_, err := d.Exec(`
INSERT INTO index_runs (id, collection, started_at, duration_ms, docs_indexed, docs_unchanged, docs_skipped, chunks_indexed)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Collection, run.StartedAt.UTC().Format(time.RFC3339),
		run.Duration.Milliseconds(), run.DocsIndexed, run.DocsUnchanged,
		run.DocsSkipped, run.ChunksIndexed)
	if err != nil {
		return fmt.Errorf("recording index run: %w", err)
	}
	return nil
}

// LastRun returns the most recent run for a collection, or nil when the
// collection has never been indexed.
func (d *DB) LastRun(collection string) (*IndexRun, error) {
	var run IndexRun
	var started string
	var durationMS int64
	err := d.QueryRow(`
SELECT id, collection, started_at, duration_ms, docs_indexed, docs_unchanged, docs_skipped, chunks_indexed
FROM index_runs WHERE collection = ? ORDER BY started_at DESC LIMIT 1`,
		collection,
	).Scan(&run.ID, &run.Collection, &started, &durationMS,
		&run.DocsIndexed, &run.DocsUnchanged, &run.DocsSkipped, &run.ChunksIndexed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up last run: %w", err)
	}
	run.StartedAt, _ = time.Parse(time.RFC3339, started)
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}

// CollectionStats returns the number of manifest documents and the total
// chunk count recorded for a collection.
func (d *DB) CollectionStats(collection string) (docs, chunks int, err error) {
	err = d.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(chunk_count), 0) FROM documents WHERE collection = ?`,
		collection,
	).Scan(&docs, &chunks)
	if err != nil {
		return 0, 0, fmt.Errorf("collection stats: %w", err)
	}
	return docs, chunks, nil
}
