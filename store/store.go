// Package store persists extractions, chunk sets and workbook indexes per
// document in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/viant/docvault/document"
	"github.com/viant/docvault/workbook"
	_ "modernc.org/sqlite" // pure Go sqlite driver
)

// ErrNotFound is returned when no document is stored under a file id.
var ErrNotFound = errors.New("store: document not found")

// ErrNoWorkbook is returned when a stored document has no workbook index.
var ErrNoWorkbook = errors.New("store: document has no workbook index")

// Record is one stored document version.
type Record struct {
	FileID      string
	Filename    string
	ContentType string
	Digest      string
	Extraction  *document.Extraction
	Workbook    *workbook.Index
	StoredAt    time.Time
}

// Summary describes a stored document without its chunks.
type Summary struct {
	FileID     string
	Filename   string
	Kind       document.Kind
	Digest     string
	Tags       []string
	ChunkCount int
	StoredAt   time.Time
}

// Store is a SQLite-backed document store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the store database and ensures its schema.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver == "" {
		driver = "sqlite"
	}
	if driver == "sqlite" {
		dsn = sqliteDSN(dsn)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	s := &Store{db: db}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the documents table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
            file_id TEXT PRIMARY KEY,
            filename TEXT NOT NULL,
            content_type TEXT NOT NULL,
            kind TEXT NOT NULL,
            digest TEXT NOT NULL,
            tags TEXT NOT NULL,
            extracted TEXT NOT NULL,
            chunks BLOB,
            chunk_count INTEGER NOT NULL,
            workbook TEXT,
            stored_at TEXT NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_documents_digest ON documents(digest);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_kind ON documents(kind);`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return tx.Commit()
}

// Save stores a document version, replacing any previous version of the same
// file id in one transaction.
func (s *Store) Save(ctx context.Context, record *Record) error {
	if record == nil || record.Extraction == nil {
		return errors.New("store: record without extraction")
	}
	if record.FileID == "" {
		return errors.New("store: record without file id")
	}
	if err := record.Extraction.Chunks.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	tags, err := json.Marshal(record.Extraction.Tags)
	if err != nil {
		return err
	}
	extracted, err := json.Marshal(record.Extraction.Extracted)
	if err != nil {
		return err
	}
	chunks, err := document.MarshalChunks(record.Extraction.Chunks)
	if err != nil {
		return err
	}
	var index sql.NullString
	if record.Workbook != nil {
		data, err := json.Marshal(record.Workbook)
		if err != nil {
			return err
		}
		index = sql.NullString{String: string(data), Valid: true}
	}
	storedAt := record.StoredAt
	if storedAt.IsZero() {
		storedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE file_id = ?`, record.FileID); err != nil {
		return fmt.Errorf("failed to replace %s: %w", record.FileID, err)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO documents
        (file_id, filename, content_type, kind, digest, tags, extracted, chunks, chunk_count, workbook, stored_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.FileID, record.Filename, record.ContentType, string(record.Extraction.Kind), record.Digest,
		string(tags), string(extracted), chunks, len(record.Extraction.Chunks), index,
		storedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert %s: %w", record.FileID, err)
	}
	return tx.Commit()
}

// LoadExtraction returns the stored extraction including its chunks.
func (s *Store) LoadExtraction(ctx context.Context, fileID string) (*document.Extraction, error) {
	var kind, tags, extracted string
	var chunks []byte
	row := s.db.QueryRowContext(ctx, `SELECT kind, tags, extracted, chunks FROM documents WHERE file_id = ?`, fileID)
	if err := row.Scan(&kind, &tags, &extracted, &chunks); err != nil {
		return nil, notFound(fileID, err)
	}
	ret := &document.Extraction{Kind: document.Kind(kind)}
	if err := json.Unmarshal([]byte(tags), &ret.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags of %s: %w", fileID, err)
	}
	if err := json.Unmarshal([]byte(extracted), &ret.Extracted); err != nil {
		return nil, fmt.Errorf("failed to decode extracted metadata of %s: %w", fileID, err)
	}
	decoded, err := document.UnmarshalChunks(chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to decode chunks of %s: %w", fileID, err)
	}
	ret.Chunks = decoded
	if ret.Chunks == nil {
		ret.Chunks = document.Chunks{}
	}
	return ret, nil
}

// LoadChunks returns the stored chunk set of a document.
func (s *Store) LoadChunks(ctx context.Context, fileID string) (document.Chunks, error) {
	var chunks []byte
	row := s.db.QueryRowContext(ctx, `SELECT chunks FROM documents WHERE file_id = ?`, fileID)
	if err := row.Scan(&chunks); err != nil {
		return nil, notFound(fileID, err)
	}
	return document.UnmarshalChunks(chunks)
}

// LoadWorkbook returns the stored workbook index of a spreadsheet document.
func (s *Store) LoadWorkbook(ctx context.Context, fileID string) (*workbook.Index, error) {
	var data sql.NullString
	row := s.db.QueryRowContext(ctx, `SELECT workbook FROM documents WHERE file_id = ?`, fileID)
	if err := row.Scan(&data); err != nil {
		return nil, notFound(fileID, err)
	}
	if !data.Valid {
		return nil, fmt.Errorf("%w: %s", ErrNoWorkbook, fileID)
	}
	index := &workbook.Index{}
	if err := json.Unmarshal([]byte(data.String), index); err != nil {
		return nil, fmt.Errorf("failed to decode workbook of %s: %w", fileID, err)
	}
	return index, nil
}

// Digest returns the content digest stored for fileID.
func (s *Store) Digest(ctx context.Context, fileID string) (string, bool, error) {
	var digest string
	row := s.db.QueryRowContext(ctx, `SELECT digest FROM documents WHERE file_id = ?`, fileID)
	if err := row.Scan(&digest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return digest, true, nil
}

// List returns summaries of all stored documents ordered by file id.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT file_id, filename, kind, digest, tags, chunk_count, stored_at FROM documents ORDER BY file_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Summary
	for rows.Next() {
		var item Summary
		var kind, tags, storedAt string
		if err := rows.Scan(&item.FileID, &item.Filename, &kind, &item.Digest, &tags, &item.ChunkCount, &storedAt); err != nil {
			return nil, err
		}
		item.Kind = document.Kind(kind)
		if err := json.Unmarshal([]byte(tags), &item.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags of %s: %w", item.FileID, err)
		}
		if item.StoredAt, err = time.Parse(time.RFC3339Nano, storedAt); err != nil {
			return nil, fmt.Errorf("failed to decode stored_at of %s: %w", item.FileID, err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// Delete removes a document; deleting a missing document is not an error.
func (s *Store) Delete(ctx context.Context, fileID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE file_id = ?`, fileID)
	return err
}

func notFound(fileID string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, fileID)
	}
	return err
}
