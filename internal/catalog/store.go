package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotIndexed reports a path absent from the catalog.
var ErrNotIndexed = errors.New("bundle not indexed")

// Record is one indexed bundle.
type Record struct {
	ID              int64
	Path            string
	Title           string
	SizeBytes       int64
	ModTime         time.Time
	DurationSeconds float64
	SegmentCount    int
	MetadataPresent bool
	ChecksumOK      bool
	Generation      int
	IndexedAt       time.Time
}

// SegmentRow is one indexed transcript segment.
type SegmentRow struct {
	Seq       int
	StartTime float64
	EndTime   float64
	Speaker   string
	Text      string
}

// SearchHit is one segment matching a search query.
type SearchHit struct {
	BundlePath string
	Title      string
	Seq        int
	StartTime  float64
	EndTime    float64
	Speaker    string
	Text       string
}

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database and applies
// migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) applyMigrations(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS bundles (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    size_bytes INTEGER NOT NULL,
    mtime TEXT NOT NULL,
    duration_seconds REAL NOT NULL DEFAULT 0,
    segment_count INTEGER NOT NULL DEFAULT 0,
    metadata_present INTEGER NOT NULL DEFAULT 0,
    checksum_ok INTEGER NOT NULL DEFAULT 1,
    generation INTEGER NOT NULL DEFAULT 1,
    indexed_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS segments (
    bundle_id INTEGER NOT NULL REFERENCES bundles(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    start_time REAL NOT NULL,
    end_time REAL NOT NULL,
    speaker TEXT NOT NULL DEFAULT '',
    text TEXT NOT NULL,
    PRIMARY KEY (bundle_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_segments_text ON segments(text);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Upsert replaces the indexed record and segments for rec.Path in a single
// transaction.
func (s *Store) Upsert(ctx context.Context, rec Record, segments []SegmentRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bundles WHERE path = ?`, rec.Path); err != nil {
		return fmt.Errorf("clear previous record: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bundles (
            path, title, size_bytes, mtime, duration_seconds,
            segment_count, metadata_present, checksum_ok, generation, indexed_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Path,
		rec.Title,
		rec.SizeBytes,
		rec.ModTime.UTC().Format(time.RFC3339Nano),
		rec.DurationSeconds,
		rec.SegmentCount,
		boolToInt(rec.MetadataPresent),
		boolToInt(rec.ChecksumOK),
		rec.Generation,
		rec.IndexedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert bundle: %w", err)
	}
	bundleID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	for _, seg := range segments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO segments (bundle_id, seq, start_time, end_time, speaker, text)
             VALUES (?, ?, ?, ?, ?, ?)`,
			bundleID, seg.Seq, seg.StartTime, seg.EndTime, seg.Speaker, seg.Text,
		); err != nil {
			return fmt.Errorf("insert segment %d: %w", seg.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetByPath fetches one indexed record.
func (s *Store) GetByPath(ctx context.Context, path string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, path, title, size_bytes, mtime, duration_seconds,
                segment_count, metadata_present, checksum_ok, generation, indexed_at
         FROM bundles WHERE path = ?`, path)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotIndexed, path)
	}
	return rec, err
}

// List returns every indexed bundle ordered by path.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, title, size_bytes, mtime, duration_seconds,
                segment_count, metadata_present, checksum_ok, generation, indexed_at
         FROM bundles ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Remove drops a bundle and its segments from the index.
func (s *Store) Remove(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM bundles WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// NeedsRefresh reports whether path must be (re-)indexed given its current
// size and modification time.
func (s *Store) NeedsRefresh(ctx context.Context, path string, size int64, modTime time.Time) (bool, error) {
	rec, err := s.GetByPath(ctx, path)
	if errors.Is(err, ErrNotIndexed) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return rec.SizeBytes != size || !rec.ModTime.Equal(modTime), nil
}

// Search finds segments containing the query, case-insensitively. No
// ranking: results come back in bundle-path then segment order.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.path, b.title, s.seq, s.start_time, s.end_time, s.speaker, s.text
         FROM segments s JOIN bundles b ON b.id = s.bundle_id
         WHERE instr(lower(s.text), lower(?)) > 0
         ORDER BY b.path, s.seq
         LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.BundlePath, &h.Title, &h.Seq, &h.StartTime, &h.EndTime, &h.Speaker, &h.Text); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec                 Record
		mtime, indexedAt    string
		metadata, checksums int
	)
	if err := row.Scan(&rec.ID, &rec.Path, &rec.Title, &rec.SizeBytes, &mtime,
		&rec.DurationSeconds, &rec.SegmentCount, &metadata, &checksums,
		&rec.Generation, &indexedAt); err != nil {
		return nil, err
	}
	rec.MetadataPresent = metadata != 0
	rec.ChecksumOK = checksums != 0

	var err error
	if rec.ModTime, err = time.Parse(time.RFC3339Nano, mtime); err != nil {
		return nil, fmt.Errorf("parse mtime: %w", err)
	}
	if rec.IndexedAt, err = time.Parse(time.RFC3339Nano, indexedAt); err != nil {
		return nil, fmt.Errorf("parse indexed_at: %w", err)
	}
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
