// Package sqlite provides a SQLite-backed workspace store so separate
// CLI invocations operate on one shared session.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pagedeck/pagedeck-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driven"
)

// selectedKey is the workspace table key holding the selected file ID.
const selectedKey = "selected_file"

// Ensure Store implements the interface.
var _ driven.FileStore = (*Store)(nil)

// Store is a SQLite-based file store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.pagedeck/data/workspace.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pagedeck", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "workspace.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies pending .up.sql migrations in version order.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Save stores a file record and its page sequence.
func (s *Store) Save(ctx context.Context, rec *domain.FileRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO files (id, name, data, total_pages, rendering, merge_selected, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Name, rec.Data, rec.TotalPages, rec.Rendering, rec.MergeSelected, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	if err := replacePages(ctx, tx, rec.ID, rec.Pages); err != nil {
		return err
	}

	return tx.Commit()
}

// Get retrieves a record by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.FileRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, data, total_pages, rendering, merge_selected, created_at
		FROM files WHERE id = ?
	`, id)

	rec, err := scanFile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("getting file: %w", err)
	}

	if rec.Pages, err = s.loadPages(ctx, id); err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns all records in insertion order.
func (s *Store) List(ctx context.Context) ([]domain.FileRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, data, total_pages, rendering, merge_selected, created_at
		FROM files ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer rows.Close()

	var records []domain.FileRecord
	for rows.Next() {
		rec, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	for i := range records {
		if records[i].Pages, err = s.loadPages(ctx, records[i].ID); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// Delete removes a record and its pages.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM files WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}

	// Clear a dangling selection
	_, err = s.db.ExecContext(ctx, "DELETE FROM workspace WHERE key = ? AND value = ?", selectedKey, id)
	if err != nil {
		return fmt.Errorf("clearing selection: %w", err)
	}
	return nil
}

// Selected returns the ID of the selected record.
func (s *Store) Selected(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM workspace WHERE key = ?", selectedKey).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting selection: %w", err)
	}
	return id, nil
}

// SetSelected marks a record as the current selection.
func (s *Store) SetSelected(ctx context.Context, id string) error {
	if id == "" {
		_, err := s.db.ExecContext(ctx, "DELETE FROM workspace WHERE key = ?", selectedKey)
		if err != nil {
			return fmt.Errorf("clearing selection: %w", err)
		}
		return nil
	}

	if err := s.requireFile(ctx, id); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workspace (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, selectedKey, id)
	if err != nil {
		return fmt.Errorf("setting selection: %w", err)
	}
	return nil
}

// UpdatePages replaces a record's page sequence in one transaction.
func (s *Store) UpdatePages(ctx context.Context, id string, pages []domain.PageRef) error {
	if err := s.requireFile(ctx, id); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := replacePages(ctx, tx, id, pages); err != nil {
		return err
	}
	return tx.Commit()
}

// SetRendering updates a record's rendering flag.
func (s *Store) SetRendering(ctx context.Context, id string, rendering bool) error {
	result, err := s.db.ExecContext(ctx, "UPDATE files SET rendering = ? WHERE id = ?", rendering, id)
	if err != nil {
		return fmt.Errorf("updating rendering flag: %w", err)
	}
	return requireAffected(result, id)
}

// SetThumb stores a rendered preview for one page, identified by its
// original page number.
func (s *Store) SetThumb(ctx context.Context, id string, pageNumber int, thumb string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE pages SET thumb = ? WHERE file_id = ? AND page_number = ?
	`, thumb, id, pageNumber)
	if err != nil {
		return fmt.Errorf("updating thumbnail: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating thumbnail: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: page %d of file %s", domain.ErrNotFound, pageNumber, id)
	}
	return nil
}

// SetMergeSelected updates a record's merge flag.
func (s *Store) SetMergeSelected(ctx context.Context, id string, selected bool) error {
	result, err := s.db.ExecContext(ctx, "UPDATE files SET merge_selected = ? WHERE id = ?", selected, id)
	if err != nil {
		return fmt.Errorf("updating merge flag: %w", err)
	}
	return requireAffected(result, id)
}

// Clear removes all records and the selection.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM pages",
		"DELETE FROM files",
		"DELETE FROM workspace",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing workspace: %w", err)
		}
	}
	return tx.Commit()
}

// loadPages reads a record's page sequence in display order.
func (s *Store) loadPages(ctx context.Context, id string) ([]domain.PageRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT page_number, thumb FROM pages WHERE file_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("loading pages: %w", err)
	}
	defer rows.Close()

	var pages []domain.PageRef
	for rows.Next() {
		var p domain.PageRef
		if err := rows.Scan(&p.PageNumber, &p.Thumb); err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading pages: %w", err)
	}
	return pages, nil
}

// requireFile returns ErrNotFound unless the file exists.
func (s *Store) requireFile(ctx context.Context, id string) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM files WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("checking file: %w", err)
	}
	return nil
}

// replacePages rewrites the page sequence for a file inside tx.
func replacePages(ctx context.Context, tx *sql.Tx, id string, pages []domain.PageRef) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM pages WHERE file_id = ?", id); err != nil {
		return fmt.Errorf("clearing pages: %w", err)
	}
	for i, p := range pages {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO pages (file_id, position, page_number, thumb) VALUES (?, ?, ?, ?)
		`, id, i, p.PageNumber, p.Thumb)
		if err != nil {
			return fmt.Errorf("inserting page %d: %w", p.PageNumber, err)
		}
	}
	return nil
}

// requireAffected maps a zero-row update to ErrNotFound.
func requireAffected(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanFile.
type scanner interface {
	Scan(dest ...any) error
}

// scanFile reads one files row.
func scanFile(row scanner) (*domain.FileRecord, error) {
	var rec domain.FileRecord
	err := row.Scan(&rec.ID, &rec.Name, &rec.Data, &rec.TotalPages, &rec.Rendering, &rec.MergeSelected, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
