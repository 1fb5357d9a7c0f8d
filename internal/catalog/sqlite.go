// Package catalog stores one run's file records and run metadata in a
// SQLite database next to the archive.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-sqlite3"

	"bsnap/internal/bk"
	"bsnap/internal/catalog/migrations"
)

// Extension is the catalog file suffix.
const Extension = ".sqlite3"

// SQLiteCatalog implements bk.Catalog using SQLite.
type SQLiteCatalog struct {
	db   *sql.DB
	path string
}

var _ bk.Catalog = (*SQLiteCatalog)(nil)

// Create creates a new catalog file at path and applies the schema.
// It fails if path already exists.
func Create(path string) (*SQLiteCatalog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0640)
	if err != nil {
		return nil, fmt.Errorf("creating catalog file: %w", err)
	}
	f.Close()

	db, err := OpenConnection(path)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		os.Remove(path)
		return nil, fmt.Errorf("applying catalog schema: %w", err)
	}

	return &SQLiteCatalog{db: db, path: path}, nil
}

// OpenExisting opens a catalog written by an earlier run for reading.
func OpenExisting(path string) (*SQLiteCatalog, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.CheckDBMigrationStatus(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("checking catalog %s: %w", path, err)
	}

	return &SQLiteCatalog{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with the PRAGMAs
// the catalog relies on.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// PRAGMAs are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA synchronous = OFF"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	return db, nil
}

// Path returns the catalog file location.
func (c *SQLiteCatalog) Path() string {
	return c.path
}

// Close closes the database connection.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

// RecordFile inserts one file row.
func (c *SQLiteCatalog) RecordFile(record *bk.FileRecord) error {
	_, err := c.db.ExecContext(context.Background(),
		`INSERT INTO file (path, size, date_accessed, date_modified, hash, outcome_code)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.Path,
		record.Size,
		unixSeconds(record.AccessedAt),
		unixSeconds(record.ModifiedAt),
		record.Digest,
		int64(record.Outcome),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", bk.ErrDuplicatePath, record.Path)
		}
		return fmt.Errorf("inserting file %s: %w", record.Path, err)
	}
	return nil
}

// RecordRun inserts the run row, its input directories, the excluded
// extensions and the outcome code lookup in one transaction.
func (c *SQLiteCatalog) RecordRun(run *bk.BackupRun, policy *bk.ExclusionPolicy) error {
	ctx := context.Background()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	s := run.Stats
	_, err = tx.ExecContext(ctx,
		`INSERT INTO run (
			id, name, out_dir, archive_path, hash_algorithm, compression,
			hash_excluded_max_size, start_time, end_time,
			files_allowed, files_allowed_bytes, files_excluded, files_excluded_bytes,
			files_errored, files_hashed, files_rejected, file_inserts,
			file_insert_time, archive_add_time, hash_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Name, run.OutputDir, run.ArchivePath, run.HashAlgorithm, run.Compression,
		policy.HashMaxSize(), run.StartedAt.Unix(), run.FinishedAt.Unix(),
		s.FilesAllowed, s.FilesAllowedBytes, s.FilesExcluded, s.FilesExcludedBytes,
		s.FilesErrored, s.FilesHashed, s.FilesRejected, s.FileInserts,
		s.FileInsertTime.Seconds(), s.ArchiveAddTime.Seconds(), s.HashTime.Seconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, dir := range run.InputDirs {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO input_dir (dir) VALUES (?)", dir); err != nil {
			return fmt.Errorf("inserting input directory %s: %w", dir, err)
		}
	}

	for _, ext := range policy.Extensions() {
		if _, err := tx.ExecContext(ctx, "INSERT INTO excluded_ext (ext) VALUES (?)", ext); err != nil {
			return fmt.Errorf("inserting excluded extension %q: %w", ext, err)
		}
	}

	for _, o := range bk.Outcomes() {
		if _, err := tx.ExecContext(ctx, "INSERT INTO outcome_code (code, label) VALUES (?, ?)", int64(o), o.Label()); err != nil {
			return fmt.Errorf("inserting outcome code %d: %w", o, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func unixSeconds(t sql.NullTime) sql.NullInt64 {
	if !t.Valid {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Time.Unix(), Valid: true}
}

func fromUnixSeconds(v sql.NullInt64) sql.NullTime {
	if !v.Valid {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: time.Unix(v.Int64, 0), Valid: true}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
