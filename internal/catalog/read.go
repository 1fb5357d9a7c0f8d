package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bsnap/internal/bk"
)

// ErrNoRun is returned by ReadRun when the catalog holds no run row, which
// happens when a run was interrupted before it finished.
var ErrNoRun = errors.New("catalog has no recorded run")

// ReadRun loads the recorded run together with its exclusion policy.
func (c *SQLiteCatalog) ReadRun() (*bk.BackupRun, *bk.ExclusionPolicy, error) {
	ctx := context.Background()

	run := &bk.BackupRun{CatalogPath: c.path}
	var (
		hashMaxSize                              int64
		startTime, endTime                       int64
		fileInsertTime, archiveAddTime, hashTime float64
	)
	s := &run.Stats
	err := c.db.QueryRowContext(ctx,
		`SELECT id, name, out_dir, archive_path, hash_algorithm, compression,
			hash_excluded_max_size, start_time, end_time,
			files_allowed, files_allowed_bytes, files_excluded, files_excluded_bytes,
			files_errored, files_hashed, files_rejected, file_inserts,
			file_insert_time, archive_add_time, hash_time
		 FROM run LIMIT 1`,
	).Scan(
		&run.ID, &run.Name, &run.OutputDir, &run.ArchivePath, &run.HashAlgorithm, &run.Compression,
		&hashMaxSize, &startTime, &endTime,
		&s.FilesAllowed, &s.FilesAllowedBytes, &s.FilesExcluded, &s.FilesExcludedBytes,
		&s.FilesErrored, &s.FilesHashed, &s.FilesRejected, &s.FileInserts,
		&fileInsertTime, &archiveAddTime, &hashTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNoRun
		}
		return nil, nil, fmt.Errorf("reading run: %w", err)
	}
	run.StartedAt = time.Unix(startTime, 0)
	run.FinishedAt = time.Unix(endTime, 0)
	s.FileInsertTime = seconds(fileInsertTime)
	s.ArchiveAddTime = seconds(archiveAddTime)
	s.HashTime = seconds(hashTime)

	run.InputDirs, err = c.column(ctx, "SELECT dir FROM input_dir ORDER BY rowid")
	if err != nil {
		return nil, nil, fmt.Errorf("reading input directories: %w", err)
	}
	exts, err := c.column(ctx, "SELECT ext FROM excluded_ext ORDER BY rowid")
	if err != nil {
		return nil, nil, fmt.Errorf("reading excluded extensions: %w", err)
	}

	return run, bk.NewExclusionPolicy(exts, hashMaxSize), nil
}

// ListFiles returns every file record in insertion order.
func (c *SQLiteCatalog) ListFiles() ([]*bk.FileRecord, error) {
	rows, err := c.db.QueryContext(context.Background(),
		`SELECT path, size, date_accessed, date_modified, hash, outcome_code
		 FROM file ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer rows.Close()

	var records []*bk.FileRecord
	for rows.Next() {
		var (
			r                  bk.FileRecord
			accessed, modified sql.NullInt64
			code               int64
		)
		if err := rows.Scan(&r.Path, &r.Size, &accessed, &modified, &r.Digest, &code); err != nil {
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		r.AccessedAt = fromUnixSeconds(accessed)
		r.ModifiedAt = fromUnixSeconds(modified)
		if r.Outcome, err = bk.ParseOutcome(code); err != nil {
			return nil, fmt.Errorf("file %s: %w", r.Path, err)
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return records, nil
}

// CountOutcomes returns the number of file rows per outcome.
func (c *SQLiteCatalog) CountOutcomes() (map[bk.Outcome]int64, error) {
	rows, err := c.db.QueryContext(context.Background(),
		"SELECT outcome_code, COUNT(*) FROM file GROUP BY outcome_code")
	if err != nil {
		return nil, fmt.Errorf("counting outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[bk.Outcome]int64)
	for rows.Next() {
		var code, n int64
		if err := rows.Scan(&code, &n); err != nil {
			return nil, fmt.Errorf("scanning outcome count: %w", err)
		}
		o, err := bk.ParseOutcome(code)
		if err != nil {
			return nil, err
		}
		counts[o] = n
	}
	return counts, rows.Err()
}

// column returns the first column of every row of query.
func (c *SQLiteCatalog) column(ctx context.Context, query string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
