package bk

import (
	"database/sql"
	"time"
)

// FileRecord is the catalog row for one discovered filesystem entry.
// Size, AccessedAt and ModifiedAt are absent when the file could not be
// stat'ed; Digest is absent when hashing was skipped or failed.
type FileRecord struct {
	Path       string
	Size       sql.NullInt64
	AccessedAt sql.NullTime
	ModifiedAt sql.NullTime
	Digest     sql.NullString
	Outcome    Outcome
}

// RunStats holds the aggregate counters of a run.
// Per-outcome counters only include files whose catalog row was written.
type RunStats struct {
	FilesAllowed       int64
	FilesAllowedBytes  int64
	FilesExcluded      int64
	FilesExcludedBytes int64
	FilesErrored       int64
	FilesHashed        int64
	FilesRejected      int64 // catalog inserts that failed
	FileInserts        int64

	FileInsertTime time.Duration
	ArchiveAddTime time.Duration
	HashTime       time.Duration
}

// BackupRun describes one invocation of the pipeline.
type BackupRun struct {
	ID            string
	Name          string
	InputDirs     []string
	OutputDir     string
	ArchivePath   string
	CatalogPath   string
	HashAlgorithm string
	Compression   string
	StartedAt     time.Time
	FinishedAt    time.Time
	Stats         RunStats
}

// Duration returns the wall-clock length of a finished run.
func (r *BackupRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// tally is the counter contribution of one file. It is applied to the
// run only once the file's catalog row has been written.
type tally struct {
	outcome Outcome
	size    int64
	hashed  bool
}

func (s *RunStats) apply(t tally) {
	if t.hashed {
		s.FilesHashed++
	}
	switch {
	case t.outcome.IsError():
		s.FilesErrored++
	case t.outcome == OutcomeAccepted:
		s.FilesAllowed++
		s.FilesAllowedBytes += t.size
	case t.outcome == OutcomeExcludedByExtension:
		s.FilesExcluded++
		s.FilesExcludedBytes += t.size
	}
}
