package bk

// Catalog is the append-only store for one run's file records and run metadata.
type Catalog interface {
	// RecordFile inserts one file row. A path already recorded in this run
	// fails with an error wrapping ErrDuplicatePath and leaves other rows untouched.
	RecordFile(record *FileRecord) error

	// RecordRun inserts the run row, its input directories, the policy's
	// excluded extensions and the outcome code lookup. Called once.
	RecordRun(run *BackupRun, policy *ExclusionPolicy) error

	// Path returns the catalog file location.
	Path() string

	// Close closes the catalog.
	Close() error
}
