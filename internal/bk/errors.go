package bk

import "errors"

var (
	// ErrDirectoryValidation marks an input or output directory that is
	// missing or lacks the permissions a run needs. Fatal.
	ErrDirectoryValidation = errors.New("directory validation failed")

	// ErrRead marks a per-file stat or read failure.
	ErrRead = errors.New("read error")

	// ErrArchive marks a per-file archive append failure.
	ErrArchive = errors.New("archive error")

	// ErrDuplicatePath marks a catalog insert for a path already recorded in this run.
	ErrDuplicatePath = errors.New("duplicate path in catalog")
)
