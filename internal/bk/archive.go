package bk

import "io"

// Archive is an append-only compressed container for accepted files.
type Archive interface {
	// Add appends one entry using the stat result in path. content supplies
	// exactly path.Size() bytes for regular files and is nil otherwise.
	// Errors wrap ErrArchive and leave earlier entries intact.
	Add(path *Path, content io.Reader) error

	// Path returns the archive file location.
	Path() string

	// Compression returns the compression name recorded with the run.
	Compression() string

	// Close finalizes and flushes the container. Further calls are no-ops.
	Close() error
}
