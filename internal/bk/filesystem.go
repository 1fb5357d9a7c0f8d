package bk

import (
	"io"
	"io/fs"
	"time"
)

// DirAccess is a set of permissions a directory must grant the current user.
type DirAccess uint8

const (
	AccessRead DirAccess = 1 << iota
	AccessWrite
	AccessTraverse
)

// InputDirAccess is required of every input directory.
const InputDirAccess = AccessRead | AccessTraverse

// OutputDirAccess is required of the output directory.
const OutputDirAccess = AccessRead | AccessWrite | AccessTraverse

// StatData holds platform-specific metadata that fs.FileInfo does not expose.
type StatData struct {
	Atime time.Time
}

// WalkFunc is called for each non-directory entry found by Walk.
// When err is non-nil, path names a directory that could not be read;
// returning nil skips it and continues the walk.
type WalkFunc func(path string, err error) error

// FilesystemManager provides an interface for filesystem operations.
// It abstracts file access to enable testing without touching the real filesystem.
type FilesystemManager interface {
	// Walk visits every non-directory entry under root in lexical order.
	// Symlinks to directories are reported as neither files nor directories.
	Walk(root string, fn WalkFunc) error

	// Stat stats a path, following symlinks.
	Stat(path string) (*Path, error)

	// Open opens a file for reading.
	Open(path *Path) (io.ReadCloser, error)

	// ExtractStatData extracts the access time from a FileInfo.
	ExtractStatData(info fs.FileInfo) (*StatData, error)

	// CheckDirectory verifies that path is an existing directory granting
	// the requested access. Errors wrap ErrDirectoryValidation.
	CheckDirectory(path string, access DirAccess) error
}
