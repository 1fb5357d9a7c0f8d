package fs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"bsnap/internal/bk"
)

// OSFilesystemManager is the real filesystem implementation of FilesystemManager.
// It performs actual filesystem operations using the os package.
type OSFilesystemManager struct{}

// NewOSFilesystemManager creates a new filesystem manager that operates on the real filesystem.
func NewOSFilesystemManager() *OSFilesystemManager {
	return &OSFilesystemManager{}
}

// Walk visits every non-directory entry under root in lexical order.
// Directories that cannot be read are reported to fn with a non-nil error
// and skipped. Symlinks are not followed; a symlink that resolves to a
// directory is skipped, any other symlink (including a dangling one) is
// reported as a file.
func (m *OSFilesystemManager) Walk(root string, fn bk.WalkFunc) error {
	// A trailing separator makes WalkDir descend into a root that is itself a symlink.
	if info, err := os.Lstat(root); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		root = filepath.Clean(root) + string(filepath.Separator)
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if cbErr := fn(p, err); cbErr != nil {
				return cbErr
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(p); err == nil && info.IsDir() {
				return nil
			}
		}
		return fn(p, nil)
	})
}

// Stat stats a path, following symlinks.
func (m *OSFilesystemManager) Stat(path string) (*bk.Path, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}
	return bk.NewPath(path, info), nil
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path *bk.Path) (io.ReadCloser, error) {
	if path.Info().IsDir() {
		return nil, fmt.Errorf("cannot open directory as file: %s", path.String())
	}
	return os.Open(path.String())
}

// CheckDirectory verifies that path is an existing directory the current
// user can access with the requested permissions.
func (m *OSFilesystemManager) CheckDirectory(path string, access bk.DirAccess) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: not a directory: %s", bk.ErrDirectoryValidation, path)
		}
		return fmt.Errorf("%w: stat %s: %w", bk.ErrDirectoryValidation, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: not a directory: %s", bk.ErrDirectoryValidation, path)
	}

	if err := unix.Access(path, accessMode(access)); err != nil {
		return fmt.Errorf("%w: bad permissions for directory: %s: %w", bk.ErrDirectoryValidation, path, err)
	}
	return nil
}

// accessMode converts a DirAccess set to access(2) mode bits.
func accessMode(access bk.DirAccess) uint32 {
	var mode uint32
	if access&bk.AccessRead != 0 {
		mode |= unix.R_OK
	}
	if access&bk.AccessWrite != 0 {
		mode |= unix.W_OK
	}
	if access&bk.AccessTraverse != 0 {
		mode |= unix.X_OK
	}
	return mode
}

// Compile-time check that OSFilesystemManager implements bk.FilesystemManager interface
var _ bk.FilesystemManager = (*OSFilesystemManager)(nil)
