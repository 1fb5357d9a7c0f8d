package testutil

import (
	"fmt"
	"io"
	"sync"

	"bsnap/internal/bk"
)

// ArchivedEntry is one entry captured by MemoryArchive.
type ArchivedEntry struct {
	Path    string
	Content []byte
}

// MemoryArchive records appended entries in memory.
type MemoryArchive struct {
	mu       sync.Mutex
	entries  []ArchivedEntry
	failures map[string]error
	closeErr error
	closed   int
}

// NewMemoryArchive creates an empty MemoryArchive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{failures: make(map[string]error)}
}

// FailAdd makes Add fail for path. The entry is not recorded.
func (a *MemoryArchive) FailAdd(path string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[path] = err
}

// FailClose makes Close return err.
func (a *MemoryArchive) FailClose(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeErr = err
}

func (a *MemoryArchive) Add(path *bk.Path, content io.Reader) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed > 0 {
		return fmt.Errorf("%w: archive is closed", bk.ErrArchive)
	}
	if err, ok := a.failures[path.String()]; ok {
		return fmt.Errorf("%w: %w", bk.ErrArchive, err)
	}

	var data []byte
	if content != nil {
		var err error
		data, err = io.ReadAll(io.LimitReader(content, path.Size()))
		if err != nil {
			return fmt.Errorf("%w: %w", bk.ErrArchive, err)
		}
	}
	a.entries = append(a.entries, ArchivedEntry{Path: path.String(), Content: data})
	return nil
}

func (a *MemoryArchive) Path() string { return "memory.tar" }

func (a *MemoryArchive) Compression() string { return "none" }

func (a *MemoryArchive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed++
	if a.closed > 1 {
		return nil
	}
	return a.closeErr
}

// Entries returns the appended entries in order.
func (a *MemoryArchive) Entries() []ArchivedEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ArchivedEntry(nil), a.entries...)
}

// Closed reports whether Close was called.
func (a *MemoryArchive) Closed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed > 0
}

var _ bk.Archive = (*MemoryArchive)(nil)
