package testutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"bsnap/internal/bk"
)

// MockFile represents a file in the mock filesystem.
type MockFile struct {
	Content     []byte
	Permissions fs.FileMode
	ModTime     time.Time
	IsDirectory bool
	Atime       time.Time
}

// MockFilesystemManager is an in-memory filesystem for testing.
// Failures can be injected per path for stat, open, walk and directory checks.
type MockFilesystemManager struct {
	files      map[string]*MockFile
	statErrs   map[string]error
	openErrs   map[string]error
	unreadable map[string]error
	dirErrs    map[string]error
	baseTime   time.Time
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files:      make(map[string]*MockFile),
		statErrs:   make(map[string]error),
		openErrs:   make(map[string]error),
		unreadable: make(map[string]error),
		dirErrs:    make(map[string]error),
		baseTime:   time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
	}
}

// AddFile adds a regular file to the mock filesystem. Parent directories
// are created implicitly.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.AddFileWithMode(path, content, 0644)
}

// AddFileWithMode adds a file with explicit mode bits, which may include
// type bits such as fs.ModeNamedPipe.
func (m *MockFilesystemManager) AddFileWithMode(path string, content []byte, mode fs.FileMode) {
	m.addParents(path)
	m.files[path] = &MockFile{
		Content:     content,
		Permissions: mode,
		ModTime:     m.baseTime,
		Atime:       m.baseTime.Add(time.Hour),
	}
}

// AddDirectory adds a directory to the mock filesystem.
func (m *MockFilesystemManager) AddDirectory(path string) {
	m.addParents(path)
	m.files[path] = &MockFile{
		Permissions: fs.ModeDir | 0755,
		ModTime:     m.baseTime,
		IsDirectory: true,
		Atime:       m.baseTime,
	}
}

func (m *MockFilesystemManager) addParents(path string) {
	for dir := filepath.Dir(path); dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		if _, ok := m.files[dir]; ok {
			continue
		}
		m.files[dir] = &MockFile{
			Permissions: fs.ModeDir | 0755,
			ModTime:     m.baseTime,
			IsDirectory: true,
		}
	}
}

// FailStat makes Stat fail for path while Walk still reports it.
func (m *MockFilesystemManager) FailStat(path string, err error) {
	m.statErrs[path] = err
}

// FailOpen makes Open fail for path.
func (m *MockFilesystemManager) FailOpen(path string, err error) {
	m.openErrs[path] = err
}

// MakeUnreadable makes Walk report err for directory path and skip its contents.
func (m *MockFilesystemManager) MakeUnreadable(path string, err error) {
	m.unreadable[path] = err
}

// FailCheckDirectory makes CheckDirectory fail for path.
func (m *MockFilesystemManager) FailCheckDirectory(path string, err error) {
	m.dirErrs[path] = err
}

// Walk visits files under root in lexical order per directory.
func (m *MockFilesystemManager) Walk(root string, fn bk.WalkFunc) error {
	rootFile, ok := m.files[root]
	if !ok || !rootFile.IsDirectory {
		return fn(root, fmt.Errorf("directory not found: %s", root))
	}
	return m.walkDir(root, fn)
}

func (m *MockFilesystemManager) walkDir(dir string, fn bk.WalkFunc) error {
	if err, ok := m.unreadable[dir]; ok {
		return fn(dir, err)
	}

	for _, child := range m.children(dir) {
		if m.files[child].IsDirectory {
			if err := m.walkDir(child, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(child, nil); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockFilesystemManager) children(dir string) []string {
	prefix := strings.TrimSuffix(dir, "/") + "/"
	var out []string
	for p := range m.files {
		if strings.HasPrefix(p, prefix) && !strings.Contains(p[len(prefix):], "/") {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (m *MockFilesystemManager) Stat(path string) (*bk.Path, error) {
	if err, ok := m.statErrs[path]; ok {
		return nil, err
	}
	file, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	info := &mockFileInfo{
		name:     filepath.Base(path),
		size:     int64(len(file.Content)),
		mode:     file.Permissions,
		modTime:  file.ModTime,
		isDir:    file.IsDirectory,
		mockFile: file,
	}
	return bk.NewPath(path, info), nil
}

func (m *MockFilesystemManager) Open(path *bk.Path) (io.ReadCloser, error) {
	if err, ok := m.openErrs[path.String()]; ok {
		return nil, err
	}
	file, ok := m.files[path.String()]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path.String())
	}
	if file.IsDirectory {
		return nil, fmt.Errorf("cannot open directory: %s", path.String())
	}
	return io.NopCloser(bytes.NewReader(file.Content)), nil
}

func (m *MockFilesystemManager) ExtractStatData(info fs.FileInfo) (*bk.StatData, error) {
	mockFile, ok := info.Sys().(*MockFile)
	if !ok {
		return nil, fmt.Errorf("cannot extract stat data: expected *MockFile, got %T", info.Sys())
	}

	return &bk.StatData{
		Atime: mockFile.Atime,
	}, nil
}

func (m *MockFilesystemManager) CheckDirectory(path string, access bk.DirAccess) error {
	if err, ok := m.dirErrs[path]; ok {
		return fmt.Errorf("%w: %s: %w", bk.ErrDirectoryValidation, path, err)
	}
	file, ok := m.files[path]
	if !ok || !file.IsDirectory {
		return fmt.Errorf("%w: %s: not a directory", bk.ErrDirectoryValidation, path)
	}
	return nil
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name     string
	size     int64
	mode     fs.FileMode
	modTime  time.Time
	isDir    bool
	mockFile *MockFile // reference to get stat data
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return m.mockFile }

// Compile-time check
var _ bk.FilesystemManager = (*MockFilesystemManager)(nil)
