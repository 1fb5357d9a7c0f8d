package bk

import "io/fs"

// Path is a discovered file together with the stat result taken when it
// was processed. The pipeline stats each file once and reuses the result
// for bookkeeping and for the archive header.
type Path struct {
	absPath string
	info    fs.FileInfo
}

// NewPath creates a Path from its components.
// This is primarily for use by FilesystemManager implementations.
func NewPath(absPath string, info fs.FileInfo) *Path {
	return &Path{
		absPath: absPath,
		info:    info,
	}
}

// String returns the absolute path as a string.
func (p *Path) String() string {
	return p.absPath
}

// Info returns the cached file info.
func (p *Path) Info() fs.FileInfo {
	return p.info
}

// Size returns the size recorded by the stat.
func (p *Path) Size() int64 {
	return p.info.Size()
}

// IsRegular reports whether the path is a regular file.
func (p *Path) IsRegular() bool {
	return p.info.Mode().IsRegular()
}
