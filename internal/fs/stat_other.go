//go:build !linux

package fs

import (
	"fmt"
	"io/fs"

	"bsnap/internal/bk"
)

// ExtractStatData is not supported on this platform; callers fall back to
// recording no access time.
func (m *OSFilesystemManager) ExtractStatData(info fs.FileInfo) (*bk.StatData, error) {
	return nil, fmt.Errorf("stat data extraction not supported on this platform")
}
