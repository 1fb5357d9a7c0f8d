//go:build linux

package fs

import (
	"fmt"
	"io/fs"
	"syscall"
	"time"

	"bsnap/internal/bk"
)

// ExtractStatData extracts Unix-specific stat data from a FileInfo.
func (m *OSFilesystemManager) ExtractStatData(info fs.FileInfo) (*bk.StatData, error) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("cannot extract stat data: expected *syscall.Stat_t, got %T", info.Sys())
	}

	return &bk.StatData{
		Atime: time.Unix(stat.Atim.Sec, stat.Atim.Nsec),
	}, nil
}
