package archive

import (
	"fmt"
	"path/filepath"

	"bsnap/internal/config"
)

// NewArchiveFromConfig creates the run archive in outputDir. base is the
// file name without extension, for example "home-240131-120000".
func NewArchiveFromConfig(cfg config.ArchiveConfig, outputDir, base string) (*TarArchive, error) {
	compression, err := ParseCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(outputDir, base+compression.Extension())
	a, err := Create(path, compression, cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	return a, nil
}
