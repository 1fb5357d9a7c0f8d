package catalog

import (
	"fmt"
	"path/filepath"
)

// NewCatalogForRun creates the run catalog in outputDir. base is the file
// name without extension and matches the archive's.
func NewCatalogForRun(outputDir, base string) (*SQLiteCatalog, error) {
	path := filepath.Join(outputDir, base+Extension)
	c, err := Create(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	return c, nil
}
