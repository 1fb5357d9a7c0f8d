package testutil

import (
	"path/filepath"
	"testing"

	"bsnap/internal/catalog"
)

// NewTestCatalog creates a SQLite catalog in a temp directory with the
// schema applied. The catalog is closed when the test completes.
func NewTestCatalog(t *testing.T) *catalog.SQLiteCatalog {
	t.Helper()

	c, err := catalog.Create(filepath.Join(t.TempDir(), "test"+catalog.Extension))
	if err != nil {
		t.Fatalf("failed to create catalog: %v", err)
	}

	t.Cleanup(func() {
		c.Close()
	})

	return c
}
