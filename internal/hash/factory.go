package hash

import (
	"fmt"

	"bsnap/internal/bk"
	"bsnap/internal/config"
)

// NewHasherFromConfig creates a Hasher based on the configured algorithm.
// An empty algorithm selects SHA-256.
func NewHasherFromConfig(cfg config.HashConfig) (bk.Hasher, error) {
	switch cfg.Algorithm {
	case "", AlgorithmSHA256:
		return NewSHA256Hasher(), nil
	case AlgorithmBLAKE3:
		return NewBLAKE3Hasher(), nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm: %s", cfg.Algorithm)
	}
}
