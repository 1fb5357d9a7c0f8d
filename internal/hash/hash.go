package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	gohash "hash"
	"io"

	"github.com/zeebo/blake3"

	"bsnap/internal/bk"
)

const (
	AlgorithmSHA256 = "sha256"
	AlgorithmBLAKE3 = "blake3"
)

// StreamHasher implements bk.Hasher over any hash.Hash constructor.
type StreamHasher struct {
	algorithm string
	newHash   func() gohash.Hash
}

var _ bk.Hasher = (*StreamHasher)(nil)

// NewSHA256Hasher returns a hasher producing hex SHA-256 digests.
func NewSHA256Hasher() *StreamHasher {
	return &StreamHasher{algorithm: AlgorithmSHA256, newHash: sha256.New}
}

// NewBLAKE3Hasher returns a hasher producing hex 256-bit BLAKE3 digests.
func NewBLAKE3Hasher() *StreamHasher {
	return &StreamHasher{
		algorithm: AlgorithmBLAKE3,
		newHash:   func() gohash.Hash { return blake3.New() },
	}
}

// Hash reads r to EOF and returns the hex digest of everything read.
func (h *StreamHasher) Hash(r io.Reader) (string, error) {
	digest := h.newHash()
	if _, err := io.Copy(digest, r); err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}

// Algorithm returns the algorithm name.
func (h *StreamHasher) Algorithm() string {
	return h.algorithm
}
