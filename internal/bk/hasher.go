package bk

import "io"

// Hasher computes a content digest.
type Hasher interface {
	// Hash reads r to EOF and returns the lowercase hex digest.
	// A read failure returns an error and no partial digest.
	Hash(r io.Reader) (string, error)

	// Algorithm returns the algorithm name recorded with the run.
	Algorithm() string
}
