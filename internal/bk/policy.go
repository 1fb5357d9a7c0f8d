package bk

import "strings"

// ExclusionPolicy is the run-wide selection policy: an extension blocklist
// plus the size up to which excluded files are still hashed.
// It is immutable once built.
type ExclusionPolicy struct {
	extensions  []string
	excluded    map[string]struct{}
	hashMaxSize int64
}

// NewExclusionPolicy builds a policy from configured extensions (without a
// leading '.') and the hashing threshold in bytes.
// Duplicate extensions collapse to their first occurrence.
func NewExclusionPolicy(extensions []string, hashMaxSize int64) *ExclusionPolicy {
	p := &ExclusionPolicy{
		excluded:    make(map[string]struct{}, len(extensions)),
		hashMaxSize: hashMaxSize,
	}
	for _, ext := range extensions {
		if _, ok := p.excluded[ext]; ok {
			continue
		}
		p.excluded[ext] = struct{}{}
		p.extensions = append(p.extensions, ext)
	}
	return p
}

// Extensions returns the excluded extensions in configuration order.
func (p *ExclusionPolicy) Extensions() []string {
	return append([]string(nil), p.extensions...)
}

// HashMaxSize returns the largest size in bytes at which an excluded file is still hashed.
func (p *ExclusionPolicy) HashMaxSize() int64 {
	return p.hashMaxSize
}

// Classify returns the initial outcome for a file name.
// Matching is exact and case-sensitive: "JPG" does not exclude "jpg".
func (p *ExclusionPolicy) Classify(name string) Outcome {
	if _, ok := p.excluded[Extension(name)]; ok {
		return OutcomeExcludedByExtension
	}
	return OutcomeAccepted
}

// ShouldHash reports whether a file with the given initial outcome and size is hashed.
// Accepted files are always hashed; excluded files only up to the threshold.
func (p *ExclusionPolicy) ShouldHash(outcome Outcome, size int64) bool {
	switch outcome {
	case OutcomeAccepted:
		return true
	case OutcomeExcludedByExtension:
		return size <= p.hashMaxSize
	default:
		return false
	}
}

// Extension returns the suffix after the final '.' of the base name,
// without the dot. Leading dots do not start an extension, so ".bashrc"
// and "Makefile" have none, and "archive.tar.gz" has "gz".
func Extension(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	base := strings.TrimLeft(name, ".")
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return ""
	}
	return base[i+1:]
}
