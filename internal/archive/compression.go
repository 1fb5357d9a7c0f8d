package archive

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression names an archive compression.
type Compression string

const (
	CompressionZstd Compression = "zstd"
	CompressionGzip Compression = "gzip"
	CompressionLZ4  Compression = "lz4"
)

// ParseCompression maps a configured name to a Compression. An empty name
// selects zstd.
func ParseCompression(name string) (Compression, error) {
	switch Compression(name) {
	case "", CompressionZstd:
		return CompressionZstd, nil
	case CompressionGzip:
		return CompressionGzip, nil
	case CompressionLZ4:
		return CompressionLZ4, nil
	default:
		return "", fmt.Errorf("unknown compression: %s", name)
	}
}

// Extension returns the archive file suffix, including the leading dot.
func (c Compression) Extension() string {
	switch c {
	case CompressionGzip:
		return ".tar.gz"
	case CompressionLZ4:
		return ".tar.lz4"
	default:
		return ".tar.zst"
	}
}

var lz4Levels = []lz4.CompressionLevel{
	lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4, lz4.Level5,
	lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

// newWriter wraps w in the compressor. Level 0 means the library default.
func (c Compression) newWriter(w io.Writer, level int) (io.WriteCloser, error) {
	switch c {
	case CompressionZstd:
		opts := []zstd.EOption{zstd.WithEncoderLevel(zstd.SpeedDefault)}
		if level > 0 {
			opts = []zstd.EOption{zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level))}
		}
		return zstd.NewWriter(w, opts...)

	case CompressionGzip:
		if level == 0 {
			level = gzip.DefaultCompression
		}
		return gzip.NewWriterLevel(w, level)

	case CompressionLZ4:
		zw := lz4.NewWriter(w)
		if level > 0 {
			if level > len(lz4Levels) {
				return nil, fmt.Errorf("lz4 level %d out of range 1-%d", level, len(lz4Levels))
			}
			if err := zw.Apply(lz4.CompressionLevelOption(lz4Levels[level-1])); err != nil {
				return nil, err
			}
		}
		return zw, nil

	default:
		return nil, fmt.Errorf("unknown compression: %s", c)
	}
}
