package archive

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"bsnap/internal/bk"
)

// TarArchive is a bk.Archive writing a compressed tar stream to a new file.
type TarArchive struct {
	path        string
	compression Compression
	tw          *tar.Writer
	closers     []io.Closer
	closed      bool
}

var _ bk.Archive = (*TarArchive)(nil)

// Create creates a new archive at path. It fails if path already exists.
func Create(path string, compression Compression, level int) (*TarArchive, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0640)
	if err != nil {
		return nil, fmt.Errorf("creating archive file: %w", err)
	}

	a := &TarArchive{
		path:        path,
		compression: compression,
		closers:     []io.Closer{f},
	}

	cw, err := compression.newWriter(f, level)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("creating %s writer: %w", compression, err)
	}
	a.closers = append(a.closers, cw)

	a.tw = tar.NewWriter(cw)
	a.closers = append(a.closers, a.tw)
	return a, nil
}

// Add appends one entry. The entry name is the absolute path without its
// leading separator.
func (a *TarArchive) Add(path *bk.Path, content io.Reader) error {
	if a.closed {
		return fmt.Errorf("%w: archive is closed", bk.ErrArchive)
	}

	hdr, err := tar.FileInfoHeader(path.Info(), "")
	if err != nil {
		return fmt.Errorf("%w: building header for %s: %w", bk.ErrArchive, path, err)
	}
	hdr.Name = strings.TrimLeft(path.String(), "/")
	hdr.Format = tar.FormatPAX

	if err := a.tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("%w: writing header for %s: %w", bk.ErrArchive, path, err)
	}
	if hdr.Typeflag != tar.TypeReg || hdr.Size == 0 {
		return nil
	}

	if content == nil {
		content = bytes.NewReader(nil)
	}
	n, copyErr := io.CopyN(a.tw, content, hdr.Size)
	if copyErr == nil {
		return nil
	}

	// The header already promised hdr.Size bytes.
	if _, err := io.CopyN(a.tw, zeroReader{}, hdr.Size-n); err != nil {
		return fmt.Errorf("%w: padding %s: %w", bk.ErrArchive, path, err)
	}
	if errors.Is(copyErr, io.EOF) {
		return fmt.Errorf("%w: %s shrank from %d to %d bytes", bk.ErrArchive, path, hdr.Size, n)
	}
	return fmt.Errorf("%w: copying %s: %w", bk.ErrArchive, path, copyErr)
}

// Path returns the archive file location.
func (a *TarArchive) Path() string {
	return a.path
}

// Compression returns the compression name.
func (a *TarArchive) Compression() string {
	return string(a.compression)
}

// Close finalizes the tar stream, the compressor and the file in that
// order, returning the first error.
func (a *TarArchive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}
