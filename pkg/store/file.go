// Package store persists serialized databases.
package store

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File keeps the database as a gzip-compressed file on disk.
type File struct {
	Path  string
	Level int
}

// NewFile returns a store writing path at maximum compression.
func NewFile(path string) *File {
	return &File{Path: path, Level: gzip.BestCompression}
}

// Load reads and decompresses the file. A missing file yields an error
// matching fs.ErrNotExist.
func (f *File) Load() ([]byte, error) {
	raw, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer raw.Close()

	gz, err := gzip.NewReader(raw)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream %s: %w", f.Path, err)
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", f.Path, err)
	}
	return data, nil
}

// Save compresses data and replaces the file atomically.
func (f *File) Save(data []byte) error {
	var buf bytes.Buffer
	gz, err := gzip.NewWriterLevel(&buf, f.Level)
	if err != nil {
		return fmt.Errorf("create gzip writer: %w", err)
	}
	if _, err := gz.Write(data); err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("compress: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.Path), filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("replace %s: %w", f.Path, err)
	}
	return nil
}
