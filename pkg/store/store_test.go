package store

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordnet-ris.db")
	f := NewFile(path)

	want := []byte(`{"lemma":{},"synset":[]}`)
	if err := f.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(raw) < 2 || raw[0] != 0x1f || raw[1] != 0x8b {
		t.Fatalf("file is not gzip compressed")
	}

	got, err := f.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("load = %s; want %s", got, want)
	}
}

func TestFileMissing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "absent.db"))
	if _, err := f.Load(); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.db")
	if err := os.WriteFile(path, []byte("not gzip"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := NewFile(path).Load()
	if err == nil {
		t.Fatalf("expected error for corrupt file")
	}
	if errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("corrupt file must not look missing: %v", err)
	}
}

func TestFileSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(filepath.Join(dir, "db"))
	for i := 0; i < 3; i++ {
		if err := f.Save([]byte("x")); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the database file, found %d entries", len(entries))
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	if _, err := m.Load(); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
	buf := []byte("abc")
	if err := m.Save(buf); err != nil {
		t.Fatalf("save: %v", err)
	}
	buf[0] = 'z'
	got, _ := m.Load()
	if string(got) != "abc" {
		t.Fatalf("store kept caller's buffer: %s", got)
	}
	if m.Saves() != 1 {
		t.Fatalf("saves = %d", m.Saves())
	}
}
