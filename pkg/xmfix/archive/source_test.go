package archive_test

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/frankshaka/xmfix/pkg/xmfix/archive"
)

func writeTestZip(t *testing.T, path string, entries map[string][]byte, order []string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create zip: %v", err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create entry %s: %v", name, err)
		}
		if _, err := w.Write(entries[name]); err != nil {
			t.Fatalf("failed to write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
}

func TestZipSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.zip")
	writeTestZip(t, path, map[string][]byte{
		"x.txt":   []byte("hello"),
		"d/":      nil,
		"d/y.bin": {0x01, 0x02},
	}, []string{"x.txt", "d/", "d/y.bin"})

	src, err := archive.OpenZipSource(path)
	if err != nil {
		t.Fatalf("OpenZipSource failed: %v", err)
	}

	entries, err := src.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	want := []string{"x.txt", "d/", "d/y.bin"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d: %v", len(want), len(entries), entries)
	}
	for i, name := range want {
		if entries[i] != name {
			t.Errorf("entry %d: expected %q, got %q", i, name, entries[i])
		}
	}

	content, err := src.Read("x.txt")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(content) != "hello" {
		t.Errorf("expected content %q, got %q", "hello", content)
	}

	size, err := src.Size("x.txt")
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if size != 5 {
		t.Errorf("expected size 5, got %d", size)
	}

	if _, err := src.Read("missing.txt"); !errors.Is(err, archive.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}

	if err := src.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := src.Entries(); !errors.Is(err, archive.ErrClosed) {
		t.Errorf("expected ErrClosed after Close, got %v", err)
	}
	if err := src.Close(); !errors.Is(err, archive.ErrClosed) {
		t.Errorf("expected ErrClosed on double Close, got %v", err)
	}
}

func TestDirSourceEntries(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("aaa"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("bbb"), 0644); err != nil {
		t.Fatal(err)
	}

	src := archive.NewDirSource(root)
	entries, err := src.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	want := []string{"a.txt", "sub/", "sub/b.txt"}
	if len(entries) != len(want) {
		t.Fatalf("expected entries %v, got %v", want, entries)
	}
	for i, name := range want {
		if entries[i] != name {
			t.Errorf("entry %d: expected %q, got %q", i, name, entries[i])
		}
	}
}

func TestDirSourceRead(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("aaa"), 0644); err != nil {
		t.Fatal(err)
	}

	src := archive.NewDirSource(root)
	content, err := src.Read("a.txt")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(content) != "aaa" {
		t.Errorf("expected %q, got %q", "aaa", content)
	}

	// Directory entries read as empty content.
	content, err = src.Read("sub/")
	if err != nil {
		t.Fatalf("Read of directory entry failed: %v", err)
	}
	if len(content) != 0 {
		t.Errorf("expected empty content for directory entry, got %q", content)
	}

	if _, err := src.Read("missing.txt"); !errors.Is(err, archive.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}

	size, err := src.Size("a.txt")
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if size != 3 {
		t.Errorf("expected size 3, got %d", size)
	}
}

func TestDirSourceClosed(t *testing.T) {
	src := archive.NewDirSource(t.TempDir())
	if err := src.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := src.Entries(); !errors.Is(err, archive.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if _, err := src.Read("a"); !errors.Is(err, archive.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
