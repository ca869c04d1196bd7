// Package archive provides uniform read/write access to ZIP archives and
// plain directory trees as sets of named entries. Entry names use forward
// slashes; directory entries carry a trailing slash and have no content.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrClosed is returned when a source or target is used after Close.
	ErrClosed = errors.New("archive: closed")
	// ErrEntryNotFound is returned when a named entry does not exist.
	ErrEntryNotFound = errors.New("archive: entry not found")
)

// Source enumerates and reads the entries of an archive or directory tree.
type Source interface {
	// Entries returns all entry names in enumeration order. Directory
	// entries end with "/" and precede their children.
	Entries() ([]string, error)

	// Read returns the raw content of the named entry. Directory entries
	// read as empty.
	Read(name string) ([]byte, error)

	// Size returns the uncompressed size of the named entry.
	Size(name string) (int64, error)

	Close() error
}

// ZipSource reads entries from a ZIP archive.
type ZipSource struct {
	path   string
	reader *zip.ReadCloser
}

// OpenZipSource opens the ZIP archive at path for reading. The caller must
// call Close when done.
func OpenZipSource(path string) (*ZipSource, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive %s: %w", path, err)
	}
	return &ZipSource{path: path, reader: r}, nil
}

// Entries returns the entry names in central directory order.
func (s *ZipSource) Entries() ([]string, error) {
	if s.reader == nil {
		return nil, ErrClosed
	}
	names := make([]string, 0, len(s.reader.File))
	for _, f := range s.reader.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// Read returns the decompressed content of the named entry.
func (s *ZipSource) Read(name string) ([]byte, error) {
	f, err := s.find(name)
	if err != nil {
		return nil, err
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open entry %s: %w", name, err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry %s: %w", name, err)
	}
	return content, nil
}

// Size returns the uncompressed size recorded for the named entry.
func (s *ZipSource) Size(name string) (int64, error) {
	f, err := s.find(name)
	if err != nil {
		return 0, err
	}
	return int64(f.UncompressedSize64), nil
}

func (s *ZipSource) find(name string) (*zip.File, error) {
	if s.reader == nil {
		return nil, ErrClosed
	}
	for _, f := range s.reader.File {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrEntryNotFound, name, s.path)
}

// Close releases the underlying archive handle.
func (s *ZipSource) Close() error {
	if s.reader == nil {
		return ErrClosed
	}
	err := s.reader.Close()
	s.reader = nil
	return err
}

// DirSource reads entries from a directory tree, recursing into
// subdirectories.
type DirSource struct {
	root   string
	closed bool
}

// NewDirSource returns a Source over the directory tree rooted at root.
func NewDirSource(root string) *DirSource {
	return &DirSource{root: root}
}

// Entries walks the tree and returns every file and directory below the
// root. The root itself is not reported.
func (s *DirSource) Entries() ([]string, error) {
	if s.closed {
		return nil, ErrClosed
	}
	var names []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)
		if d.IsDir() {
			name += "/"
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", s.root, err)
	}
	return names, nil
}

// Read returns the content of the named entry. Directory entries (trailing
// slash) read as empty.
func (s *DirSource) Read(name string) ([]byte, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if strings.HasSuffix(name, "/") {
		return []byte{}, nil
	}
	content, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s in %s", ErrEntryNotFound, name, s.root)
		}
		return nil, fmt.Errorf("failed to read entry %s: %w", name, err)
	}
	return content, nil
}

// Size returns the on-disk size of the named entry.
func (s *DirSource) Size(name string) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	info, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s in %s", ErrEntryNotFound, name, s.root)
		}
		return 0, fmt.Errorf("failed to stat entry %s: %w", name, err)
	}
	return info.Size(), nil
}

// Close marks the source closed. No file handles are held between calls.
func (s *DirSource) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return nil
}
