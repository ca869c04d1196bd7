package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
)

// Target writes named entries into an archive or directory tree.
type Target interface {
	// Write stores content under the entry name. Names ending with "/"
	// create directory entries and must have empty content.
	Write(name string, content []byte) error

	Close() error
}

// ZipTarget writes entries into a new ZIP archive. Entries are stored
// uncompressed unless the target was created with compression enabled.
type ZipTarget struct {
	path   string
	file   *os.File
	writer *zip.Writer
	method uint16
}

// CreateZipTarget creates (or truncates) a ZIP archive at path. With
// compressed set, file entries are deflated; directory entries are always
// stored.
func CreateZipTarget(path string, compressed bool) (*ZipTarget, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create zip archive %s: %w", path, err)
	}
	zw := zip.NewWriter(f)
	method := uint16(zip.Store)
	if compressed {
		method = zip.Deflate
		zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, flate.BestCompression)
		})
	}
	return &ZipTarget{path: path, file: f, writer: zw, method: method}, nil
}

// Path returns the archive file's path.
func (t *ZipTarget) Path() string {
	return t.path
}

// Write appends an entry to the archive.
func (t *ZipTarget) Write(name string, content []byte) error {
	if t.writer == nil {
		return ErrClosed
	}
	header := &zip.FileHeader{Name: name, Method: t.method}
	if strings.HasSuffix(name, "/") {
		header.Method = zip.Store
	}
	w, err := t.writer.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create entry %s: %w", name, err)
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("failed to write entry %s: %w", name, err)
	}
	return nil
}

// Close finalizes the archive's central directory and closes the file.
func (t *ZipTarget) Close() error {
	if t.writer == nil {
		return ErrClosed
	}
	werr := t.writer.Close()
	cerr := t.file.Close()
	t.writer = nil
	t.file = nil
	if werr != nil {
		return fmt.Errorf("failed to finalize zip archive %s: %w", t.path, werr)
	}
	return cerr
}

// DirTarget writes entries as files under a root directory, creating parent
// directories on demand.
type DirTarget struct {
	root   string
	closed bool
}

// CreateDirTarget ensures root exists and returns a Target writing into it.
func CreateDirTarget(root string) (*DirTarget, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create target directory %s: %w", root, err)
	}
	return &DirTarget{root: root}, nil
}

// Write stores content at the entry's path below the root.
func (t *DirTarget) Write(name string, content []byte) error {
	if t.closed {
		return ErrClosed
	}
	path := filepath.Join(t.root, filepath.FromSlash(name))
	if strings.HasSuffix(name, "/") {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("failed to create directory entry %s: %w", name, err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("directory cannot be created to write file %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write entry %s: %w", name, err)
	}
	return nil
}

// Close marks the target closed.
func (t *DirTarget) Close() error {
	if t.closed {
		return ErrClosed
	}
	t.closed = true
	return nil
}
