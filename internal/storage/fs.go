package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/qvlib/internal/apperr"
)

// ErrOutsideRoot is the cause of a PathError for paths that leave the library root.
var ErrOutsideRoot = errors.New("path escapes library root")

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the library directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, apperr.Wrap("storage: stat root", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute library root.
func (f *FS) Root() string {
	return f.root
}

// safePath resolves path against the library root and rejects any result
// that escapes it.
func (f *FS) safePath(path string) (string, error) {
	if path == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(path)
	if !filepath.IsAbs(cleaned) {
		cleaned = filepath.Join(f.root, cleaned)
	}
	if !strings.HasPrefix(cleaned, f.root+string(os.PathSeparator)) && cleaned != f.root {
		return "", &apperr.PathError{Op: "storage: resolve", Path: path, Err: ErrOutsideRoot}
	}
	return cleaned, nil
}

// ListDirs returns absolute paths of the immediate subdirectories of dir.
func (f *FS) ListDirs(dir string) ([]string, error) {
	abs, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, apperr.Wrap("storage: list", abs, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		out = append(out, filepath.Join(abs, e.Name()))
	}
	return out, nil
}

// Read returns the raw bytes of a library file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, apperr.Wrap("storage: read", abs, err)
	}
	return data, nil
}

// Write atomically writes content: tmp file → fsync → rename.
func (f *FS) Write(path string, content []byte) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	tmp, err := os.CreateTemp(dir, ".qvlib-tmp-*")
	if err != nil {
		return apperr.Wrap("storage: write", abs, err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return apperr.Wrap("storage: write temp", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		return apperr.Wrap("storage: fsync", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return apperr.Wrap("storage: close temp", tmpName, err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return apperr.Wrap("storage: rename", abs, err)
	}
	success = true
	return nil
}

// Delete removes a file from the library.
func (f *FS) Delete(path string) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return apperr.Wrap("storage: delete", abs, err)
	}
	return nil
}
