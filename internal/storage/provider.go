// Package storage defines the library file-system abstraction.
package storage

// Provider is the interface for library file operations. Paths may be
// absolute (inside the root) or relative to the root. Every error is an
// *apperr.PathError carrying the offending path.
type Provider interface {
	// ListDirs returns the absolute paths of the immediate subdirectories of
	// dir, in the order the file system reports them.
	ListDirs(dir string) ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path. The parent must exist.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
}
