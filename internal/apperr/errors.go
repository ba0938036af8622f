// Package apperr defines the error kinds surfaced by the library layers.
package apperr

import (
	"errors"
	"io/fs"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrPermission = errors.New("permission denied")
	ErrDecode     = errors.New("decode error")
)

// PathError records a failed operation on a path together with its kind.
// It unwraps to both Kind and the underlying error, so callers may test
// either errors.Is(err, ErrNotFound) or errors.Is(err, fs.ErrNotExist).
type PathError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *PathError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() []error {
	if e.Kind == nil {
		return []error{e.Err}
	}
	return []error{e.Kind, e.Err}
}

// Wrap classifies an I/O error and attaches op and path.
// A nil err returns nil.
func Wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var kind error
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = ErrPermission
	}
	return &PathError{Op: op, Path: path, Kind: kind, Err: err}
}

// Decode marks err as a decode failure of the file at path.
func Decode(op, path string, err error) error {
	return &PathError{Op: op, Path: path, Kind: ErrDecode, Err: err}
}

// KindOf reports the dominant kind of err, or nil when it has none.
// Decode errors win over not-found: a missing metadata file inside an
// existing directory is reported as a decode failure.
func KindOf(err error) error {
	for _, kind := range []error{ErrDecode, ErrNotFound, ErrPermission} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// PathOf returns the path of the first PathError in err's chain.
func PathOf(err error) string {
	var pe *PathError
	if errors.As(err, &pe) {
		return pe.Path
	}
	return ""
}
