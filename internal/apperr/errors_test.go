package apperr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapNotExist(t *testing.T) {
	err := Wrap("storage: read", "/lib/meta.json", fs.ErrNotExist)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist, "OS error must survive wrapping")
	assert.Equal(t, "/lib/meta.json", PathOf(fmt.Errorf("outer: %w", err)))
}

func TestWrapPermission(t *testing.T) {
	err := Wrap("storage: list", "/lib", fs.ErrPermission)
	assert.Equal(t, ErrPermission, KindOf(err))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap("op", "p", nil))
}

func TestWrapUnclassified(t *testing.T) {
	err := Wrap("op", "p", errors.New("boom"))
	assert.Nil(t, KindOf(err))
	assert.EqualError(t, err, "op p: boom")
}

func TestDecodeWinsOverNotFound(t *testing.T) {
	inner := Wrap("storage: read", "/nb/meta.json", fs.ErrNotExist)
	err := Decode("library: decode", "/nb/meta.json", inner)
	assert.Equal(t, ErrDecode, KindOf(err))
	assert.ErrorIs(t, err, ErrNotFound, "underlying not-found should still be reachable")
}

func TestPathOf_NoPathError(t *testing.T) {
	assert.Empty(t, PathOf(ErrNotFound))
}
