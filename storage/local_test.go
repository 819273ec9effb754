package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLocal(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestLocalSaveAndOpen(t *testing.T) {
	s := newLocal(t)

	require.NoError(t, s.Save("key1", strings.NewReader("hello")))

	rc, err := s.Open("key1")
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestLocalSaveIsCreateExclusive(t *testing.T) {
	s := newLocal(t)

	require.NoError(t, s.Save("dup", strings.NewReader("first")))

	err := s.Save("dup", strings.NewReader("second"))
	assert.ErrorIs(t, err, ErrKeyExists)

	// The original content survives the collision.
	rc, err := s.Open("dup")
	require.NoError(t, err)
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	assert.Equal(t, "first", string(got))
}

func TestLocalOpenMissing(t *testing.T) {
	s := newLocal(t)

	_, err := s.Open("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalDelete(t *testing.T) {
	s := newLocal(t)

	require.NoError(t, s.Save("gone", strings.NewReader("x")))
	require.NoError(t, s.Delete("gone"))

	_, err := s.Open("gone")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete("gone"), ErrNotFound)
}

func TestLocalPathTraversalGuard(t *testing.T) {
	s := newLocal(t)

	require.NoError(t, s.Save("../escape", strings.NewReader("contained")))

	// The object is stored under the managed directory, not beside it.
	rc, err := s.Open("escape")
	require.NoError(t, err)
	rc.Close()
}
