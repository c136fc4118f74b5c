package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filedrop/internal/domain"
)

// countingSource serves fixed paths and counts lookups
type countingSource struct {
	paths   map[string]string
	version uint64
	calls   int
}

func (s *countingSource) GetFolderPath(id string) (string, error) {
	s.calls++
	path, ok := s.paths[id]
	if !ok {
		return "", domain.NewNotFound("folder", id)
	}
	return path, nil
}

func (s *countingSource) Version() uint64 { return s.version }

func TestPathResolver_CachesUntilVersionChanges(t *testing.T) {
	src := &countingSource{paths: map[string]string{"b": "A / B"}, version: 1}
	r, err := NewPathResolver(src, 8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		path, err := r.Resolve("b")
		require.NoError(t, err)
		assert.Equal(t, "A / B", path)
	}
	assert.Equal(t, 1, src.calls)

	src.paths["b"] = "X / B"
	src.version = 2

	path, err := r.Resolve("b")
	require.NoError(t, err)
	assert.Equal(t, "X / B", path)
	assert.Equal(t, 2, src.calls)
}

func TestPathResolver_NotFoundIsNotCached(t *testing.T) {
	src := &countingSource{paths: map[string]string{}, version: 1}
	r, err := NewPathResolver(src, 8)
	require.NoError(t, err)

	_, err = r.Resolve("x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.Resolve("x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 2, src.calls)
	assert.Zero(t, r.Len())
}

func TestPathResolver_InvalidSize(t *testing.T) {
	_, err := NewPathResolver(&countingSource{}, 0)
	assert.Error(t, err)
}
