package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocal(root, "media")
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := s.Put(ctx, "uploads/1700000000_bottle.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/media/uploads/1700000000_bottle.jpg", ref)

	data, err := os.ReadFile(filepath.Join(root, "uploads", "1700000000_bottle.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	url, err := s.URL(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, ref, url)

	require.NoError(t, s.Delete(ctx, ref))
	_, err = os.Stat(filepath.Join(root, "uploads", "1700000000_bottle.jpg"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, ref), "deleting twice is not an error")
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocal(t.TempDir(), "media")
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "../escape.jpg", []byte("x"), "image/jpeg")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = s.Put(context.Background(), "", []byte("x"), "image/jpeg")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
