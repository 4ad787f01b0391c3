package storage

import (
	"context"
	"testing"

	"github.com/leon37/Hamhama/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Get(ctx, "7.jpg")
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, store.Put(ctx, "7.jpg", []byte{0xFF, 0xD8, 0xFF}, "image/jpeg"))
	data, err := store.Get(ctx, "7.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, data)

	require.NoError(t, store.Delete(ctx, "7.jpg"))
	require.NoError(t, store.Delete(ctx, "7.jpg"))

	assert.ErrorIs(t, store.Put(ctx, "../escape.jpg", nil, ""), model.ErrInvalidArgument)
}
