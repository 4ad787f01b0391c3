package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "butter")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "butter", `{"original":"butter"}`))
	val, ok, err := c.Get(ctx, "butter")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"original":"butter"}`, val)

	now = now.Add(time.Minute)
	_, ok, err = c.Get(ctx, "butter")
	require.NoError(t, err)
	assert.False(t, ok)
}
