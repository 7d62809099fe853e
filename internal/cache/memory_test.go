package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Minute))

	value, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)
}

func TestMemoryCache_MissingKey(t *testing.T) {
	c := NewMemoryCache()

	value, err := c.Get(context.Background(), "absent")
	require.NoError(t, err, "a missing key is not an error")
	assert.Nil(t, value)
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", []byte("value"), 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	value, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.Nil(t, value, "expired entries read as missing")
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", []byte("value"), 0))

	value, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Minute))
	require.NoError(t, c.Delete(ctx, "key"))

	value, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestMemoryCache_Exists(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	exists, err := c.Exists(ctx, "key")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Minute))

	exists, err = c.Exists(ctx, "key")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryCache_CloseClears(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Minute))
	require.NoError(t, c.Close())

	value, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.Nil(t, value)
}
