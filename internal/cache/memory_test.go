package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetAndGet(t *testing.T) {
	c := NewMemory()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), time.Minute))

	val, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, []byte("value1"), val)
}

func TestMemory_GetMissing(t *testing.T) {
	c := NewMemory()
	defer c.Close()

	_, err := c.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "expiring", []byte("value"), 10*time.Millisecond))

	_, err := c.Get(ctx, "expiring")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = c.Get(ctx, "expiring")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	c := NewMemory()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "pinned", []byte("value"), 0))

	time.Sleep(5 * time.Millisecond)

	val, err := c.Get(ctx, "pinned")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), val)
}

func TestMemory_DeleteIsIdempotent(t *testing.T) {
	c := NewMemory()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Minute))
	require.NoError(t, c.Delete(ctx, "key"))
	require.NoError(t, c.Delete(ctx, "key"))

	_, err := c.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	c := NewMemory()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", []byte("abc"), time.Minute))

	val, err := c.Get(ctx, "key")
	require.NoError(t, err)
	val[0] = 'x'

	again, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again, "mutating a returned value must not corrupt the entry")
}
