package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCacheStoreBasicOps(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCacheStore()

	_, ok, err := c.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, c.Set(ctx, "patterns:abc", `[]`, time.Minute))
	val, ok, err := c.Get(ctx, "patterns:abc")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, val)

	assert.NoError(t, c.Delete(ctx, "patterns:abc"))
	_, ok, _ = c.Get(ctx, "patterns:abc")
	assert.False(t, ok)
}

func TestMemoryCacheStoreExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCacheStore()

	assert.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)
	_, ok, _ := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCacheStoreDeletePrefix(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCacheStore()

	c.Set(ctx, "slots:anita:ALL:a", "1", 0)
	c.Set(ctx, "slots:anita:PERSONAL:b", "2", 0)
	c.Set(ctx, "slots:ravi:ALL:c", "3", 0)
	c.Set(ctx, "patterns:anita", "4", 0)

	assert.NoError(t, c.DeletePrefix(ctx, "slots:anita:"))

	_, ok, _ := c.Get(ctx, "slots:anita:ALL:a")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "slots:anita:PERSONAL:b")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "slots:ravi:ALL:c")
	assert.True(t, ok)
	_, ok, _ = c.Get(ctx, "patterns:anita")
	assert.True(t, ok)
}

func TestMemoryCacheStoreLock(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCacheStore()

	token, acquired, err := c.AcquireLock(ctx, "lock:patterns:abc", time.Minute)
	assert.NoError(t, err)
	assert.True(t, acquired)
	assert.NotEmpty(t, token)

	// Second acquire is rejected while held.
	_, acquired, err = c.AcquireLock(ctx, "lock:patterns:abc", time.Minute)
	assert.NoError(t, err)
	assert.False(t, acquired)

	age, held, err := c.LockAge(ctx, "lock:patterns:abc")
	assert.NoError(t, err)
	assert.True(t, held)
	assert.GreaterOrEqual(t, age, time.Duration(0))

	// Release with the wrong token is a no-op.
	assert.NoError(t, c.ReleaseLock(ctx, "lock:patterns:abc", "bogus"))
	_, held, _ = c.LockAge(ctx, "lock:patterns:abc")
	assert.True(t, held)

	// Release with the right token frees it.
	assert.NoError(t, c.ReleaseLock(ctx, "lock:patterns:abc", token))
	_, acquired, _ = c.AcquireLock(ctx, "lock:patterns:abc", time.Minute)
	assert.True(t, acquired)
}

func TestMemoryCacheStoreLockExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCacheStore()

	_, acquired, _ := c.AcquireLock(ctx, "lock:x", 10*time.Millisecond)
	assert.True(t, acquired)
	time.Sleep(20 * time.Millisecond)

	_, acquired, _ = c.AcquireLock(ctx, "lock:x", time.Minute)
	assert.True(t, acquired)
}

func TestNoopCacheStore(t *testing.T) {
	ctx := context.Background()
	c := NoopCacheStore{}

	assert.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	_, ok, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, acquired, err := c.AcquireLock(ctx, "lock:k", time.Minute)
	assert.NoError(t, err)
	assert.True(t, acquired)
}
