package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*IdempotencyCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return NewIdempotencyCache(client), mr
}

func TestIdempotencyCache_Miss(t *testing.T) {
	cache, _ := newTestCache(t)

	val, err := cache.Get(context.Background(), "REF-404")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestIdempotencyCache_SetGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	payload := []byte(`{"reference_id":"REF-1","amount":"10.0000"}`)
	require.NoError(t, cache.Set(ctx, "REF-1", payload, time.Minute))

	val, err := cache.Get(ctx, "REF-1")
	require.NoError(t, err)
	assert.Equal(t, payload, val)
}

func TestIdempotencyCache_TTLExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "REF-2", []byte("x"), time.Second))
	mr.FastForward(2 * time.Second)

	val, err := cache.Get(ctx, "REF-2")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestIdempotencyCache_KeysAreNamespaced(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "REF-3", []byte("x"), time.Minute))
	assert.True(t, mr.Exists("ledger:ref:REF-3"))
}
