// SPDX-License-Identifier: MIT

package cache

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivecat/drivecat/internal/metainfo"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(RedisConfig{Addr: mr.Addr()}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _ := newRedisStore(t)

	doc := metainfo.NewDocument(42)
	doc.Folders["Severance"] = metainfo.Record{
		ExternalID:  95396,
		Title:       "Severance",
		MediaType:   "tv",
		LastUpdated: 41,
	}
	store.Set("/media", doc)

	got, ok := store.Get("/media")
	require.True(t, ok)
	assert.Equal(t, int64(42), got.LastRefresh)
	assert.Equal(t, int64(95396), got.Folders["Severance"].ExternalID)
}

func TestRedisStore_MissAndInvalidate(t *testing.T) {
	store, _ := newRedisStore(t)

	_, ok := store.Get("/missing")
	assert.False(t, ok)

	store.Set("/media", metainfo.NewDocument(1))
	store.Invalidate("/media")

	_, ok = store.Get("/media")
	assert.False(t, ok)
}

func TestRedisStore_EntriesHaveNoExpiry(t *testing.T) {
	store, mr := newRedisStore(t)

	store.Set("/media", metainfo.NewDocument(1))

	ttl := mr.TTL(redisKeyPrefix + "/media")
	assert.Zero(t, ttl, "cached documents must not expire")
}

func TestRedisStore_CorruptEntryIsAMiss(t *testing.T) {
	store, mr := newRedisStore(t)

	require.NoError(t, mr.Set(redisKeyPrefix+"/media", "{broken"))

	_, ok := store.Get("/media")
	assert.False(t, ok)
}

func TestRedisStore_ConnectionFailure(t *testing.T) {
	_, err := NewRedisStore(RedisConfig{Addr: "127.0.0.1:1"}, zerolog.Nop())
	assert.Error(t, err)
}
