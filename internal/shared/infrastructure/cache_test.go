package infrastructure

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(now *time.Time) *InMemoryCache {
	c := NewInMemoryCache()
	c.now = func() time.Time { return *now }
	return c
}

func TestInMemoryCache_SetGetDelete(t *testing.T) {
	now := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newTestCache(&now)
	defer c.Close()

	c.Set("a", 1, time.Minute)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, c.Len())

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)

	c.Set("b", 2, time.Minute)
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestInMemoryCache_Expiration(t *testing.T) {
	now := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newTestCache(&now)
	defer c.Close()

	c.Set("view", "rows", 5*time.Minute)

	now = now.Add(4 * time.Minute)
	_, ok := c.Get("view")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("view")
	assert.False(t, ok, "entrée expirée")
	assert.Equal(t, 1, c.Len(), "purgée seulement par le nettoyage")

	c.purge()
	assert.Equal(t, 0, c.Len())
}

func TestShardedCache(t *testing.T) {
	sc := NewShardedCache(8)
	defer sc.Close()

	for i := 0; i < 100; i++ {
		sc.Set(fmt.Sprintf("key_%d", i), i, time.Minute)
	}
	assert.Equal(t, 100, sc.Len())

	v, ok := sc.Get("key_42")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	sc.Delete("key_42")
	_, ok = sc.Get("key_42")
	assert.False(t, ok)

	sc.Clear()
	assert.Equal(t, 0, sc.Len())
}

func TestNewShardedCache_RejectsNonPowerOfTwo(t *testing.T) {
	assert.Panics(t, func() { NewShardedCache(6) })
	assert.Panics(t, func() { NewShardedCache(0) })
}

func TestShardedCache_Concurrent(t *testing.T) {
	sc := NewShardedCache(16)
	defer sc.Close()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("g%d_%d", g, i)
				sc.Set(key, i, time.Minute)
				_, _ = sc.Get(key)
			}
		}(g)
	}
	wg.Wait()
	assert.Equal(t, 8*200, sc.Len())
}

func TestCacheKeyBuilder(t *testing.T) {
	key := NewCacheKeyBuilder().
		Add("view").
		Add("3f1c").
		AddUint(255).
		Add("deaths_by_country").
		Build()
	assert.Equal(t, "view:3f1c:ff:deaths_by_country", key)
}

// ========================================
// Benchmarks: InMemoryCache vs ShardedCache
// ========================================

// BenchmarkInMemoryCache_Get_HighContention Get concurrent sur un seul verrou
func BenchmarkInMemoryCache_Get_HighContention(b *testing.B) {
	cache := NewInMemoryCache()
	defer cache.Close()
	cache.Set("key1", "value1", 5*time.Minute)

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = cache.Get("key1")
		}
	})
}

// BenchmarkShardedCache_Mixed_80Read_20Write charge mixte sur 16 shards
func BenchmarkShardedCache_Mixed_80Read_20Write(b *testing.B) {
	cache := NewShardedCache(16)
	defer cache.Close()
	for i := 0; i < 100; i++ {
		cache.Set(fmt.Sprintf("key_%d", i), i, 5*time.Minute)
	}

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			key := fmt.Sprintf("key_%d", i%100)
			if i%5 == 0 {
				cache.Set(key, i, 5*time.Minute)
			} else {
				_, _ = cache.Get(key)
			}
			i++
		}
	})
}

// BenchmarkCacheKeyBuilder_vs_Sprintf compare le builder à fmt.Sprintf
func BenchmarkCacheKeyBuilder_vs_Sprintf(b *testing.B) {
	b.Run("Builder", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = NewCacheKeyBuilder().Add("view").Add("snapshot").AddUint(uint64(i)).Add("global_numbers").Build()
		}
	})

	b.Run("Sprintf", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = fmt.Sprintf("view:%s:%x:%s", "snapshot", uint64(i), "global_numbers")
		}
	})
}
