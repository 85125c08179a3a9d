package cache

import (
	"sync"
	"testing"
)

func TestGetMissThenHit(t *testing.T) {
	c := NewSharded[string, int](8, StringHasher)

	if _, ok := c.Get("a"); ok {
		t.Fatal("Get() on empty cache returned ok")
	}
	c.Set("a", 42)
	v, ok := c.Get("a")
	if !ok || v != 42 {
		t.Errorf("Get(a) = (%d, %v), want (42, true)", v, ok)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats() = %+v, want 1 hit, 1 miss", stats)
	}
}

func TestGetOrCreateComputesOnce(t *testing.T) {
	c := NewSharded[uint64, int](8, Uint64Hasher)

	calls := 0
	create := func() int {
		calls++
		return 7
	}
	for i := 0; i < 5; i++ {
		if v := c.GetOrCreate(3, create); v != 7 {
			t.Fatalf("GetOrCreate() = %d, want 7", v)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
}

func TestSetOverwrite(t *testing.T) {
	c := NewSharded[string, int](8, StringHasher)
	c.Set("k", 1)
	c.Set("k", 2)
	if v, _ := c.Get("k"); v != 2 {
		t.Errorf("Get(k) = %d, want 2", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestEviction(t *testing.T) {
	// Identity hasher with keys in one shard: multiples of DefaultShardCount.
	c := NewSharded[uint64, int](2, Uint64Hasher)
	for i := uint64(0); i < 4; i++ {
		c.Set(i*DefaultShardCount, int(i))
	}
	if got := c.Stats().Evictions; got == 0 {
		t.Error("Stats().Evictions = 0, want > 0")
	}
}

func TestClear(t *testing.T) {
	c := NewSharded[string, int](8, StringHasher)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := NewSharded[uint64, uint64](64, Uint64Hasher)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			for i := uint64(0); i < 1000; i++ {
				k := (seed*1000 + i) % 128
				v := c.GetOrCreate(k, func() uint64 { return k * 2 })
				if v != k*2 {
					t.Errorf("GetOrCreate(%d) = %d, want %d", k, v, k*2)
					return
				}
			}
		}(uint64(g))
	}
	wg.Wait()
}
