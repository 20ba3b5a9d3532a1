package cache

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_GetSetDelete(t *testing.T) {
	cache := NewMemoryCache(MemoryConfig{})
	ctx := context.Background()

	val, ok := cache.Get(ctx, "out/missing.json")
	if ok || val != nil {
		t.Error("Get on empty cache should return (nil, false)")
	}

	key := "out/data.json"
	value := []byte(`{"a": 1}`)
	if err := cache.Set(ctx, key, value, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := cache.Get(ctx, key)
	if !ok {
		t.Fatal("Get after Set should return ok=true")
	}
	if !bytes.Equal(got, value) {
		t.Errorf("Get returned %q, want %q", got, value)
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := cache.Get(ctx, key); ok {
		t.Error("Get after Delete should miss")
	}

	// Delete is idempotent
	if err := cache.Delete(ctx, "out/missing.json"); err != nil {
		t.Errorf("Delete on missing key should not error, got: %v", err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := NewMemoryCache(MemoryConfig{})
	now := time.Unix(1000, 0)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	if err := cache.Set(ctx, "a.json", []byte("x"), time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok := cache.Get(ctx, "a.json"); !ok {
		t.Fatal("entry should be present before expiry")
	}

	now = now.Add(2 * time.Second)
	if _, ok := cache.Get(ctx, "a.json"); ok {
		t.Error("entry should be gone after expiry")
	}
	if cache.Len() != 0 {
		t.Errorf("expired entry should be collected, Len() = %d", cache.Len())
	}
}

func TestMemoryCache_ZeroTTLDropsEntry(t *testing.T) {
	cache := NewMemoryCache(MemoryConfig{})
	ctx := context.Background()

	_ = cache.Set(ctx, "a.json", []byte("x"), time.Minute)
	if err := cache.Set(ctx, "a.json", []byte("y"), 0); err != nil {
		t.Fatalf("Set with zero TTL failed: %v", err)
	}
	if _, ok := cache.Get(ctx, "a.json"); ok {
		t.Error("zero TTL should not cache and should drop the old entry")
	}
}

func TestMemoryCache_CopiesValues(t *testing.T) {
	cache := NewMemoryCache(MemoryConfig{})
	ctx := context.Background()

	value := []byte("original")
	_ = cache.Set(ctx, "a.json", value, time.Minute)
	value[0] = 'X'

	got, _ := cache.Get(ctx, "a.json")
	if string(got) != "original" {
		t.Errorf("cache should hold its own copy, got %q", got)
	}

	got[0] = 'Y'
	again, _ := cache.Get(ctx, "a.json")
	if string(again) != "original" {
		t.Errorf("Get should return a copy, got %q", again)
	}
}

func TestMemoryCache_MaxEntriesEvictsSoonestExpiry(t *testing.T) {
	cache := NewMemoryCache(MemoryConfig{MaxEntries: 2})
	ctx := context.Background()

	_ = cache.Set(ctx, "short.json", []byte("1"), time.Second)
	_ = cache.Set(ctx, "long.json", []byte("2"), time.Hour)
	_ = cache.Set(ctx, "new.json", []byte("3"), time.Hour)

	if cache.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", cache.Len())
	}
	if _, ok := cache.Get(ctx, "short.json"); ok {
		t.Error("entry expiring soonest should be evicted")
	}
	if _, ok := cache.Get(ctx, "long.json"); !ok {
		t.Error("long-lived entry should remain")
	}
}

func TestMemoryCache_InvalidKeys(t *testing.T) {
	cache := NewMemoryCache(MemoryConfig{})
	ctx := context.Background()

	tests := []struct {
		name string
		key  string
		want error
	}{
		{"empty", "", ErrInvalidKey},
		{"blank", "   ", ErrInvalidKey},
		{"newline", "a\nb", ErrInvalidKey},
		{"nul", "a\x00b", ErrInvalidKey},
		{"too long", string(bytes.Repeat([]byte("a"), MaxKeyLength+1)), ErrKeyTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cache.Set(ctx, tt.key, []byte("x"), time.Minute); err != tt.want {
				t.Errorf("Set() error = %v, want %v", err, tt.want)
			}
			if _, ok := cache.Get(ctx, tt.key); ok {
				t.Error("Get with invalid key should miss")
			}
		})
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := NewMemoryCache(MemoryConfig{MaxEntries: 8})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := []string{"a.json", "b.json", "c.json"}[i%3]
			_ = cache.Set(ctx, key, []byte("v"), time.Minute)
			_, _ = cache.Get(ctx, key)
			if i%5 == 0 {
				_ = cache.Delete(ctx, key)
			}
		}(i)
	}
	wg.Wait()
}
