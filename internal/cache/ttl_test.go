package cache

import (
	"testing"
	"time"
)

func newTestCache(size int, ttl time.Duration) (*TTL[string], *time.Time) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	c := NewTTL[string](size, ttl)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestTTL_GetSet(t *testing.T) {
	c, _ := newTestCache(4, time.Minute)

	if _, ok := c.Get("roads"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Set("roads", "Roads")
	got, ok := c.Get("roads")
	if !ok || got != "Roads" {
		t.Errorf("Get() = %q, %v; want Roads, true", got, ok)
	}

	c.Set("roads", "Roads & Bridges")
	if got, _ := c.Get("roads"); got != "Roads & Bridges" {
		t.Errorf("overwrite: got %q", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestTTL_Expiry(t *testing.T) {
	c, now := newTestCache(4, time.Minute)
	c.Set("k", "v")

	*now = now.Add(59 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired early")
	}

	*now = now.Add(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry should expire after ttl")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not removed, Len() = %d", c.Len())
	}
}

func TestTTL_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should still be cached", k)
		}
	}
}

func TestTTL_Delete(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", "1")
	c.Delete("a")
	c.Delete("missing")
	if _, ok := c.Get("a"); ok {
		t.Error("deleted key still present")
	}
}
