package database

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestLRUCacheEvictsOldest(t *testing.T) {
	c := newLRUCache(2, time.Minute)
	c.put("a", 1)
	c.put("b", 2)
	if _, ok := c.get("a"); !ok {
		t.Fatalf("get(a) missing before eviction")
	}
	c.put("c", 3)

	if _, ok := c.get("b"); ok {
		t.Errorf("get(b) found, want evicted as least recently used")
	}
	if v, ok := c.get("a"); !ok || v != 1 {
		t.Errorf("get(a) = %v, %v, want 1, true", v, ok)
	}
	if c.len() != 2 {
		t.Errorf("len() = %v, want %v", c.len(), 2)
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := newLRUCache(10, 5*time.Minute)
	c.now = func() time.Time { return now }

	c.put("k", "v")
	now = now.Add(4 * time.Minute)
	if _, ok := c.get("k"); !ok {
		t.Fatalf("get(k) missing before ttl elapsed")
	}
	now = now.Add(2 * time.Minute)
	if _, ok := c.get("k"); ok {
		t.Errorf("get(k) found after ttl elapsed")
	}
	if c.len() != 0 {
		t.Errorf("len() = %v, want %v", c.len(), 0)
	}
}

func TestLRUCacheRemoveAndClear(t *testing.T) {
	c := newLRUCache(10, time.Minute)
	c.put("a", 1)
	c.put("b", 2)
	c.remove("a")
	if _, ok := c.get("a"); ok {
		t.Errorf("get(a) found after remove")
	}
	c.clear()
	if c.len() != 0 {
		t.Errorf("len() after clear = %v, want %v", c.len(), 0)
	}
}

func TestCacheKeyIsOrderIndependent(t *testing.T) {
	a := cacheKey("linked_accounts", bson.M{"uuid": "x", "discordId": "1"})
	b := cacheKey("linked_accounts", bson.M{"discordId": "1", "uuid": "x"})
	if a != b {
		t.Errorf("cacheKey differs by field order: %q vs %q", a, b)
	}
	want := "linked_accounts:{discordId=1,uuid=x}"
	if a != want {
		t.Errorf("cacheKey = %v, want %v", a, want)
	}
	if cacheKey("bans", bson.M{"uuid": "x"}) == cacheKey("kicks", bson.M{"uuid": "x"}) {
		t.Errorf("cacheKey ignores collection name")
	}
}
