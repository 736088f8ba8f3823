package cache

import (
	"context"
	"testing"
	"time"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	if Enabled() {
		t.Skip("redis configured in this process")
	}
	var dest map[string]string
	hit, err := GetJSON(ctx, "missing", &dest)
	if err != nil || hit {
		t.Fatalf("disabled cache should miss silently, hit=%v err=%v", hit, err)
	}
	if err := SetDraft(ctx, "d1", map[string]string{"a": "b"}, time.Minute); err != nil {
		t.Fatalf("disabled set should be noop: %v", err)
	}
	if err := BumpListingVersion(ctx, ListingScopeCateringOrders); err != nil {
		t.Fatalf("disabled bump should be noop: %v", err)
	}
	if hit, err := GetListing(ctx, ListingScopeCateringOrders, map[string]int{"page": 1}, &dest); err != nil || hit {
		t.Fatalf("disabled listing should miss, hit=%v err=%v", hit, err)
	}
}

func TestListingKeyDependsOnVersionAndParams(t *testing.T) {
	params := map[string]interface{}{"status": "pending", "page": 1}
	a, err := ListingKey(ListingScopeCateringOrders, 1, params)
	if err != nil {
		t.Fatalf("listing key failed: %v", err)
	}
	b, _ := ListingKey(ListingScopeCateringOrders, 2, params)
	c, _ := ListingKey(ListingScopeCateringOrders, 1, map[string]interface{}{"status": "confirmed", "page": 1})
	again, _ := ListingKey(ListingScopeCateringOrders, 1, params)
	if a == b || a == c {
		t.Fatalf("listing keys should differ by version and params: %s %s %s", a, b, c)
	}
	if a != again {
		t.Fatalf("listing key should be stable")
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	if got := BuildKey("draft:abc"); got != redisPrefix+":draft:abc" {
		t.Fatalf("unexpected key %s", got)
	}
	if got := BuildKey("  "); got != redisPrefix {
		t.Fatalf("blank key should collapse to prefix, got %s", got)
	}
}
