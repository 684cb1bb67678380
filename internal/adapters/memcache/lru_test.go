package memcache_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vtolops/skyplan/internal/adapters/memcache"
)

func TestCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := memcache.New(8, time.Minute)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, memcache.ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}

	if err := c.Set(ctx, "k", []byte("v"), 60); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("got %q, want v", got)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, memcache.ErrMiss) {
		t.Errorf("expected ErrMiss after delete, got %v", err)
	}
}

func TestCache_EvictsOldestBeyondCapacity(t *testing.T) {
	ctx := context.Background()
	c := memcache.New(4, time.Minute)

	for i := 0; i < 8; i++ {
		key := fmt.Sprintf("k%d", i)
		if err := c.Set(ctx, key, []byte(key), 60); err != nil {
			t.Fatalf("Set %s: %v", key, err)
		}
	}

	if _, err := c.Get(ctx, "k0"); !errors.Is(err, memcache.ErrMiss) {
		t.Errorf("k0 should have been evicted, got %v", err)
	}
	if _, err := c.Get(ctx, "k7"); err != nil {
		t.Errorf("k7 should be present, got %v", err)
	}
}

func TestCache_Expires(t *testing.T) {
	ctx := context.Background()
	c := memcache.New(8, 20*time.Millisecond)

	if err := c.Set(ctx, "k", []byte("v"), 60); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, memcache.ErrMiss) {
		t.Errorf("expected ErrMiss after TTL, got %v", err)
	}
}
