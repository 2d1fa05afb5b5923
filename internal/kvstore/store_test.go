package kvstore

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Set(ctx, "theme", "ocean", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, err := store.Get(ctx, "theme")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if val != "ocean" {
		t.Fatalf("expected ocean, got %q", val)
	}

	// Empty value is distinguishable from a missing key.
	if err := store.Set(ctx, "empty", "", 0); err != nil {
		t.Fatalf("set empty: %v", err)
	}
	if _, err := store.Get(ctx, "empty"); err != nil {
		t.Fatalf("expected empty value to exist, got %v", err)
	}

	if err := store.Del(ctx, "theme"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := store.Get(ctx, "theme"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if err := store.Set(ctx, "otp", "123456", 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := store.Get(ctx, "otp"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired key, got %v", err)
	}
}

func TestRedisStoreSurvivesNewClient(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	first := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(first, "prefs")
	if err := store.Set(ctx, "balance", "12500.50", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	first.Close()

	// A fresh client over the same backend sees the persisted value, the
	// moral equivalent of a page reload.
	second := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer second.Close()
	reopened := NewRedisStore(second, "prefs")
	val, err := reopened.Get(ctx, "balance")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if val != "12500.50" {
		t.Fatalf("expected 12500.50, got %q", val)
	}

	if _, err := reopened.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
