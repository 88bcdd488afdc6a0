package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "grid")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get before Set should miss")
	}

	// Round trip
	if err := c.Set(ctx, "grid", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "grid")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get after Set should hit")
	}
	if string(data) != "payload" {
		t.Errorf("Get data = %q, want %q", data, "payload")
	}

	// Expired entries read as misses
	if err := c.Set(ctx, "stale", []byte("old"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, err = c.Get(ctx, "stale")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expired entry should read as miss")
	}

	// Delete
	if err := c.Delete(ctx, "grid"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "grid")
	if hit {
		t.Error("Get after Delete should miss")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete missing key error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// SegmentKey should include options in hash
	sk1 := k.SegmentKey("img123", SegmentKeyOpts{Superpixels: 400, MaxSide: 96})
	sk2 := k.SegmentKey("img123", SegmentKeyOpts{Superpixels: 800, MaxSide: 96})
	if sk1 == sk2 {
		t.Error("Different SegmentKeyOpts should produce different keys")
	}

	// Different image hashes produce different keys
	sk3 := k.SegmentKey("img456", SegmentKeyOpts{Superpixels: 400, MaxSide: 96})
	if sk1 == sk3 {
		t.Error("Different image hashes should produce different keys")
	}

	// QuantizeKey
	qk1 := k.QuantizeKey("seg123", QuantizeKeyOpts{Colors: 16, Method: "weighted"})
	qk2 := k.QuantizeKey("seg123", QuantizeKeyOpts{Colors: 8, Method: "weighted"})
	if qk1 == qk2 {
		t.Error("Different QuantizeKeyOpts should produce different keys")
	}

	// ArtifactKey
	ak1 := k.ArtifactKey("res123", ArtifactKeyOpts{Format: "svg", Scale: 8})
	ak2 := k.ArtifactKey("res123", ArtifactKeyOpts{Format: "png", Scale: 8})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}

	// Keys are stable across calls
	if sk1 != k.SegmentKey("img123", SegmentKeyOpts{Superpixels: 400, MaxSide: 96}) {
		t.Error("SegmentKey should be deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "run:abc:")

	key := scoped.SegmentKey("img123", SegmentKeyOpts{Superpixels: 400})
	if len(key) < 9 || key[:8] != "run:abc:" {
		t.Errorf("ScopedKeyer SegmentKey should be prefixed: %s", key)
	}

	want := "run:abc:" + inner.ArtifactKey("res", ArtifactKeyOpts{Format: "svg"})
	if got := scoped.ArtifactKey("res", ArtifactKeyOpts{Format: "svg"}); got != want {
		t.Errorf("ScopedKeyer ArtifactKey = %s, want %s", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.QuantizeKey("seg", QuantizeKeyOpts{Colors: 4})
	if len(key) < 7 || key[:7] != "prefix:" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
