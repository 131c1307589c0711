package cache

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/smilesdraw/pkg/layout"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

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

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v err %v, want miss", hit, err)
	}

	if err := c.Set(ctx, "layout:v1:abc", []byte(`{"atoms":[]}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:v1:abc")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v err %v, want hit", hit, err)
	}
	if string(data) != `{"atoms":[]}` {
		t.Errorf("data = %q", data)
	}

	if err := c.Delete(ctx, "layout:v1:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:v1:abc"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "layout:v1:abc"); err != nil {
		t.Errorf("Delete of missing key should not fail: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should be a miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl should never expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	os.MkdirAll(filepath.Dir(path), 0755)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v err %v, want silent miss", hit, err)
	}
}

func TestFileCacheLayout(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	p := c.path("some-key")
	rel, _ := filepath.Rel(c.Dir(), p)
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) != 2 || len(parts[0]) != 2 || !strings.HasSuffix(parts[1], ".json") {
		t.Errorf("path = %s, want <2 hex>/<rest>.json", rel)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	c.Set(ctx, "a", []byte("1"), 0)
	c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	for _, k := range []string{"a", "b"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("%s survived Clear", k)
		}
	}
	if err := c.Set(ctx, "c", []byte("3"), 0); err != nil {
		t.Errorf("Set after Clear: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	opts := layout.DefaultOptions()

	lk1 := k.LayoutKey("CCO", LayoutKeyOpts{Layout: opts})
	if !strings.HasPrefix(lk1, "layout:v1:") {
		t.Errorf("LayoutKey = %s, want layout:v1: prefix", lk1)
	}
	if lk1 != k.LayoutKey("CCO", LayoutKeyOpts{Layout: opts}) {
		t.Error("LayoutKey should be deterministic")
	}
	if lk1 == k.LayoutKey("OCC", LayoutKeyOpts{Layout: opts}) {
		t.Error("Different SMILES should produce different keys")
	}
	changed := opts
	changed.BondLength = 40
	if lk1 == k.LayoutKey("CCO", LayoutKeyOpts{Layout: changed}) {
		t.Error("Different layout options should produce different keys")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Theme: "light"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Theme: "light"})
	ak3 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Theme: "dark"})
	if ak1 == ak2 || ak1 == ak3 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}

	if got := k.RenderKey("1234"); got != "render:1234" {
		t.Errorf("RenderKey = %s", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "staging:")

	if got := scoped.RenderKey("abc"); got != "staging:render:abc" {
		t.Errorf("RenderKey = %s", got)
	}
	if got := scoped.LayoutKey("C", LayoutKeyOpts{}); !strings.HasPrefix(got, "staging:layout:v1:") {
		t.Errorf("LayoutKey should be prefixed: %s", got)
	}
	if got := scoped.ArtifactKey("h", ArtifactKeyOpts{}); !strings.HasPrefix(got, "staging:artifact:v1:") {
		t.Errorf("ArtifactKey should be prefixed: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.RenderKey("id"); key != "prefix:render:id" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrUnknownBackend) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
	if err := classify(io.EOF); !IsRetryable(err) || !errors.Is(err, ErrNetwork) {
		t.Errorf("classify(EOF) = %v, want retryable network error", err)
	}
	plain := errors.New("WRONGTYPE")
	if classify(plain) != plain {
		t.Error("non-network errors pass through unchanged")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err %v calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrUnknownBackend
	})
	if err != ErrUnknownBackend || calls != 1 {
		t.Errorf("non-retryable: err %v calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry: err %v calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if !errors.Is(err, ErrNetwork) || calls != 3 {
		t.Errorf("exhausted: err %v calls %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(file) error: %v", err)
	}
	if _, ok := c.(*FileCache); !ok {
		t.Errorf("Open(file) = %T, want *FileCache", c)
	}

	c, err = Open(ctx, Config{Backend: BackendNone})
	if err != nil {
		t.Fatalf("Open(none) error: %v", err)
	}
	if _, ok := c.(*NullCache); !ok {
		t.Errorf("Open(none) = %T, want *NullCache", c)
	}

	if _, err := Open(ctx, Config{Backend: "memcached"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(memcached) err = %v, want ErrUnknownBackend", err)
	}
	if _, err := Open(ctx, Config{Backend: BackendFile}); err == nil {
		t.Error("Open(file) without dir should fail")
	}
}

func TestMongoEntry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	e := newMongoEntry("k", []byte("v"), time.Hour, now)
	if e.ExpiresAt == nil || !e.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("ExpiresAt = %v, want %v", e.ExpiresAt, now.Add(time.Hour))
	}
	if expired(e.ExpiresAt, now.Add(time.Minute)) {
		t.Error("entry should be live before expiry")
	}
	if !expired(e.ExpiresAt, now.Add(2*time.Hour)) {
		t.Error("entry should be expired after ttl")
	}

	forever := newMongoEntry("k", nil, 0, now)
	if forever.ExpiresAt != nil || expired(forever.ExpiresAt, now.Add(1e6*time.Hour)) {
		t.Error("zero ttl should never expire")
	}
}

func TestConfigKeyer(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		prefix    string
	}{
		{"default", "", "layout:"},
		{"scoped", "staging:", "staging:layout:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := Config{Namespace: tt.namespace}.Keyer()
			key := k.LayoutKey("CCO", LayoutKeyOpts{})
			if !strings.HasPrefix(key, tt.prefix) {
				t.Errorf("LayoutKey() = %q, want prefix %q", key, tt.prefix)
			}
		})
	}
}
