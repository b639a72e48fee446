package cli

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/matzehuels/visualtopo/pkg/cache"
)

func TestCached(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}

	calls := 0
	compute := func() ([]byte, error) {
		calls++
		return []byte("PNG"), nil
	}
	for range 2 {
		data, err := cached(ctx, fc, "k", compute)
		if err != nil || string(data) != "PNG" {
			t.Fatalf("cached() = %q, %v", data, err)
		}
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
}

func TestCachedDoesNotStoreErrors(t *testing.T) {
	ctx := context.Background()
	fc, _ := cache.NewFileCache(t.TempDir())
	boom := errors.New("rsvg-convert failed")

	if _, err := cached(ctx, fc, "k", func() ([]byte, error) { return nil, boom }); err != boom {
		t.Errorf("cached() error = %v, want %v", err, boom)
	}
	if _, hit, _ := fc.Get(ctx, "k"); hit {
		t.Error("failed computation should not be cached")
	}
}

func TestOpenCache(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	if _, ok := openCache(context.Background(), true).(cache.NullCache); !ok {
		t.Error("openCache(disabled) should return a NullCache")
	}
	fc, ok := openCache(context.Background(), false).(*cache.FileCache)
	if !ok {
		t.Fatal("openCache() should return a FileCache")
	}
	if want := filepath.Join(dir, appName); fc.Dir() != want {
		t.Errorf("cache dir = %q, want %q", fc.Dir(), want)
	}
}
