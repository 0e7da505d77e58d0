package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func openTestStore(t *testing.T) *BadgerStore {
	t.Helper()

	cfg := DefaultBadgerConfig()
	cfg.GCInterval = time.Hour // Disable auto GC for tests
	cfg.SyncWrites = false

	store, err := OpenBadger("test", t.TempDir(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBadgerStore_BasicOperations(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		key := []byte("test-key")
		value := []byte("test-value")

		if err := store.Set(ctx, key, value); err != nil {
			t.Fatal(err)
		}

		got, err := store.Get(ctx, key)
		if err != nil {
			t.Fatal(err)
		}

		if string(got) != string(value) {
			t.Errorf("expected %s, got %s", value, got)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		_, err := store.Get(ctx, []byte("non-existent"))
		if err != ErrKeyNotFound {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		key := []byte("delete-key")

		if err := store.Set(ctx, key, []byte("delete-value")); err != nil {
			t.Fatal(err)
		}
		if err := store.Delete(ctx, key); err != nil {
			t.Fatal(err)
		}

		_, err := store.Get(ctx, key)
		if err != ErrKeyNotFound {
			t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
		}
	})
}

func TestBadgerStore_Scan(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	testData := map[string]string{
		"user:1": "alice",
		"user:2": "bob",
		"user:3": "charlie",
		"meta:x": "data",
	}
	for k, v := range testData {
		if err := store.Set(ctx, []byte(k), []byte(v)); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("Scan with prefix", func(t *testing.T) {
		var results []string
		err := store.Scan(ctx, []byte("user:"), func(key, value []byte) bool {
			results = append(results, string(value))
			return true
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 3 {
			t.Errorf("expected 3 results, got %d", len(results))
		}
	})

	t.Run("Scan with early stop", func(t *testing.T) {
		count := 0
		err := store.Scan(ctx, []byte("user:"), func(key, value []byte) bool {
			count++
			return count < 2
		})
		if err != nil {
			t.Fatal(err)
		}
		if count != 2 {
			t.Errorf("expected 2 iterations, got %d", count)
		}
	})

	t.Run("Scan with cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := store.Scan(cctx, []byte("user:"), func(key, value []byte) bool {
			t.Error("callback ran after cancel")
			return true
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestBadgerStore_GC(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		if err := store.Set(ctx, []byte{byte(i)}, make([]byte, 1000)); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 50; i++ {
		if err := store.Delete(ctx, []byte{byte(i)}); err != nil {
			t.Fatal(err)
		}
	}

	rewrites, err := store.GC(ctx)
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("GC rewrote %d value log files", rewrites)

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.LastGCTime == 0 {
		t.Error("expected LastGCTime to be set after GC")
	}
}

func TestBadgerStore_InMemory(t *testing.T) {
	cfg := DefaultBadgerConfig()
	cfg.InMemory = true
	cfg.GCInterval = 0

	store, err := OpenBadger("mem", "", cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Set(ctx, []byte("k"), []byte("v")); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GC(ctx); err != nil {
		t.Errorf("GC() in memory error = %v", err)
	}
}

func TestBadgerStore_RequiresDir(t *testing.T) {
	if _, err := OpenBadger("x", "", DefaultBadgerConfig(), nil); err == nil {
		t.Error("expected error for empty dir")
	}
}

func TestBadgerStore_Closed(t *testing.T) {
	cfg := DefaultBadgerConfig()
	cfg.GCInterval = 0
	store, err := OpenBadger("closed", t.TempDir(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := store.Get(ctx, []byte("k")); err != ErrClosed {
		t.Errorf("Get() after close = %v, want ErrClosed", err)
	}
	if err := store.Set(ctx, []byte("k"), nil); err != ErrClosed {
		t.Errorf("Set() after close = %v, want ErrClosed", err)
	}
	if err := store.Close(); err != ErrClosed {
		t.Errorf("second Close() = %v, want ErrClosed", err)
	}
}

func TestBadgerStore_RegisterMetrics(t *testing.T) {
	store := openTestStore(t)
	reg := prometheus.NewRegistry()

	if err := store.RegisterMetrics(reg); err != nil {
		t.Fatal(err)
	}
	if n := testutil.CollectAndCount(reg, "mouse_badger_gc_rewrites_total"); n != 1 {
		t.Errorf("expected 1 gc counter, got %d", n)
	}
	if err := store.RegisterMetrics(reg); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}
