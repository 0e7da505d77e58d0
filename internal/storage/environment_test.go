package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/mouse-go/internal/core/domain"
)

func openTestEnvironment(t *testing.T) (*Environment, string) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "kvs")
	cfg := DefaultConfig(dir)
	cfg.Badger.GCInterval = time.Hour
	cfg.Badger.SyncWrites = false

	env, err := NewEnvironment(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := env.Open(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { env.Close() })
	return env, dir
}

func TestNewEnvironment_RequiresPath(t *testing.T) {
	if _, err := NewEnvironment(Config{}, nil); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestEnvironment_OpenCreatesDatabases(t *testing.T) {
	env, dir := openTestEnvironment(t)

	for _, name := range []string{IntrinsicDB, ExtrinsicDB} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("database %s not created: %v", name, err)
		}
	}
	if err := env.Open(context.Background()); err == nil {
		t.Error("expected second Open to fail")
	}
}

func TestEnvironment_PutFetch(t *testing.T) {
	env, _ := openTestEnvironment(t)
	ctx := context.Background()

	rec := domain.NewRecord([]byte("content"), []byte("meta"))
	if err := env.Put(ctx, rec); err != nil {
		t.Fatal(err)
	}

	got, err := env.Fetch(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if string(got.Intrinsic) != "content" || string(got.Extrinsic) != "meta" {
		t.Errorf("Fetch() = %q/%q", got.Intrinsic, got.Extrinsic)
	}

	if err := env.Remove(ctx, rec.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Fetch(ctx, rec.ID); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Fetch() after remove = %v, want ErrKeyNotFound", err)
	}
}

func TestEnvironment_PutRejectsMismatch(t *testing.T) {
	env, _ := openTestEnvironment(t)

	rec := domain.NewRecord([]byte("content"), nil)
	rec.Intrinsic = []byte("changed")
	if err := env.Put(context.Background(), rec); !errors.Is(err, domain.ErrIDMismatch) {
		t.Errorf("Put() = %v, want ErrIDMismatch", err)
	}
}

func TestEnvironment_FetchInconsistent(t *testing.T) {
	env, _ := openTestEnvironment(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		store func() *BadgerStore
	}{
		{"intrinsic only", env.Intrinsic},
		{"extrinsic only", env.Extrinsic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := domain.NewID([]byte(tt.name))
			if err := tt.store().Set(ctx, id.Bytes(), []byte("half")); err != nil {
				t.Fatal(err)
			}
			if _, err := env.Fetch(ctx, id); !errors.Is(err, ErrInconsistent) {
				t.Errorf("Fetch() = %v, want ErrInconsistent", err)
			}
		})
	}
}

func TestEnvironment_Reopen(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(dir)
	cfg.Badger.GCInterval = 0
	ctx := context.Background()

	env, _ := NewEnvironment(cfg, nil)
	if err := env.Open(ctx); err != nil {
		t.Fatal(err)
	}
	rec := domain.NewRecord([]byte("durable"), []byte("x"))
	if err := env.Put(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if err := env.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Fetch(ctx, rec.ID); err != ErrClosed {
		t.Errorf("Fetch() after close = %v, want ErrClosed", err)
	}

	env2, _ := NewEnvironment(cfg, nil)
	if err := env2.Open(ctx); err != nil {
		t.Fatal(err)
	}
	defer env2.Close()

	if _, err := env2.Fetch(ctx, rec.ID); err != nil {
		t.Errorf("Fetch() after reopen = %v", err)
	}
}

func TestEnvironment_RegisterMetrics(t *testing.T) {
	env, _ := openTestEnvironment(t)
	reg := prometheus.NewRegistry()

	if err := env.RegisterMetrics(reg); err != nil {
		t.Fatal(err)
	}
	if n := testutil.CollectAndCount(reg, "mouse_badger_lsm_size_bytes"); n != 2 {
		t.Errorf("expected one lsm gauge per store, got %d", n)
	}
}

func TestEnvironment_CloseWaitsForFetch(t *testing.T) {
	cfg := DefaultConfig("")
	cfg.Badger.InMemory = true
	cfg.Badger.GCInterval = 0
	ctx := context.Background()

	env, err := NewEnvironment(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := env.Open(ctx); err != nil {
		t.Fatal(err)
	}
	rec := domain.NewRecord([]byte("busy"), []byte("x"))
	if err := env.Put(ctx, rec); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				_, err := env.Fetch(ctx, rec.ID)
				if errors.Is(err, ErrClosed) {
					return
				}
				if err != nil {
					errs <- err
					return
				}
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	if err := env.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Fetch() during close = %v", err)
	}

	if err := env.Put(ctx, rec); err != ErrClosed {
		t.Errorf("Put() after close = %v, want ErrClosed", err)
	}
	if err := env.Remove(ctx, rec.ID); err != ErrClosed {
		t.Errorf("Remove() after close = %v, want ErrClosed", err)
	}
	if err := env.Close(); err != ErrClosed {
		t.Errorf("second Close() = %v, want ErrClosed", err)
	}
}
