package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/yndnr/mouse-go/internal/cache"
	"github.com/yndnr/mouse-go/internal/core/domain"
	"github.com/yndnr/mouse-go/internal/storage"
)

// RecordCounts defines the record counts for benchmarking.
var RecordCounts = []int{1000, 10000, 100000}

// newRecords builds n distinct records with payload bytes of extrinsic data.
func newRecords(n, payload int) []*domain.Record {
	recs := make([]*domain.Record, n)
	for i := range recs {
		recs[i] = domain.NewRecord([]byte(fmt.Sprintf("record-%d", i)), make([]byte, payload))
	}
	return recs
}

func newCache(b *testing.B, limit int64) *cache.Cache {
	b.Helper()
	c, err := cache.New(cache.Config{SizeSoftLimit: limit})
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { c.Close() })
	return c
}

func newEnvironment(b *testing.B) *storage.Environment {
	b.Helper()
	cfg := storage.DefaultConfig(b.TempDir())
	cfg.Badger.GCInterval = 0
	cfg.Badger.SyncWrites = false

	env, err := storage.NewEnvironment(cfg, nil)
	if err != nil {
		b.Fatal(err)
	}
	if err := env.Open(context.Background()); err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { env.Close() })
	return env
}
