package cache

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/ristretto"
	"github.com/spaolacci/murmur3"

	"github.com/yndnr/mouse-go/internal/core/domain"
)

// DefaultSizeSoftLimit is 64 MiB.
const DefaultSizeSoftLimit int64 = 64 << 20

// Result tells how an ID is cached.
type Result int

const (
	// Lost means the cache knows nothing about the ID.
	Lost Result = iota
	// Hit means the record is cached.
	Hit
	// Fault means the last store query found no such record.
	Fault
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case Lost:
		return "lost"
	case Hit:
		return "hit"
	case Fault:
		return "fault"
	default:
		return "unknown"
	}
}

// Config configures the cache.
type Config struct {
	// SizeSoftLimit is the byte size above which entries are evicted.
	// Default: 64 MiB
	SizeSoftLimit int64

	// NumCounters is the number of admission counters. Ten times the
	// expected entry count is a good value. Default: SizeSoftLimit / 100.
	NumCounters int64
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{SizeSoftLimit: DefaultSizeSoftLimit}
}

// entry is a cached record. A nil rec is a negative entry.
type entry struct {
	rec *domain.Record
}

// Cache is safe for concurrent use.
type Cache struct {
	limit   int64
	c       *ristretto.Cache
	metrics *ristretto.Metrics
	closed  atomic.Bool
}

// New creates a cache.
func New(cfg Config) (*Cache, error) {
	if cfg.SizeSoftLimit < 0 {
		return nil, fmt.Errorf("cache: invalid size soft limit %d", cfg.SizeSoftLimit)
	}
	if cfg.SizeSoftLimit == 0 {
		cfg.SizeSoftLimit = DefaultSizeSoftLimit
	}
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = cfg.SizeSoftLimit / 100
		if cfg.NumCounters < 1000 {
			cfg.NumCounters = 1000
		}
	}

	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        cfg.NumCounters,
		MaxCost:            cfg.SizeSoftLimit,
		BufferItems:        64,
		Metrics:            true,
		IgnoreInternalCost: true,
		KeyToHash:          keyToHash,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	return &Cache{limit: cfg.SizeSoftLimit, c: c, metrics: c.Metrics}, nil
}

func keyToHash(key interface{}) (uint64, uint64) {
	switch k := key.(type) {
	case domain.ID:
		return murmur3.Sum128(k[:])
	case []byte:
		return murmur3.Sum128(k)
	case string:
		return murmur3.Sum128([]byte(k))
	default:
		panic(fmt.Sprintf("cache: unsupported key type %T", key))
	}
}

// Find returns how id is cached and, on Hit, the record.
func (c *Cache) Find(id domain.ID) (*domain.Record, Result) {
	v, ok := c.c.Get(id)
	if !ok {
		return nil, Lost
	}
	e := v.(entry)
	if e.rec == nil {
		return nil, Fault
	}
	return e.rec, Hit
}

// Insert caches rec, replacing any entry under the same ID, including a
// negative one. It reports false if the cache dropped the write.
func (c *Cache) Insert(rec *domain.Record) bool {
	if rec == nil {
		return false
	}
	return c.c.Set(rec.ID, entry{rec: rec}, rec.Size())
}

// NotFound records that id is not in the store. An existing entry is left
// untouched.
func (c *Cache) NotFound(id domain.ID) bool {
	if _, ok := c.c.Get(id); ok {
		return false
	}
	return c.c.Set(id, entry{}, domain.IDSize)
}

// Remove drops the entry for id.
func (c *Cache) Remove(id domain.ID) {
	c.c.Del(id)
}

// Wait blocks until buffered writes are applied.
func (c *Cache) Wait() {
	c.c.Wait()
}

// Usage returns the approximate number of bytes held.
func (c *Cache) Usage() uint64 {
	added, evicted := c.metrics.CostAdded(), c.metrics.CostEvicted()
	if evicted > added {
		return 0
	}
	return added - evicted
}

// SizeSoftLimit returns the configured limit.
func (c *Cache) SizeSoftLimit() int64 {
	return c.limit
}

// Ratio returns the hit ratio of Find calls.
func (c *Cache) Ratio() float64 {
	return c.metrics.Ratio()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.c.Clear()
}

// ErrClosed is returned by Close on a closed cache.
var ErrClosed = errors.New("cache: closed")

// Close stops the cache goroutines. A closed cache finds nothing and drops
// writes.
func (c *Cache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	c.c.Close()
	return nil
}
