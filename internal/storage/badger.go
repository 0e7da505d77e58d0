package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/mouse-go/internal/telemetry/logger"
)

// Common errors
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrClosed      = errors.New("kv store closed")
)

// BadgerStore implements KV on one Badger v3 database.
type BadgerStore struct {
	name   string
	db     *badger.DB
	cfg    BadgerConfig
	logger logger.Logger
	closed atomic.Bool

	lastGCTime atomic.Int64  // Unix milliseconds
	gcRewrites atomic.Uint64 // value log files rewritten

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// OpenBadger opens the database named name under dir.
// An empty dir is only accepted together with cfg.InMemory.
func OpenBadger(name, dir string, cfg BadgerConfig, log logger.Logger) (*BadgerStore, error) {
	if dir == "" && !cfg.InMemory {
		return nil, fmt.Errorf("badger %s: dir is required", name)
	}
	if log == nil {
		log = logger.Default()
	}
	log = log.With("store", name)

	opts := badger.DefaultOptions(dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = &badgerLogger{logger: log}
	if cfg.CacheSize > 0 {
		opts.BlockCacheSize = cfg.CacheSize
	}
	if cfg.ValueLogFileSize > 0 {
		opts.ValueLogFileSize = cfg.ValueLogFileSize
	}
	if cfg.NumMemtables > 0 {
		opts.NumMemtables = cfg.NumMemtables
	}
	opts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger %s: open db: %w", name, err)
	}

	s := &BadgerStore{
		name:   name,
		db:     db,
		cfg:    cfg,
		logger: log,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	go s.gcLoop()

	log.Info("badger store opened",
		"dir", dir,
		"in_memory", cfg.InMemory,
		"cache_size", opts.BlockCacheSize,
		"gc_interval", cfg.GCInterval)

	return s, nil
}

// Name returns the store name.
func (s *BadgerStore) Name() string {
	return s.name
}

// Get retrieves a value by key.
func (s *BadgerStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Set stores a key-value pair.
func (s *BadgerStore) Set(ctx context.Context, key, value []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete removes a key.
func (s *BadgerStore) Delete(ctx context.Context, key []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Scan iterates over keys with a given prefix.
func (s *BadgerStore) Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			if !fn(item.KeyCopy(nil), value) {
				break
			}
		}

		return nil
	})
}

// GC rewrites value log files until none reaches the discard threshold.
func (s *BadgerStore) GC(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}

	start := time.Now()
	rewrites := 0
	for ctx.Err() == nil {
		err := s.db.RunValueLogGC(s.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
				break
			}
			return rewrites, fmt.Errorf("gc: %w", err)
		}
		rewrites++
	}

	s.lastGCTime.Store(time.Now().UnixMilli())
	s.gcRewrites.Add(uint64(rewrites))

	s.logger.Debug("gc completed",
		"rewrites", rewrites,
		"elapsed", time.Since(start))

	return rewrites, ctx.Err()
}

// Stats returns storage statistics.
func (s *BadgerStore) Stats(ctx context.Context) (*KVStats, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	lsm, vlog := s.db.Size()

	return &KVStats{
		TotalSize:    uint64(lsm + vlog),
		LSMSize:      uint64(lsm),
		ValueLogSize: uint64(vlog),
		LastGCTime:   s.lastGCTime.Load(),
		GCRewrites:   s.gcRewrites.Load(),
	}, nil
}

// Close stops the GC loop and closes the database. Closing twice
// returns ErrClosed.
func (s *BadgerStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.doneCh

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("badger %s: close db: %w", s.name, err)
	}

	s.logger.Info("badger store closed")
	return nil
}

// RegisterMetrics exposes the store sizes under the "store" label.
func (s *BadgerStore) RegisterMetrics(reg prometheus.Registerer) error {
	labels := prometheus.Labels{"store": s.name}
	size := func(pick func(lsm, vlog int64) int64) func() float64 {
		return func() float64 {
			if s.closed.Load() {
				return 0
			}
			return float64(pick(s.db.Size()))
		}
	}

	collectors := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "mouse",
			Subsystem:   "badger",
			Name:        "lsm_size_bytes",
			Help:        "Badger LSM tree size in bytes",
			ConstLabels: labels,
		}, size(func(lsm, _ int64) int64 { return lsm })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "mouse",
			Subsystem:   "badger",
			Name:        "value_log_size_bytes",
			Help:        "Badger value log size in bytes",
			ConstLabels: labels,
		}, size(func(_, vlog int64) int64 { return vlog })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "mouse",
			Subsystem:   "badger",
			Name:        "last_gc_timestamp_seconds",
			Help:        "Unix timestamp of the last Badger GC run",
			ConstLabels: labels,
		}, func() float64 { return float64(s.lastGCTime.Load()) / 1000.0 }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   "mouse",
			Subsystem:   "badger",
			Name:        "gc_rewrites_total",
			Help:        "Value log files rewritten by Badger garbage collection",
			ConstLabels: labels,
		}, func() float64 { return float64(s.gcRewrites.Load()) }),
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("badger %s: register metrics: %w", s.name, err)
		}
	}
	return nil
}

// gcLoop runs periodic garbage collection.
func (s *BadgerStore) gcLoop() {
	defer close(s.doneCh)

	if s.cfg.GCInterval <= 0 {
		<-s.stopCh
		return
	}

	ticker := time.NewTicker(s.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			if _, err := s.GC(ctx); err != nil {
				s.logger.Error("auto gc failed", "error", err)
			}
			cancel()

		case <-s.stopCh:
			return
		}
	}
}

// badgerLogger adapts logger.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
