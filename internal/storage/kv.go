package storage

import (
	"context"
	"time"
)

// KV is the per-database key-value API.
type KV interface {
	// Get retrieves a value by key.
	// Returns ErrKeyNotFound if key doesn't exist.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set stores a key-value pair.
	Set(ctx context.Context, key, value []byte) error

	// Delete removes a key.
	Delete(ctx context.Context, key []byte) error

	// Scan iterates over keys with a given prefix.
	// Callback returns false to stop iteration.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error

	// GC runs value log garbage collection and returns the number of
	// rewritten log files.
	GC(ctx context.Context) (int, error)

	// Stats returns storage statistics.
	Stats(ctx context.Context) (*KVStats, error)

	// Close flushes and closes the database.
	Close() error
}

// KVStats contains storage engine statistics.
type KVStats struct {
	// TotalSize is the total disk usage in bytes.
	TotalSize uint64

	// LSMSize is the LSM tree size.
	LSMSize uint64

	// ValueLogSize is the value log size.
	ValueLogSize uint64

	// LastGCTime is the last GC run timestamp (Unix milliseconds).
	LastGCTime int64

	// GCRewrites is the total number of value log files rewritten by GC.
	GCRewrites uint64
}

// Config configures the key-value environment.
type Config struct {
	// Path is the directory holding both databases. Required.
	Path string

	Badger BadgerConfig
}

// BadgerConfig contains Badger-specific tuning parameters.
type BadgerConfig struct {
	// GCInterval is the interval between automatic GC runs.
	// Zero disables the GC loop.
	// Default: 10m
	GCInterval time.Duration

	// GCThreshold is the discard ratio a value log file must reach before
	// it is rewritten (0.0-1.0).
	// Default: 0.5
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	// Default: 64MB
	CacheSize int64

	// ValueLogFileSize is the max value log file size in bytes.
	// Default: 1GB
	ValueLogFileSize int64

	// NumMemtables is the number of memtables.
	// Default: 2
	NumMemtables int

	// SyncWrites enables fsync after each write.
	// Default: true
	SyncWrites bool

	// InMemory keeps everything in memory. Used by tests.
	InMemory bool
}

// DefaultConfig returns the default configuration rooted at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:   path,
		Badger: DefaultBadgerConfig(),
	}
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCInterval:       10 * time.Minute,
		GCThreshold:      0.5,
		CacheSize:        64 << 20, // 64MB
		ValueLogFileSize: 1 << 30,  // 1GB
		NumMemtables:     2,
		SyncWrites:       true,
	}
}
