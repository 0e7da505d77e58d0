package config

import "time"

// NodeConfig is the root configuration for mouse-node.
type NodeConfig struct {
	KVS      KVSSection      `koanf:"kvs"`
	Cache    CacheSection    `koanf:"cache"`
	Shutdown ShutdownSection `koanf:"shutdown"`
	Metrics  MetricsSection  `koanf:"metrics"`
	Log      LogSection      `koanf:"log"`
}

// KVSSection configures the key-value databases.
type KVSSection struct {
	// Path is the directory holding the intrinsic and extrinsic databases.
	Path   string        `koanf:"path"`
	Badger BadgerSection `koanf:"badger"`
}

// BadgerSection tunes both badger databases.
type BadgerSection struct {
	GCInterval       time.Duration `koanf:"gc_interval"`
	GCThreshold      float64       `koanf:"gc_threshold"`
	CacheSize        int64         `koanf:"cache_size"`
	ValueLogFileSize int64         `koanf:"value_log_file_size"`
	NumMemtables     int           `koanf:"num_memtables"`
	SyncWrites       bool          `koanf:"sync_writes"`
}

// CacheSection configures the record cache.
type CacheSection struct {
	// SizeSoftLimit is the byte size above which cached records are evicted.
	SizeSoftLimit int64 `koanf:"size_soft_limit"`
	NumCounters   int64 `koanf:"num_counters"`
}

// ShutdownSection configures teardown.
type ShutdownSection struct {
	// Timeout bounds the whole teardown after a lifecycle signal.
	Timeout time.Duration `koanf:"timeout"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
	Path    string `koanf:"path"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
