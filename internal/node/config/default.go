package config

import "time"

// Default configuration values.
const (
	DefaultGCInterval       = 10 * time.Minute
	DefaultGCThreshold      = 0.5
	DefaultBadgerCacheSize  = 64 << 20 // 64MB
	DefaultValueLogFileSize = 1 << 30  // 1GB
	DefaultNumMemtables     = 2

	DefaultCacheSizeSoftLimit = 67108864 // 64MB

	DefaultShutdownTimeout = 30 * time.Second

	DefaultMetricsAddr = "127.0.0.1:9464"
	DefaultMetricsPath = "/metrics"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default node configuration. KVS.Path has no default.
func Default() *NodeConfig {
	return &NodeConfig{
		KVS: KVSSection{
			Badger: BadgerSection{
				GCInterval:       DefaultGCInterval,
				GCThreshold:      DefaultGCThreshold,
				CacheSize:        DefaultBadgerCacheSize,
				ValueLogFileSize: DefaultValueLogFileSize,
				NumMemtables:     DefaultNumMemtables,
				SyncWrites:       true,
			},
		},
		Cache: CacheSection{
			SizeSoftLimit: DefaultCacheSizeSoftLimit,
		},
		Shutdown: ShutdownSection{
			Timeout: DefaultShutdownTimeout,
		},
		Metrics: MetricsSection{
			Enabled: false,
			Addr:    DefaultMetricsAddr,
			Path:    DefaultMetricsPath,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
