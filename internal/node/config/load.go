package config

import (
	"github.com/yndnr/mouse-go/internal/cache"
	"github.com/yndnr/mouse-go/internal/infra/confloader"
	"github.com/yndnr/mouse-go/internal/storage"
)

// Load resolves the configuration from defaults, the optional file at path,
// the environment and flag overrides, then verifies it.
func Load(path string, overrides map[string]any) (*NodeConfig, error) {
	cfg := Default()
	loader := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithOverrides(overrides),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StorageConfig converts the kvs section.
func (c *NodeConfig) StorageConfig() storage.Config {
	b := c.KVS.Badger
	return storage.Config{
		Path: c.KVS.Path,
		Badger: storage.BadgerConfig{
			GCInterval:       b.GCInterval,
			GCThreshold:      b.GCThreshold,
			CacheSize:        b.CacheSize,
			ValueLogFileSize: b.ValueLogFileSize,
			NumMemtables:     b.NumMemtables,
			SyncWrites:       b.SyncWrites,
		},
	}
}

// CacheConfig converts the cache section.
func (c *NodeConfig) CacheConfig() cache.Config {
	return cache.Config{
		SizeSoftLimit: c.Cache.SizeSoftLimit,
		NumCounters:   c.Cache.NumCounters,
	}
}
