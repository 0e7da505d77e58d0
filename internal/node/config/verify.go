package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/mouse-go/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *NodeConfig) error {
	if err := verifyKVS(&cfg.KVS); err != nil {
		return err
	}
	if err := verifyCache(&cfg.Cache); err != nil {
		return err
	}
	if cfg.Shutdown.Timeout <= 0 {
		return errors.New("shutdown.timeout must be positive")
	}
	if err := verifyMetrics(&cfg.Metrics); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyKVS(cfg *KVSSection) error {
	if cfg.Path == "" {
		return errors.New("kvs.path is required")
	}
	if cfg.Badger.GCThreshold <= 0 || cfg.Badger.GCThreshold >= 1 {
		return fmt.Errorf("kvs.badger.gc_threshold must be in (0, 1), got %v", cfg.Badger.GCThreshold)
	}
	if cfg.Badger.GCInterval < 0 {
		return errors.New("kvs.badger.gc_interval must not be negative")
	}
	return nil
}

func verifyCache(cfg *CacheSection) error {
	if cfg.SizeSoftLimit <= 0 {
		return fmt.Errorf("cache.size_soft_limit must be positive, got %d", cfg.SizeSoftLimit)
	}
	if cfg.NumCounters < 0 {
		return fmt.Errorf("cache.num_counters must not be negative, got %d", cfg.NumCounters)
	}
	return nil
}

func verifyMetrics(cfg *MetricsSection) error {
	if !cfg.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return fmt.Errorf("metrics.addr: %w", err)
	}
	if !strings.HasPrefix(cfg.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", cfg.Path)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level: unknown level %q", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "", "json", "text", "console":
		return nil
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Format)
	}
}
