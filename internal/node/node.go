package node

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/mouse-go/internal/cache"
	"github.com/yndnr/mouse-go/internal/core/domain"
	"github.com/yndnr/mouse-go/internal/infra/buildinfo"
	"github.com/yndnr/mouse-go/internal/infra/confloader"
	"github.com/yndnr/mouse-go/internal/infra/shutdown"
	"github.com/yndnr/mouse-go/internal/node/config"
	"github.com/yndnr/mouse-go/internal/server/httpserver"
	"github.com/yndnr/mouse-go/internal/storage"
	"github.com/yndnr/mouse-go/internal/telemetry/logger"
	"github.com/yndnr/mouse-go/internal/telemetry/metric"
)

// Errors returned by Lookup.
var (
	ErrNotFound     = errors.New("node: record not found")
	ErrShuttingDown = errors.New("node: shutting down")
)

// Options configures a Node. Only Config is required.
type Options struct {
	Config *config.NodeConfig

	// ConfigPath is watched for changes when set.
	ConfigPath string
	// Overrides are the flag values reapplied on every reload.
	Overrides map[string]any

	// LogOutput receives log lines. Default: os.Stderr
	LogOutput io.Writer

	Registry *metric.Registry
	Watcher  *shutdown.Watcher
	State    *shutdown.State
}

// Node owns every component of a running node.
type Node struct {
	cfg   *config.NodeConfig
	runID string
	log   logger.Logger

	configPath string
	overrides  map[string]any

	registry   *metric.Registry
	env        *storage.Environment
	cache      *cache.Cache
	watcher    *confloader.Watcher
	http       *httpserver.Server
	cancelHTTP context.CancelFunc
	shutdown   *shutdown.Handler
	started    chan struct{}
}

// New builds the node and opens its storage. Nothing is served until Run.
func New(ctx context.Context, opts Options) (*Node, error) {
	if opts.Config == nil {
		return nil, errors.New("node: config is required")
	}
	if err := config.Verify(opts.Config); err != nil {
		return nil, fmt.Errorf("node: invalid configuration: %w", err)
	}
	cfg := opts.Config

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	base, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: out,
	})
	if err != nil {
		return nil, fmt.Errorf("node: init logger: %w", err)
	}

	runID := ulid.Make().String()
	n := &Node{
		cfg:        cfg,
		runID:      runID,
		log:        logger.L(logger.WithRunID(logger.WithLogger(ctx, base), runID)),
		configPath: opts.ConfigPath,
		overrides:  opts.Overrides,
		registry:   opts.Registry,
		started:    make(chan struct{}),
	}
	if n.registry == nil {
		n.registry = metric.NewRegistry()
	}

	info := buildinfo.Get()
	n.registry.SetBuildInfo(info, runID)
	n.log.Info("starting mouse-node", info.LogFields()...)

	n.env, err = storage.NewEnvironment(cfg.StorageConfig(), n.log)
	if err != nil {
		return nil, err
	}
	if err := n.env.Open(ctx); err != nil {
		return nil, fmt.Errorf("node: open storage: %w", err)
	}
	if err := n.env.RegisterMetrics(n.registry.Registerer()); err != nil {
		n.env.Close()
		return nil, err
	}

	n.cache, err = cache.New(cfg.CacheConfig())
	if err != nil {
		n.env.Close()
		return nil, fmt.Errorf("node: init cache: %w", err)
	}
	n.registry.WatchCache(n.cache.Usage, n.cache.SizeSoftLimit())

	watcher := opts.Watcher
	if watcher == nil {
		watcher = shutdown.NewWatcher(nil)
	}
	state := opts.State
	if state == nil {
		state = shutdown.Global()
	}
	n.shutdown = shutdown.NewHandler(cfg.Shutdown.Timeout,
		shutdown.WithWatcher(watcher),
		shutdown.WithState(state),
		shutdown.WithLogger(n.log),
		shutdown.WithMetrics(n.registry),
	)
	n.registry.WatchShutdownState(state.Requested)

	// Registered in startup order; they run in reverse.
	n.shutdown.OnShutdown("storage", func(ctx context.Context) error {
		n.log.Info("closing storage")
		return n.env.Close()
	})
	n.shutdown.OnShutdown("cache", func(ctx context.Context) error {
		n.log.Info("closing cache")
		return n.cache.Close()
	})

	return n, nil
}

// RunID returns the identifier of this process run.
func (n *Node) RunID() string {
	return n.runID
}

// Logger returns the node logger.
func (n *Node) Logger() logger.Logger {
	return n.log
}

// Shutdown returns the shutdown handler.
func (n *Node) Shutdown() *shutdown.Handler {
	return n.shutdown
}

// Run starts the config watcher and the HTTP endpoint, then blocks until a
// lifecycle signal has been handled. A failed signal wait is returned after
// the components are closed.
func (n *Node) Run() error {
	n.shutdown.Start()

	if err := n.startConfigWatcher(); err != nil {
		n.abort()
		return err
	}
	if err := n.startHTTP(); err != nil {
		n.abort()
		return err
	}

	n.log.Info("node started")
	close(n.started)
	if err := n.shutdown.Wait(); err != nil {
		if errors.Is(err, shutdown.ErrSignalSetup) {
			n.abort()
		}
		return err
	}

	n.log.Info("node stopped")
	return nil
}

// abort closes what New and Run opened when the handler never fires.
func (n *Node) abort() {
	if n.http != nil {
		n.http.Shutdown(context.Background())
		n.cancelHTTP()
	}
	if n.watcher != nil {
		n.watcher.Stop()
	}
	n.cache.Close()
	n.env.Close()
}

func (n *Node) startConfigWatcher() error {
	if n.configPath == "" {
		return nil
	}

	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(n.log.Slog()))
	if err != nil {
		return fmt.Errorf("node: config watcher: %w", err)
	}
	if err := w.Watch(n.configPath); err != nil {
		w.Stop()
		return fmt.Errorf("node: watch %s: %w", n.configPath, err)
	}
	w.OnChange(n.reload)
	w.StartAsync()
	n.watcher = w

	n.shutdown.OnShutdown("config-watcher", func(ctx context.Context) error {
		return w.Stop()
	})
	return nil
}

// reload reapplies the settings that can change without a restart.
func (n *Node) reload(path string) {
	cfg, err := config.Load(path, n.overrides)
	if err != nil {
		n.log.Warn("config reload rejected", "path", path, "error", err)
		return
	}
	logger.SetLevel(cfg.Log.Level)
	n.log.Info("config reloaded", "path", path, "log_level", cfg.Log.Level)
}

func (n *Node) startHTTP() error {
	if !n.cfg.Metrics.Enabled {
		return nil
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Metrics:      n.registry.Handler(),
		MetricsPath:  n.cfg.Metrics.Path,
		ShuttingDown: n.shutdown.State().Requested,
		Logger:       n.log,
	})
	srv := httpserver.New(n.cfg.Metrics.Addr, router, n.log)
	// In-flight requests are cancelled as soon as shutdown is requested.
	base, cancel := n.shutdown.State().Context(context.Background())
	srv.SetBaseContext(base)
	if err := srv.Start(); err != nil {
		cancel()
		return fmt.Errorf("node: http: %w", err)
	}
	n.http = srv
	n.cancelHTTP = cancel

	n.shutdown.OnShutdown("http", func(ctx context.Context) error {
		n.log.Info("shutting down HTTP server")
		defer cancel()
		return srv.Shutdown(ctx)
	})
	return nil
}

// Started closes once Run has started every component.
func (n *Node) Started() <-chan struct{} {
	return n.started
}

// HTTPAddr returns the bound HTTP address, or "" when not serving.
func (n *Node) HTTPAddr() string {
	if n.http == nil || n.http.Addr() == nil {
		return ""
	}
	return n.http.Addr().String()
}

// Store writes rec to storage and caches it.
func (n *Node) Store(ctx context.Context, rec *domain.Record) error {
	if n.shutdown.State().Requested() {
		return ErrShuttingDown
	}
	if err := n.env.Put(ctx, rec); err != nil {
		return err
	}
	n.cache.Insert(rec)
	return nil
}

// Lookup returns the record for id, reading through the cache.
func (n *Node) Lookup(ctx context.Context, id domain.ID) (*domain.Record, error) {
	if n.shutdown.State().Requested() {
		return nil, ErrShuttingDown
	}

	rec, res := n.cache.Find(id)
	n.registry.ObserveLookup(res.String())
	switch res {
	case cache.Hit:
		return rec, nil
	case cache.Fault:
		return nil, ErrNotFound
	}

	rec, err := n.env.Fetch(ctx, id)
	switch {
	case err == nil:
		n.cache.Insert(rec)
		return rec, nil
	case errors.Is(err, storage.ErrKeyNotFound):
		n.cache.NotFound(id)
		return nil, ErrNotFound
	default:
		n.log.Error("lookup failed", "id", id.String(), "error", err)
		return nil, err
	}
}
