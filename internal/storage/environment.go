package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/mouse-go/internal/core/domain"
	"github.com/yndnr/mouse-go/internal/telemetry/logger"
)

// Database names under Config.Path.
const (
	IntrinsicDB = "intrinsic"
	ExtrinsicDB = "extrinsic"
)

// ErrInconsistent is returned by Fetch when only one half of a record is
// stored.
var ErrInconsistent = errors.New("storage: record halves are inconsistent")

// Environment owns the intrinsic and extrinsic databases. Close waits for
// in-flight operations; later operations return ErrClosed.
type Environment struct {
	cfg    Config
	logger logger.Logger

	mu        sync.RWMutex
	intrinsic *BadgerStore
	extrinsic *BadgerStore
	closed    bool
}

// NewEnvironment validates cfg. Call Open before use.
func NewEnvironment(cfg Config, log logger.Logger) (*Environment, error) {
	if cfg.Path == "" && !cfg.Badger.InMemory {
		return nil, errors.New("storage: path is required")
	}
	if log == nil {
		log = logger.Default()
	}
	return &Environment{cfg: cfg, logger: log}, nil
}

// Open creates the directory if needed and opens both databases.
func (e *Environment) Open(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.intrinsic != nil {
		return errors.New("storage: environment already open")
	}

	var intrinsicDir, extrinsicDir string
	if !e.cfg.Badger.InMemory {
		if err := os.MkdirAll(e.cfg.Path, 0o755); err != nil {
			return fmt.Errorf("storage: create %s: %w", e.cfg.Path, err)
		}
		intrinsicDir = filepath.Join(e.cfg.Path, IntrinsicDB)
		extrinsicDir = filepath.Join(e.cfg.Path, ExtrinsicDB)
	}

	in, err := OpenBadger(IntrinsicDB, intrinsicDir, e.cfg.Badger, e.logger)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		in.Close()
		return err
	}
	ex, err := OpenBadger(ExtrinsicDB, extrinsicDir, e.cfg.Badger, e.logger)
	if err != nil {
		in.Close()
		return err
	}

	e.intrinsic = in
	e.extrinsic = ex
	return nil
}

// Intrinsic returns the intrinsic database.
func (e *Environment) Intrinsic() *BadgerStore {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.intrinsic
}

// Extrinsic returns the extrinsic database.
func (e *Environment) Extrinsic() *BadgerStore {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.extrinsic
}

// Put writes both halves of r. The intrinsic half goes first.
func (e *Environment) Put(ctx context.Context, r *domain.Record) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.usable() {
		return ErrClosed
	}
	if err := r.Verify(); err != nil {
		return err
	}
	if err := e.intrinsic.Set(ctx, r.ID.Bytes(), r.Intrinsic); err != nil {
		return fmt.Errorf("storage: put intrinsic %s: %w", r.ID, err)
	}
	if err := e.extrinsic.Set(ctx, r.ID.Bytes(), r.Extrinsic); err != nil {
		return fmt.Errorf("storage: put extrinsic %s: %w", r.ID, err)
	}
	return nil
}

// Fetch reads the record stored under id.
func (e *Environment) Fetch(ctx context.Context, id domain.ID) (*domain.Record, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.usable() {
		return nil, ErrClosed
	}

	in, inErr := e.intrinsic.Get(ctx, id.Bytes())
	if inErr != nil && !errors.Is(inErr, ErrKeyNotFound) {
		return nil, fmt.Errorf("storage: fetch intrinsic %s: %w", id, inErr)
	}
	ex, exErr := e.extrinsic.Get(ctx, id.Bytes())
	if exErr != nil && !errors.Is(exErr, ErrKeyNotFound) {
		return nil, fmt.Errorf("storage: fetch extrinsic %s: %w", id, exErr)
	}

	switch {
	case inErr != nil && exErr != nil:
		return nil, ErrKeyNotFound
	case inErr != nil || exErr != nil:
		e.logger.Warn("record half missing",
			"id", id.String(),
			"intrinsic", inErr == nil,
			"extrinsic", exErr == nil)
		return nil, fmt.Errorf("%w: %s", ErrInconsistent, id)
	}

	return &domain.Record{ID: id, Intrinsic: in, Extrinsic: ex}, nil
}

// Remove deletes both halves of the record stored under id.
func (e *Environment) Remove(ctx context.Context, id domain.ID) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.usable() {
		return ErrClosed
	}
	return errors.Join(
		e.extrinsic.Delete(ctx, id.Bytes()),
		e.intrinsic.Delete(ctx, id.Bytes()),
	)
}

// RegisterMetrics registers the size gauges of both databases.
func (e *Environment) RegisterMetrics(reg prometheus.Registerer) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.usable() {
		return ErrClosed
	}
	if err := e.intrinsic.RegisterMetrics(reg); err != nil {
		return err
	}
	return e.extrinsic.RegisterMetrics(reg)
}

// Close closes both databases once no operation is running.
func (e *Environment) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.usable() {
		return ErrClosed
	}
	e.closed = true
	return errors.Join(e.extrinsic.Close(), e.intrinsic.Close())
}

// usable reports whether the databases are open. Callers hold mu.
func (e *Environment) usable() bool {
	return e.intrinsic != nil && !e.closed
}
