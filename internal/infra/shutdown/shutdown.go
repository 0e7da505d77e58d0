package shutdown

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/yndnr/mouse-go/internal/telemetry/logger"
)

// Hook tears down one component.
type Hook func(ctx context.Context) error

// Metrics receives lifecycle observations from the handler.
type Metrics interface {
	ObserveSignal(sig os.Signal)
	ObserveHook(name string, elapsed time.Duration, err error)
}

type namedHook struct {
	name string
	fn   Hook
}

type watchResult struct {
	sig os.Signal
	err error
}

// Handler runs the watcher on a dedicated thread, publishes the state
// transition and executes teardown hooks.
type Handler struct {
	timeout time.Duration
	watcher *Watcher
	state   *State
	log     logger.Logger
	metrics Metrics

	hooks []namedHook
	mu    sync.Mutex

	startOnce sync.Once
	result    chan watchResult
	done      chan struct{}

	waitOnce sync.Once
	waitErr  error
}

// Option configures a Handler.
type Option func(*Handler)

// WithWatcher sets the watcher. Default: a watcher on DefaultMask.
func WithWatcher(w *Watcher) Option {
	return func(h *Handler) {
		h.watcher = w
	}
}

// WithState sets the state to publish to. Default: Global.
func WithState(s *State) Option {
	return func(h *Handler) {
		h.state = s
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		h.log = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// NewHandler creates a new shutdown handler. timeout bounds the whole
// teardown sequence.
func NewHandler(timeout time.Duration, opts ...Option) *Handler {
	h := &Handler{
		timeout: timeout,
		hooks:   make([]namedHook, 0),
		result:  make(chan watchResult, 1),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.watcher == nil {
		h.watcher = NewWatcher(nil)
	}
	if h.state == nil {
		h.state = Global()
	}
	if h.log == nil {
		h.log = logger.Default()
	}
	return h
}

// OnShutdown registers a shutdown hook.
// Hooks are called in reverse order of registration.
func (h *Handler) OnShutdown(name string, hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, namedHook{name: name, fn: hook})
}

// Start launches the watcher on its own OS thread. Calling Start more than
// once has no effect. Wait calls Start if needed.
func (h *Handler) Start() {
	h.startOnce.Do(func() {
		go func() {
			// The thread is never unlocked; it exits with the goroutine.
			runtime.LockOSThread()
			sig, err := h.watcher.Await()
			h.result <- watchResult{sig: sig, err: err}
		}()
	})
}

// Wait blocks until a lifecycle signal arrives, then requests shutdown and
// runs the hooks. A watcher failure is returned as is and leaves the state
// Running; the caller should treat it as a startup fault. Later calls block
// until the first one finishes and return its result.
func (h *Handler) Wait() error {
	h.waitOnce.Do(func() {
		h.waitErr = h.wait()
	})
	return h.waitErr
}

func (h *Handler) wait() error {
	h.Start()

	res := <-h.result
	if res.err != nil {
		h.log.Error("shutdown signal wait failed", "error", res.err)
		return res.err
	}

	if h.metrics != nil {
		h.metrics.ObserveSignal(res.sig)
	}
	if h.state.Request() {
		h.log.Info("shutdown requested", "signal", res.sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.mu.Lock()
	hooks := make([]namedHook, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	var lastErr error
	for i := len(hooks) - 1; i >= 0; i-- {
		start := time.Now()
		err := hooks[i].fn(ctx)
		elapsed := time.Since(start)
		if h.metrics != nil {
			h.metrics.ObserveHook(hooks[i].name, elapsed, err)
		}
		if err != nil {
			h.log.Error("shutdown hook failed", "hook", hooks[i].name, "error", err)
			lastErr = err
			continue
		}
		h.log.Debug("shutdown hook done", "hook", hooks[i].name, "elapsed", elapsed)
	}

	close(h.done)
	return lastErr
}

// State returns the state the handler publishes to.
func (h *Handler) State() *State {
	return h.state
}

// Done returns a channel that closes when shutdown is complete.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
