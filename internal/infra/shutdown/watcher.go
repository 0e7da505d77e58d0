package shutdown

import (
	"os"
	"sync"
	"syscall"
)

// Phase is the watcher's lifecycle position.
type Phase int32

const (
	// AwaitingSignal is the initial phase.
	AwaitingSignal Phase = iota
	// SignalReceived is terminal: a lifecycle signal arrived.
	SignalReceived
	// Failed is terminal: the wait could not be set up or completed.
	Failed
)

func (p Phase) String() string {
	switch p {
	case AwaitingSignal:
		return "awaiting_signal"
	case SignalReceived:
		return "signal_received"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Watcher blocks its caller until a lifecycle signal is delivered. A Watcher
// completes at most once.
type Watcher struct {
	mask *Mask

	mu     sync.Mutex
	used   bool
	phase  Phase
	signal os.Signal
	err    error
}

// NewWatcher returns a watcher bound to mask. A nil mask means DefaultMask.
func NewWatcher(mask *Mask) *Watcher {
	if mask == nil {
		mask = DefaultMask()
	}
	return &Watcher{mask: mask}
}

// AwaitShutdownSignal blocks until SIGHUP, SIGINT or SIGTERM is delivered to
// the process, using the default mask. It is meant to be called once, from a
// goroutine that does nothing else.
func AwaitShutdownSignal() (os.Signal, error) {
	return NewWatcher(nil).Await()
}

// Await blocks until a lifecycle signal is delivered and returns it.
//
// It fails without blocking if the mask already carries an OS error. A failed
// Await leaves any installed mask in place.
func (w *Watcher) Await() (os.Signal, error) {
	w.mu.Lock()
	if w.used {
		w.mu.Unlock()
		return nil, &SignalError{Op: "await", Errno: syscall.EALREADY}
	}
	w.used = true
	w.mu.Unlock()

	if err := w.mask.Err(); err != nil {
		return nil, w.fail("precheck", errnoOf(err), false)
	}

	set, err := emptySignalSet()
	if err != nil {
		return nil, w.fail("emptyset", errnoOf(err), true)
	}
	for _, sig := range LifecycleSignals() {
		if err := set.Add(sig); err != nil {
			return nil, w.fail("addset", errnoOf(err), true)
		}
	}

	ch, err := w.mask.block(set)
	if err != nil {
		return nil, w.fail("block", errnoOf(err), false)
	}

	sig, ok := <-ch
	if !ok {
		return nil, w.fail("wait", syscall.EINTR, true)
	}

	w.mu.Lock()
	w.phase = SignalReceived
	w.signal = sig
	w.mu.Unlock()
	return sig, nil
}

// Phase returns the current phase.
func (w *Watcher) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// Signal returns the delivered signal, or nil.
func (w *Watcher) Signal() os.Signal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.signal
}

// Err returns the failure of a completed Await, or nil.
func (w *Watcher) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Watcher) fail(op string, errno syscall.Errno, record bool) error {
	if record {
		w.mask.record(errno)
	}
	err := &SignalError{Op: op, Errno: errno}
	w.mu.Lock()
	w.phase = Failed
	w.err = err
	w.mu.Unlock()
	return err
}
