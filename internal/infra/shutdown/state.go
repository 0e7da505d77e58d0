package shutdown

import (
	"context"
	"sync/atomic"
)

// ShutdownState is the process-wide lifecycle flag.
type ShutdownState int32

const (
	// Running is the initial state.
	Running ShutdownState = iota
	// ShutdownRequested is terminal.
	ShutdownRequested
)

func (s ShutdownState) String() string {
	if s == ShutdownRequested {
		return "shutdown_requested"
	}
	return "running"
}

// State holds a ShutdownState that moves from Running to ShutdownRequested
// at most once. Readers that observe ShutdownRequested also observe every
// write the requester made before calling Request.
type State struct {
	v    atomic.Int32
	done chan struct{}
}

// NewState returns a State in Running.
func NewState() *State {
	return &State{done: make(chan struct{})}
}

var globalState = NewState()

// Global returns the process-wide state.
func Global() *State {
	return globalState
}

// Request moves the state to ShutdownRequested. Only the call that performs
// the transition returns true.
func (s *State) Request() bool {
	if !s.v.CompareAndSwap(int32(Running), int32(ShutdownRequested)) {
		return false
	}
	close(s.done)
	return true
}

// Load returns the current state.
func (s *State) Load() ShutdownState {
	return ShutdownState(s.v.Load())
}

// Requested reports whether shutdown has been requested.
func (s *State) Requested() bool {
	return s.Load() == ShutdownRequested
}

// Done returns a channel closed when shutdown is requested.
func (s *State) Done() <-chan struct{} {
	return s.done
}

// Context returns a copy of parent that is cancelled once s moves to
// ShutdownRequested.
func (s *State) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-s.done:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
