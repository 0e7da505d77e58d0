package shutdown

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s.Load() != Running {
		t.Errorf("initial state = %v, want %v", s.Load(), Running)
	}
	if s.Requested() {
		t.Error("new state should not be requested")
	}
	select {
	case <-s.Done():
		t.Error("Done channel should not be closed initially")
	default:
	}
}

func TestState_RequestOnce(t *testing.T) {
	s := NewState()

	if !s.Request() {
		t.Fatal("first Request() should perform the transition")
	}
	if s.Request() {
		t.Error("second Request() should not perform the transition")
	}
	if s.Load() != ShutdownRequested {
		t.Errorf("state = %v, want %v", s.Load(), ShutdownRequested)
	}

	select {
	case <-s.Done():
	default:
		t.Error("Done channel should be closed after Request")
	}
}

func TestState_ConcurrentRequest(t *testing.T) {
	s := NewState()

	var wg sync.WaitGroup
	var writers atomic.Int32
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Request() {
				writers.Add(1)
			}
		}()
	}
	wg.Wait()

	if writers.Load() != 1 {
		t.Errorf("%d goroutines performed the transition, want 1", writers.Load())
	}
}

func TestState_ObserversNeverSeeRunningAgain(t *testing.T) {
	s := NewState()

	var payload atomic.Int64
	var wg sync.WaitGroup
	var regressions atomic.Int32

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen := false
			deadline := time.Now().Add(200 * time.Millisecond)
			for time.Now().Before(deadline) {
				if s.Requested() {
					if payload.Load() != 42 {
						regressions.Add(1)
					}
					seen = true
				} else if seen {
					regressions.Add(1)
				}
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	payload.Store(42)
	s.Request()
	wg.Wait()

	if regressions.Load() != 0 {
		t.Errorf("observers saw %d ordering violations", regressions.Load())
	}
}

func TestGlobal(t *testing.T) {
	if Global() != Global() {
		t.Error("Global() should return the same instance")
	}
}

func TestState_Context(t *testing.T) {
	s := NewState()
	ctx, cancel := s.Context(context.Background())
	defer cancel()

	select {
	case <-ctx.Done():
		t.Fatal("context cancelled before shutdown was requested")
	default:
	}

	s.Request()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled after shutdown was requested")
	}
}

func TestState_ContextParentCancel(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := NewState().Context(parent)
	defer cancel()

	cancelParent()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled with its parent")
	}
}

func TestShutdownState_String(t *testing.T) {
	if Running.String() != "running" {
		t.Errorf("Running.String() = %q", Running.String())
	}
	if ShutdownRequested.String() != "shutdown_requested" {
		t.Errorf("ShutdownRequested.String() = %q", ShutdownRequested.String())
	}
}
