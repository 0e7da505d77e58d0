package shutdown

import (
	"os"
	"syscall"
)

// LifecycleSignals returns hang-up, interrupt and terminate-request, in that
// order. All three are treated as the same shutdown trigger.
func LifecycleSignals() []os.Signal {
	return []os.Signal{sigHangup, sigInterrupt, sigTerminate}
}

// IsLifecycleSignal reports whether sig is one of LifecycleSignals.
func IsLifecycleSignal(sig os.Signal) bool {
	for _, s := range LifecycleSignals() {
		if s == sig {
			return true
		}
	}
	return false
}

// SignalSet is an ordered set of signals to capture.
type SignalSet struct {
	sigs []os.Signal
}

// emptySignalSet returns a set with no members.
func emptySignalSet() (*SignalSet, error) {
	return &SignalSet{sigs: make([]os.Signal, 0, 3)}, nil
}

// Add adds sig to the set. Adding a member twice is a no-op.
func (s *SignalSet) Add(sig os.Signal) error {
	if !validSignal(sig) {
		return syscall.EINVAL
	}
	if s.Contains(sig) {
		return nil
	}
	s.sigs = append(s.sigs, sig)
	return nil
}

// Contains reports whether sig is a member.
func (s *SignalSet) Contains(sig os.Signal) bool {
	for _, m := range s.sigs {
		if m == sig {
			return true
		}
	}
	return false
}

// Signals returns a copy of the members.
func (s *SignalSet) Signals() []os.Signal {
	out := make([]os.Signal, len(s.sigs))
	copy(out, s.sigs)
	return out
}

// Len returns the number of members.
func (s *SignalSet) Len() int {
	return len(s.sigs)
}

func validSignal(sig os.Signal) bool {
	if sig == nil {
		return false
	}
	if n, ok := sig.(syscall.Signal); ok {
		return n > 0
	}
	return sig == os.Interrupt
}
