package shutdown

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrSignalSetup is matched by every SignalError.
var ErrSignalSetup = errors.New("could not establish or complete the shutdown signal wait")

// ErrSelfSignalUnsupported is returned by Interrupt where a process cannot
// deliver a lifecycle signal to itself.
var ErrSelfSignalUnsupported = errors.New("shutdown: self-signaling is not supported on this platform")

// SignalError is the single failure kind of the watcher. Op names the
// sub-step that failed; callers should branch on Errno only.
type SignalError struct {
	Op    string
	Errno syscall.Errno
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("shutdown: %s (%s): %v", ErrSignalSetup.Error(), e.Op, e.Errno)
}

// Unwrap exposes the OS error code to errors.As and errors.Is.
func (e *SignalError) Unwrap() error {
	return e.Errno
}

// Is reports ErrSignalSetup equivalence.
func (e *SignalError) Is(target error) bool {
	return target == ErrSignalSetup
}

// errnoOf extracts an OS error code from err, falling back to EINVAL.
func errnoOf(err error) syscall.Errno {
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return errno
	}
	return syscall.EINVAL
}
