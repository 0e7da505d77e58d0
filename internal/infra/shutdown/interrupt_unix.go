//go:build unix

package shutdown

import "golang.org/x/sys/unix"

// Interrupt delivers SIGTERM to the current process. It is the supported way
// to unblock a pending Await early.
func Interrupt() error {
	return unix.Kill(unix.Getpid(), unix.SIGTERM)
}
