//go:build unix

package shutdown

import "golang.org/x/sys/unix"

var (
	sigHangup    = unix.SIGHUP
	sigInterrupt = unix.SIGINT
	sigTerminate = unix.SIGTERM
)
