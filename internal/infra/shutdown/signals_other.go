//go:build !unix

package shutdown

import (
	"os"
	"syscall"
)

var (
	sigHangup    = syscall.SIGHUP
	sigInterrupt = os.Interrupt
	sigTerminate = syscall.SIGTERM
)
