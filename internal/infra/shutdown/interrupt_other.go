//go:build !unix

package shutdown

// Interrupt is not available here: the process cannot deliver a lifecycle
// signal to itself.
func Interrupt() error {
	return ErrSelfSignalUnsupported
}
