package shutdown

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Source delivers OS signals to a channel. It is the seam between the mask
// and os/signal.
type Source interface {
	Notify(c chan<- os.Signal, sig ...os.Signal) error
}

// notifySource routes signals through os/signal.
type notifySource struct{}

func (notifySource) Notify(c chan<- os.Signal, sig ...os.Signal) error {
	signal.Notify(c, sig...)
	return nil
}

// Mask is the lifecycle signal mask: the one place that changes how the
// process disposes of the lifecycle signals.
//
// Once installed the mask stays installed for the life of the process.
// Captured signals queue on the mask's channel instead of running the
// default handler. The mask never uninstalls itself, including after a
// failed wait.
type Mask struct {
	mu     sync.Mutex
	source Source
	ch     chan os.Signal
	set    *SignalSet
	errno  syscall.Errno
}

// NewMask returns an uninstalled mask. A nil source uses os/signal.
func NewMask(source Source) *Mask {
	if source == nil {
		source = notifySource{}
	}
	return &Mask{source: source}
}

var defaultMask = NewMask(nil)

// DefaultMask returns the process-wide lifecycle signal mask.
func DefaultMask() *Mask {
	return defaultMask
}

// Err returns the last OS error recorded on the mask, or nil. The mask never
// clears it.
func (m *Mask) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errno == 0 {
		return nil
	}
	return m.errno
}

// SetErr records errno as the mask's pending OS error. A watcher started
// while an error is pending fails without touching signal disposition.
func (m *Mask) SetErr(errno syscall.Errno) {
	m.mu.Lock()
	m.errno = errno
	m.mu.Unlock()
}

// Installed reports whether the mask is capturing signals.
func (m *Mask) Installed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ch != nil
}

// block starts capturing the members of set and returns the channel they
// queue on. Installing the same set again returns the existing channel.
func (m *Mask) block(set *SignalSet) (<-chan os.Signal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ch != nil {
		if !sameMembers(m.set, set) {
			m.errno = syscall.EBUSY
			return nil, syscall.EBUSY
		}
		return m.ch, nil
	}

	ch := make(chan os.Signal, set.Len())
	if err := m.source.Notify(ch, set.Signals()...); err != nil {
		errno := errnoOf(err)
		m.errno = errno
		return nil, errno
	}
	m.ch = ch
	m.set = set
	return ch, nil
}

// record stores errno as the mask's last error.
func (m *Mask) record(errno syscall.Errno) {
	m.mu.Lock()
	m.errno = errno
	m.mu.Unlock()
}

func sameMembers(a, b *SignalSet) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, sig := range b.sigs {
		if !a.Contains(sig) {
			return false
		}
	}
	return true
}
