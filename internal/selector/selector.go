// Package selector wraps the platform readiness-polling syscall
// (epoll on Linux, kqueue on Darwin) behind a single small interface.
//
// A Selector is owned by exactly one goroutine, the reactor thread: no
// method here needs to be safe for concurrent calls against itself,
// except CloseLoop, which other goroutines use to unblock a Select
// that is currently parked in the kernel.
package selector

import (
	"errors"
	"time"
)

// Interest is a bitmask of the readiness conditions a registration
// cares about.
type Interest uint32

const (
	// InterestRead fires when the descriptor has data available.
	InterestRead Interest = 1 << iota
	// InterestWrite fires when the descriptor can accept a write
	// without blocking.
	InterestWrite
)

// Event describes one readiness notification returned by Select.
type Event struct {
	// Token is the value supplied at Register time, letting the
	// caller map the event back to whatever it registered.
	Token uint64
	// Readable reports whether the descriptor is ready for reading.
	Readable bool
	// Writable reports whether the descriptor is ready for writing.
	Writable bool
	// Errored reports an error or hangup condition on the descriptor.
	Errored bool
}

var (
	// ErrClosed is returned by any call made after Close.
	ErrClosed = errors.New("selector: closed")
	// ErrUnsupported is returned by platforms with no backing
	// implementation (e.g. windows).
	ErrUnsupported = errors.New("selector: unsupported platform")
	// ErrInterrupted is returned by Select when it was woken up by
	// CloseLoop rather than by a registered descriptor or a timeout.
	ErrInterrupted = errors.New("selector: interrupted")
)

// Selector is the external contract the reactor thread polls through.
// Registrations are one-shot: after a descriptor reports readiness it
// is automatically deregistered from the kernel side, and must be
// re-registered by the caller to receive further notifications. This
// mirrors EPOLLONESHOT and keeps the reactor from being re-woken for a
// descriptor whose callback has not yet had a chance to drain it.
type Selector interface {
	// Register arms fd for the given interests, tagged with token.
	// token is returned verbatim on the resulting Event.
	Register(fd int, token uint64, interests Interest) error

	// Select blocks until at least one registered descriptor becomes
	// ready, timeout elapses, or CloseLoop is called concurrently.
	// A nil timeout blocks indefinitely. Ready events are appended
	// into events (starting at index 0) and the count is returned.
	// Returns ErrInterrupted, with n==0, when unblocked by CloseLoop.
	Select(events []Event, timeout *time.Duration) (n int, err error)

	// CloseLoop unblocks a concurrent or future Select call without
	// otherwise disturbing the selector. Safe to call from any
	// goroutine, any number of times.
	CloseLoop() error

	// Close releases the underlying kernel resources. Not safe to
	// call concurrently with Select.
	Close() error
}
