//go:build !linux && !darwin

package selector

import "time"

// unsupportedSelector satisfies the interface on platforms we don't
// back with a real readiness-polling syscall.
type unsupportedSelector struct{}

// New returns ErrUnsupported on platforms with no Selector backend.
func New() (Selector, error) {
	return nil, ErrUnsupported
}

func (unsupportedSelector) Register(int, uint64, Interest) error { return ErrUnsupported }
func (unsupportedSelector) Select([]Event, *time.Duration) (int, error) {
	return 0, ErrUnsupported
}
func (unsupportedSelector) CloseLoop() error { return ErrUnsupported }
func (unsupportedSelector) Close() error     { return ErrUnsupported }
