package selector

import (
	"sync"
	"time"
)

// Fake is an in-memory Selector for deterministic tests. Events are
// injected with Push rather than produced by a real kernel, and Select
// blocks until either an injected event is available, the timeout
// elapses, or CloseLoop is called.
type Fake struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Event
	woken   bool
	closed  bool
	pending map[uint64]int // fd -> registered token, for Register bookkeeping
}

// NewFake returns a ready-to-use Fake selector.
func NewFake() *Fake {
	f := &Fake{pending: make(map[uint64]int)}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Push injects an event as if the kernel had reported it, waking any
// blocked Select call.
func (f *Fake) Push(ev Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, ev)
	f.cond.Broadcast()
}

func (f *Fake) Register(fd int, token uint64, _ Interest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	f.pending[uint64(fd)] = int(token)
	return nil
}

func (f *Fake) Select(events []Event, timeout *time.Duration) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 && !f.woken && !f.closed {
		if timeout == nil {
			for len(f.queue) == 0 && !f.woken && !f.closed {
				f.cond.Wait()
			}
		} else {
			deadline := time.Now().Add(*timeout)
			for len(f.queue) == 0 && !f.woken && !f.closed && time.Now().Before(deadline) {
				f.waitUntil(deadline)
			}
		}
	}

	if f.closed {
		return 0, ErrClosed
	}
	if len(f.queue) == 0 {
		if f.woken {
			f.woken = false
			return 0, ErrInterrupted
		}
		return 0, nil
	}

	n := copy(events, f.queue)
	f.queue = f.queue[n:]
	return n, nil
}

// waitUntil wakes periodically so Select can re-check the deadline;
// tests keep timeouts short so this never busy-loops for long.
func (f *Fake) waitUntil(deadline time.Time) {
	timer := time.AfterFunc(time.Until(deadline), func() {
		f.mu.Lock()
		f.cond.Broadcast()
		f.mu.Unlock()
	})
	defer timer.Stop()
	f.cond.Wait()
}

func (f *Fake) CloseLoop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.woken = true
	f.cond.Broadcast()
	return nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.cond.Broadcast()
	return nil
}
