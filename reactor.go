package asyncrt

import (
	"errors"
	"sync"
	"time"

	"github.com/go-asyncrt/asyncrt/internal/selector"
)

// reactor owns a Selector and runs its poll loop on its own goroutine,
// reporting readiness and timeout ticks back to the event loop over a
// shared channel. It never touches loop state directly.
type reactor struct {
	sel    selector.Selector
	out    chan<- pollEvent
	logger Logger

	mu      sync.Mutex
	timeout *time.Duration // read fresh at the top of every poll cycle

	wg sync.WaitGroup
}

func newReactor(sel selector.Selector, out chan<- pollEvent, logger Logger) *reactor {
	return &reactor{sel: sel, out: out, logger: logger}
}

// setTimeout installs the delay the next poll cycle should block for.
// A nil timeout blocks indefinitely; this is how the event loop
// communicates "no pending timers" versus "wake me in d".
func (r *reactor) setTimeout(d *time.Duration) {
	r.mu.Lock()
	r.timeout = d
	r.mu.Unlock()
}

// register arms fd for the given readiness interests, tagged with tok
// so the resulting event can be matched back to its callback.
func (r *reactor) register(fd int, tok IdentityToken, interests selector.Interest) error {
	return r.sel.Register(fd, uint64(tok), interests)
}

// start launches the reactor's poll loop.
func (r *reactor) start() {
	r.wg.Add(1)
	go r.run()
}

func (r *reactor) run() {
	defer r.wg.Done()
	buf := make([]selector.Event, 64)
	for {
		r.mu.Lock()
		timeout := r.timeout
		r.mu.Unlock()

		n, err := r.sel.Select(buf, timeout)
		if err != nil {
			if errors.Is(err, selector.ErrInterrupted) {
				// CloseLoop was called: this is an ordinary shutdown
				// request, not a failure.
				return
			}
			r.logger.Error("reactor poll failed, exiting", err)
			return
		}

		if n == 0 {
			r.out <- pollEvent{kind: pollTimeoutTick}
			continue
		}

		for i := 0; i < n; i++ {
			ev := buf[i]
			r.out <- pollEvent{
				kind:  pollReadiness,
				token: IdentityToken(ev.Token),
			}
		}
	}
}

// stop unblocks the reactor's poll loop, waits for it to exit, and
// releases the underlying selector. Must be called exactly once, after
// no further registrations will be made.
func (r *reactor) stop() error {
	if err := r.sel.CloseLoop(); err != nil {
		return err
	}
	r.wg.Wait()
	return r.sel.Close()
}
