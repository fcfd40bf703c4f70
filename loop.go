package asyncrt

import (
	"time"

	"github.com/go-asyncrt/asyncrt/internal/selector"
)

// Runtime is the event loop: the single goroutine on which every
// registered callback executes, one at a time. Obtain one by calling
// [Run]; there is no exported constructor, since a Runtime is only
// ever meaningful while its own loop is driving it.
type Runtime struct {
	registry     *registry
	timers       *timerWheel
	alloc        *identityAllocator
	workers      *workerPool
	reactor      *reactor
	inbound      chan pollEvent
	stopCh       chan struct{}
	pending      int
	state        *lifecycle
	logger       Logger
	httpDialAddr string
}

func newRuntime(cfg *runtimeOptions) (*Runtime, error) {
	sel, err := cfg.newSelector()
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		registry:     newRegistry(),
		timers:       newTimerWheel(),
		alloc:        newIdentityAllocator(),
		inbound:      make(chan pollEvent, 64),
		stopCh:       make(chan struct{}),
		state:        newLifecycle(),
		logger:       cfg.logger,
		httpDialAddr: cfg.httpDialAddr,
	}
	rt.workers = newWorkerPool(cfg.workerCount, rt.inbound, cfg.logger)
	rt.reactor = newReactor(sel, rt.inbound, cfg.logger)
	return rt, nil
}

// allocateToken draws the next free IdentityToken, checked against both
// the callback registry and the timer wheel so the two never collide.
func (rt *Runtime) allocateToken() IdentityToken {
	return rt.alloc.allocate(func(tok IdentityToken) bool {
		return rt.registry.has(tok) || rt.timers.byToken[tok] != nil
	}, rt.registry.len()+rt.timers.len())
}

// registerPending allocates a token for cb, stores it in the callback
// registry, and increments the outstanding-operation counter.
func (rt *Runtime) registerPending(cb Callback) IdentityToken {
	tok := rt.allocateToken()
	rt.registry.put(tok, cb)
	rt.pending++
	return tok
}

// SetTimeout schedules cb to run no earlier than ms milliseconds from
// now. There is no user-visible way to cancel a scheduled timer: the
// token backing it is an internal bookkeeping detail of the registry
// and timer wheel, not part of the public API.
func (rt *Runtime) SetTimeout(ms uint64, cb Callback) {
	tok := rt.registerPending(cb)
	rt.timers.insert(tok, time.Now().Add(time.Duration(ms)*time.Millisecond))
}

// ReadFile asynchronously reads the named file on the worker pool,
// invoking cb with its contents as a Text result, or an Undefined
// result if the read failed.
func (rt *Runtime) ReadFile(path string, cb Callback) {
	tok := rt.registerPending(cb)
	rt.workers.submit(tok, WorkerTask{Run: func() IOResult { return readFileTask(path) }})
}

// Compute asynchronously computes the nth Fibonacci number on the
// worker pool, invoking cb with the result as an Int.
func (rt *Runtime) Compute(n uint64, cb Callback) {
	tok := rt.registerPending(cb)
	rt.workers.submit(tok, WorkerTask{Run: func() IOResult { return Int(fibonacci(n)) }})
}

// watchReadable arms fd for read readiness, invoking cb (with an
// Undefined result — the callback is responsible for reading fd
// itself) the next time it becomes readable. Used internally by
// HTTPGet; exported operations that need raw descriptor readiness can
// build on the same primitive.
func (rt *Runtime) watchReadable(fd int, cb Callback) error {
	tok := rt.registerPending(cb)
	if err := rt.reactor.register(fd, tok, selector.InterestRead); err != nil {
		rt.registry.take(tok)
		rt.pending--
		return err
	}
	return nil
}

// Close stops the event loop without waiting for pending operations to
// complete: callbacks still pending are never invoked, and worker tasks
// already running finish before Run returns. Safe to call from any
// goroutine, including one other than the runtime's own; idempotent.
func (rt *Runtime) Close() {
	if rt.state.compareAndSwap(StateRunning, StateClosing) ||
		rt.state.compareAndSwap(StateIdle, StateClosing) {
		close(rt.stopCh)
	}
}

// run drives the event loop until every pending operation has
// completed or Close is called, then tears down the reactor and
// worker pool. Returns once shutdown is complete.
func (rt *Runtime) run(seed func(*Runtime)) {
	rt.state.store(StateRunning)

	seed(rt)
	rt.drainDue()
	// Start the reactor only once the seed's timers exist, so its first
	// poll already blocks for the nearest deadline.
	rt.armReactorTimeout()
	rt.reactor.start()

loop:
	for rt.pending > 0 {
		rt.armReactorTimeout()
		select {
		case ev := <-rt.inbound:
			rt.handleEvent(ev)
		case <-rt.stopCh:
			break loop
		}
		rt.drainDue()
	}

	rt.state.compareAndSwap(StateRunning, StateClosing)
	rt.teardown()
}

// drainDue invokes every timer whose deadline has passed as of now.
// Called after seeding and after every inbound event, since either can
// bring a new timer due or leave an existing one overdue.
func (rt *Runtime) drainDue() {
	now := time.Now()
	for _, e := range rt.timers.popExpired(now) {
		cb, ok := rt.registry.take(e.token)
		if !ok {
			continue
		}
		rt.safeInvoke(cb, Undefined())
		rt.pending--
	}
}

// armReactorTimeout tells the reactor how long to block its next poll
// for, based on the nearest pending timer deadline.
func (rt *Runtime) armReactorTimeout() {
	d, ok := rt.timers.nextDelay(time.Now())
	if !ok {
		rt.reactor.setTimeout(nil)
		return
	}
	if d < 0 {
		d = 0
	}
	rt.reactor.setTimeout(&d)
}

// handleEvent processes exactly one message delivered over the
// inbound channel by either the reactor or the worker pool.
func (rt *Runtime) handleEvent(ev pollEvent) {
	switch ev.kind {
	case pollThreadpool:
		rt.workers.release(ev.worker)
		cb, ok := rt.registry.take(ev.token)
		if ok {
			rt.safeInvoke(cb, ev.result)
			rt.pending--
		}
	case pollReadiness:
		cb, ok := rt.registry.take(ev.token)
		// Readiness always decrements the pending count immediately on
		// receipt, before the callback runs: a readiness callback is
		// free to re-register the same descriptor (incrementing
		// pending again) and should not be double-counted against the
		// notification that woke it.
		rt.pending--
		if ok {
			rt.safeInvoke(cb, Undefined())
		}
	case pollTimeoutTick:
		// No token: the reactor returned because its poll timed out,
		// meaning a timer is now due. drainDue, called right after
		// handleEvent returns, picks it up.
	}
}

// safeInvoke runs cb with panic containment: a panicking callback is
// logged and otherwise ignored, rather than taking down the loop.
func (rt *Runtime) safeInvoke(cb Callback, result IOResult) {
	defer func() {
		if r := recover(); r != nil {
			rt.logger.Error("callback panicked", &PanicError{Value: r})
		}
	}()
	cb(result)
}

// teardown stops the worker pool and reactor and marks the runtime
// closed. Only ever called once, from run's own goroutine.
func (rt *Runtime) teardown() {
	rt.workers.shutdown()
	if err := rt.reactor.stop(); err != nil {
		rt.logger.Error("reactor shutdown failed", err)
	}
	rt.state.store(StateClosed)
}
