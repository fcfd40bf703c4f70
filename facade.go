package asyncrt

import "sync/atomic"

// active holds the one Runtime currently executing Run in this
// process, so the package-level free functions (SetTimeout, ReadFile,
// Compute, HTTPGet) know which Runtime to operate on without the
// caller having to thread a *Runtime through every callback. It is set
// at Run entry and cleared once shutdown completes.
var active atomic.Pointer[Runtime]

// Run constructs a Runtime, invokes seed with it to register the
// initial work, then drives the event loop until every pending
// operation completes or the Runtime is closed. Only one Runtime may
// be active in a process at a time; a nested or concurrent call to Run
// returns ErrRuntimeAlreadyRunning without invoking seed.
func Run(seed func(*Runtime), opts ...RuntimeOption) error {
	cfg, err := resolveRuntimeOptions(opts)
	if err != nil {
		return err
	}
	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	if !active.CompareAndSwap(nil, rt) {
		return ErrRuntimeAlreadyRunning
	}
	defer active.CompareAndSwap(rt, nil)

	rt.run(seed)
	return nil
}

// currentRuntime returns the process's active Runtime, panicking with
// ErrNoActiveRuntime if none is running. Every package-level facade
// function below is a thin wrapper around this plus the matching
// Runtime method; they only make sense called from a callback running
// on that Runtime's own goroutine.
func currentRuntime() *Runtime {
	rt := active.Load()
	if rt == nil {
		panic(ErrNoActiveRuntime)
	}
	return rt
}

// SetTimeout schedules cb on the active Runtime. See [Runtime.SetTimeout].
func SetTimeout(ms uint64, cb Callback) {
	currentRuntime().SetTimeout(ms, cb)
}

// ReadFile reads a file on the active Runtime. See [Runtime.ReadFile].
func ReadFile(path string, cb Callback) {
	currentRuntime().ReadFile(path, cb)
}

// Compute runs a Fibonacci computation on the active Runtime. See [Runtime.Compute].
func Compute(n uint64, cb Callback) {
	currentRuntime().Compute(n, cb)
}

// HTTPGet issues an HTTP GET on the active Runtime. See [Runtime.HTTPGet].
func HTTPGet(url string, delayMS uint32, cb Callback) {
	currentRuntime().HTTPGet(url, delayMS, cb)
}

// Close tears down the active Runtime immediately. See [Runtime.Close].
func Close() {
	currentRuntime().Close()
}
