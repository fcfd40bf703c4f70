package asyncrt

// IdentityToken uniquely identifies one pending callback registration,
// whether it awaits a timer, a worker task, or descriptor readiness.
// The zero value is reserved and never issued to a caller.
type IdentityToken uint64

// Callback is invoked exactly once with the outcome of the operation
// it was registered against.
type Callback func(IOResult)

// registry owns the mapping from IdentityToken to the Callback awaiting
// its result, for every pending operation; timers keep their deadlines
// in the timer wheel but resolve their callback through this same map.
// It is touched only from the event
// loop's own goroutine, so it needs no internal locking: reactor and
// worker threads report completions by token over a channel, never by
// reaching into this map directly.
type registry struct {
	callbacks map[IdentityToken]Callback
}

func newRegistry() *registry {
	return &registry{
		callbacks: make(map[IdentityToken]Callback),
	}
}

// put stores cb under the already-allocated token tok.
func (r *registry) put(tok IdentityToken, cb Callback) {
	r.callbacks[tok] = cb
}

// has reports whether tok currently has a callback registered.
func (r *registry) has(tok IdentityToken) bool {
	_, ok := r.callbacks[tok]
	return ok
}

// take removes and returns the callback for tok, reporting whether it
// was present. A completion referencing an unknown token (e.g. one
// already delivered) is reported via ok=false rather than panicking.
func (r *registry) take(tok IdentityToken) (Callback, bool) {
	cb, ok := r.callbacks[tok]
	if ok {
		delete(r.callbacks, tok)
	}
	return cb, ok
}

// len reports the number of callbacks currently awaiting completion.
func (r *registry) len() int {
	return len(r.callbacks)
}
