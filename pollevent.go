package asyncrt

// pollEventKind tags which of the three event sources produced a
// pollEvent delivered over the runtime's single inbound channel.
type pollEventKind uint8

const (
	// pollThreadpool reports a worker task's completion.
	pollThreadpool pollEventKind = iota
	// pollReadiness reports a registered descriptor becoming ready.
	pollReadiness
	// pollTimeoutTick reports the reactor's poll returning with nothing
	// ready, meaning at least one timer is now due.
	pollTimeoutTick
)

// pollEvent is the single message shape the reactor thread and the
// worker pool use to report back to the event loop. Exactly one kind
// is ever active per delivery; token and result are meaningful only
// for pollThreadpool and pollReadiness.
type pollEvent struct {
	kind   pollEventKind
	token  IdentityToken
	result IOResult
	worker int // valid only for pollThreadpool: which worker slot freed up
}
