package asyncrt

// Kind identifies which variant of an IOResult is populated.
type Kind uint8

const (
	// KindUndefined carries no payload. Used for timer fires, readiness
	// notifications (the registered callback is responsible for reading
	// the now-ready stream itself) and failed worker tasks.
	KindUndefined Kind = iota
	// KindText carries a string payload, e.g. file contents or an HTTP
	// response body.
	KindText
	// KindInt carries an unsigned integer payload, e.g. a computed result.
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "Undefined"
	case KindText:
		return "Text"
	case KindInt:
		return "Int"
	default:
		return "Unknown"
	}
}

// IOResult is the tagged union handed to every callback. Exactly one of
// the projection methods returns ok=true, matching the Kind the result
// was constructed with.
type IOResult struct {
	kind Kind
	text string
	num  uint64
}

// Undefined returns an IOResult carrying no payload.
func Undefined() IOResult { return IOResult{kind: KindUndefined} }

// Text returns an IOResult carrying a string payload.
func Text(s string) IOResult { return IOResult{kind: KindText, text: s} }

// Int returns an IOResult carrying an unsigned integer payload.
func Int(n uint64) IOResult { return IOResult{kind: KindInt, num: n} }

// Kind reports which variant this result holds.
func (r IOResult) Kind() Kind { return r.kind }

// AsText projects the result as its Text variant. ok is false, and the
// returned string empty, if the result holds a different variant.
func (r IOResult) AsText() (s string, ok bool) {
	if r.kind != KindText {
		return "", false
	}
	return r.text, true
}

// AsInt projects the result as its Int variant. ok is false, and the
// returned value zero, if the result holds a different variant.
func (r IOResult) AsInt() (n uint64, ok bool) {
	if r.kind != KindInt {
		return 0, false
	}
	return r.num, true
}
