package asyncrt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIOResultText(t *testing.T) {
	r := Text("hello")
	assert.Equal(t, KindText, r.Kind())
	text, ok := r.AsText()
	assert.True(t, ok)
	assert.Equal(t, "hello", text)

	n, ok := r.AsInt()
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestIOResultInt(t *testing.T) {
	r := Int(42)
	assert.Equal(t, KindInt, r.Kind())
	n, ok := r.AsInt()
	assert.True(t, ok)
	assert.EqualValues(t, 42, n)

	text, ok := r.AsText()
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestIOResultUndefined(t *testing.T) {
	r := Undefined()
	assert.Equal(t, KindUndefined, r.Kind())
	_, ok := r.AsText()
	assert.False(t, ok)
	_, ok = r.AsInt()
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Undefined", KindUndefined.String())
	assert.Equal(t, "Text", KindText.String())
	assert.Equal(t, "Int", KindInt.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}
