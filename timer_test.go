package asyncrt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerWheelOrdersByDeadline(t *testing.T) {
	w := newTimerWheel()
	base := time.Now()

	w.insert(IdentityToken(3), base.Add(30*time.Millisecond))
	w.insert(IdentityToken(1), base.Add(10*time.Millisecond))
	w.insert(IdentityToken(2), base.Add(20*time.Millisecond))

	expired := w.popExpired(base.Add(25 * time.Millisecond))
	require.Len(t, expired, 2)
	assert.Equal(t, IdentityToken(1), expired[0].token)
	assert.Equal(t, IdentityToken(2), expired[1].token)
	assert.Equal(t, 1, w.len())
}

func TestTimerWheelStableTieBreak(t *testing.T) {
	w := newTimerWheel()
	deadline := time.Now().Add(10 * time.Millisecond)

	w.insert(IdentityToken(1), deadline)
	w.insert(IdentityToken(2), deadline)
	w.insert(IdentityToken(3), deadline)

	expired := w.popExpired(deadline)
	require.Len(t, expired, 3)
	assert.Equal(t, []IdentityToken{1, 2, 3}, []IdentityToken{
		expired[0].token, expired[1].token, expired[2].token,
	})
}

func TestTimerWheelNextDelay(t *testing.T) {
	w := newTimerWheel()
	now := time.Now()

	_, ok := w.nextDelay(now)
	assert.False(t, ok)

	w.insert(IdentityToken(1), now.Add(50*time.Millisecond))
	d, ok := w.nextDelay(now)
	require.True(t, ok)
	assert.InDelta(t, 50*time.Millisecond, d, float64(5*time.Millisecond))
}
