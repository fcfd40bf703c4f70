package asyncrt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolSubmitAndRelease(t *testing.T) {
	out := make(chan pollEvent, 4)
	p := newWorkerPool(1, out, noopLogger{})
	defer p.shutdown()

	p.submit(IdentityToken(1), WorkerTask{Run: func() IOResult { return Int(1) }})
	select {
	case ev := <-out:
		assert.Equal(t, pollThreadpool, ev.kind)
		assert.Equal(t, IdentityToken(1), ev.token)
		n, _ := ev.result.AsInt()
		assert.EqualValues(t, 1, n)
		p.release(ev.worker)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for worker completion")
	}

	assert.Equal(t, 1, len(p.free))
}

func TestWorkerPoolQueuesWhenBusy(t *testing.T) {
	out := make(chan pollEvent, 4)
	p := newWorkerPool(1, out, noopLogger{})
	defer p.shutdown()

	block := make(chan struct{})
	p.submit(IdentityToken(1), WorkerTask{Run: func() IOResult {
		<-block
		return Undefined()
	}})
	p.submit(IdentityToken(2), WorkerTask{Run: func() IOResult { return Int(2) }})

	require.Equal(t, 1, p.pendingCount())

	close(block)
	ev := <-out
	assert.Equal(t, IdentityToken(1), ev.token)
	p.release(ev.worker)

	ev = <-out
	assert.Equal(t, IdentityToken(2), ev.token)
	n, _ := ev.result.AsInt()
	assert.EqualValues(t, 2, n)
}

func TestSafeInvokeTaskRecoversPanic(t *testing.T) {
	result := safeInvokeTask(noopLogger{}, WorkerTask{Run: func() IOResult {
		panic("boom")
	}})
	assert.Equal(t, KindUndefined, result.Kind())
}
