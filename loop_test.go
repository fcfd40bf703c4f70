package asyncrt

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeSetTimeoutFires(t *testing.T) {
	var fired bool
	err := Run(func(rt *Runtime) {
		rt.SetTimeout(5, func(IOResult) { fired = true })
	})
	require.NoError(t, err)
	assert.True(t, fired)
}

func TestRuntimeTimerOrderingAcrossDeadlines(t *testing.T) {
	var order []int
	err := Run(func(rt *Runtime) {
		rt.SetTimeout(30, func(IOResult) { order = append(order, 3) })
		rt.SetTimeout(10, func(IOResult) { order = append(order, 1) })
		rt.SetTimeout(20, func(IOResult) { order = append(order, 2) })
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestRuntimeTimerScheduledFromCallback(t *testing.T) {
	var outerRan, innerRan bool
	err := Run(func(rt *Runtime) {
		rt.SetTimeout(5, func(IOResult) {
			outerRan = true
			rt.SetTimeout(5, func(IOResult) { innerRan = true })
		})
	})
	require.NoError(t, err)
	assert.True(t, outerRan)
	assert.True(t, innerRan)
}

func TestRuntimeReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	var result string
	err := Run(func(rt *Runtime) {
		rt.ReadFile(path, func(res IOResult) {
			result, _ = res.AsText()
		})
	})
	require.NoError(t, err)
	assert.Equal(t, "hello world", result)
}

func TestRuntimeReadFileMissing(t *testing.T) {
	var kind Kind
	err := Run(func(rt *Runtime) {
		rt.ReadFile(filepath.Join(t.TempDir(), "missing.txt"), func(res IOResult) {
			kind = res.Kind()
		})
	})
	require.NoError(t, err)
	assert.Equal(t, KindUndefined, kind)
}

func TestRuntimeCompute(t *testing.T) {
	var got uint64
	err := Run(func(rt *Runtime) {
		rt.Compute(10, func(res IOResult) {
			got, _ = res.AsInt()
		})
	})
	require.NoError(t, err)
	assert.EqualValues(t, 55, got)
}

func TestRuntimeWatchReadableFiresOnData(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	var got string
	runErr := Run(func(rt *Runtime) {
		regErr := rt.watchReadable(int(r.Fd()), func(IOResult) {
			buf := make([]byte, 64)
			n, _ := readFD(int(r.Fd()), buf)
			got = string(buf[:n])
		})
		require.NoError(t, regErr)
		go func() {
			time.Sleep(10 * time.Millisecond)
			_, _ = w.Write([]byte("hi"))
		}()
	})
	require.NoError(t, runErr)
	assert.Equal(t, "hi", got)
}

func TestRuntimeCloseStopsEarly(t *testing.T) {
	start := time.Now()
	err := Run(func(rt *Runtime) {
		rt.SetTimeout(10_000, func(IOResult) {})
		go func() {
			time.Sleep(5 * time.Millisecond)
			rt.Close()
		}()
	})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRuntimeWorkerPanicDowngradesToUndefined(t *testing.T) {
	var kind Kind
	err := Run(func(rt *Runtime) {
		rt.Compute(0, func(IOResult) {})
		tok := rt.registerPending(func(res IOResult) { kind = res.Kind() })
		rt.workers.submit(tok, WorkerTask{Run: func() IOResult {
			panic("worker exploded")
		}})
	})
	require.NoError(t, err)
	assert.Equal(t, KindUndefined, kind)
}

func TestRuntimeCallbackPanicDoesNotCrashLoop(t *testing.T) {
	var secondRan bool
	err := Run(func(rt *Runtime) {
		rt.SetTimeout(1, func(IOResult) { panic("callback exploded") })
		rt.SetTimeout(5, func(IOResult) { secondRan = true })
	})
	require.NoError(t, err)
	assert.True(t, secondRan)
}
