package asyncrt

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentRuntimePanicsOutsideRun(t *testing.T) {
	assert.PanicsWithValue(t, ErrNoActiveRuntime, func() {
		SetTimeout(1, func(IOResult) {})
	})
}

func TestRunRejectsConcurrentRuntime(t *testing.T) {
	var wg sync.WaitGroup
	started := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = Run(func(rt *Runtime) {
			close(started)
			rt.SetTimeout(200, func(IOResult) {})
		})
	}()

	<-started
	err := Run(func(rt *Runtime) {})
	assert.ErrorIs(t, err, ErrRuntimeAlreadyRunning)

	wg.Wait()
}

func TestFacadeFunctionsDelegateToActiveRuntime(t *testing.T) {
	var fired bool
	err := Run(func(rt *Runtime) {
		SetTimeout(5, func(IOResult) { fired = true })
	})
	require.NoError(t, err)
	assert.True(t, fired)
}
