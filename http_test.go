package asyncrt

import (
	"bufio"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// canned response for a T6-style http_get scenario, per spec.md: a
// stubbed stream that replies with a fixed body and then closes.
const cannedHTTPResponse = "OK\r\n\r\n"

func TestRuntimeHTTPGetReceivesCannedResponse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	var gotRequest string
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, _ := bufio.NewReader(conn).ReadString('\n')
		gotRequest = line
		_, _ = conn.Write([]byte(cannedHTTPResponse))
	}()

	var got string
	var ok bool
	runErr := Run(func(rt *Runtime) {
		rt.HTTPGet("example.test", 0, func(res IOResult) {
			got, ok = res.AsText()
		})
	}, withHTTPDialAddr(ln.Addr().String()))

	require.NoError(t, runErr)
	require.True(t, ok)
	assert.Equal(t, cannedHTTPResponse, got)
	assert.Equal(t, "GET /delay/0/url/http://example.test HTTP/1.1\r\n", gotRequest)
}

func TestRuntimeHTTPGetUndefinedOnDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close()) // nothing listening on addr now

	var kind Kind
	runErr := Run(func(rt *Runtime) {
		rt.HTTPGet("example.test", 0, func(res IOResult) {
			kind = res.Kind()
		})
	}, withHTTPDialAddr(addr))

	require.NoError(t, runErr)
	assert.Equal(t, KindUndefined, kind)
}
