package asyncrt

import (
	"bytes"
	"fmt"
	"net"
)

// slowwlyHost is the delay-proxy every HTTPGet request is routed
// through: it delays the response by delayMS before fetching url itself
// and relaying it back, rather than this runtime dialing url directly.
const slowwlyHost = "slowwly.robertomurray.co.uk"

// HTTPGet issues an HTTP/1.1 GET request through the slowwly delay
// proxy for url, delayed by delayMS milliseconds, and invokes cb with
// the full response (status line, headers and body) as a Text result
// once the connection reaches EOF, or an Undefined result if the
// request could not be dialed or written.
//
// The TCP handshake itself runs synchronously, as setup cost outside
// the polled phase; only the response read crosses the reactor, one
// readiness notification at a time, mirroring a one-shot readiness
// poller rather than buffering the whole response in a single
// blocking call.
func (rt *Runtime) HTTPGet(url string, delayMS uint32, cb Callback) {
	conn, err := net.Dial("tcp", rt.httpDialAddr)
	if err != nil {
		rt.logger.Warn("http get dial failed", F("host", rt.httpDialAddr), F("error", err.Error()))
		rt.SetTimeout(0, func(IOResult) { cb(Undefined()) })
		return
	}

	fd, err := rawFD(conn)
	if err != nil {
		conn.Close()
		rt.SetTimeout(0, func(IOResult) { cb(Undefined()) })
		return
	}

	req := fmt.Sprintf("GET /delay/%d/url/http://%s HTTP/1.1\r\nHost: %s\r\nConnection: close\r\n\r\n", delayMS, url, slowwlyHost)
	if _, err := conn.Write([]byte(req)); err != nil {
		conn.Close()
		closeFD(fd)
		rt.SetTimeout(0, func(IOResult) { cb(Undefined()) })
		return
	}

	op := &httpGetOp{rt: rt, conn: conn, fd: fd, cb: cb}
	op.armRead()
}

// httpGetOp carries the state of one in-flight GET across however
// many readiness notifications it takes to drain the response.
type httpGetOp struct {
	rt   *Runtime
	conn net.Conn
	fd   int
	buf  bytes.Buffer
	cb   Callback
}

func (op *httpGetOp) armRead() {
	if err := op.rt.watchReadable(op.fd, op.onReadable); err != nil {
		op.finish()
	}
}

func (op *httpGetOp) onReadable(IOResult) {
	var buf [4096]byte
	n, err := readFD(op.fd, buf[:])
	if n > 0 {
		op.buf.Write(buf[:n])
	}
	if n > 0 && err == nil {
		op.armRead()
		return
	}
	op.finish()
}

func (op *httpGetOp) finish() {
	op.conn.Close()
	closeFD(op.fd)
	op.cb(Text(op.buf.String()))
}
