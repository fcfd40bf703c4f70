//go:build linux || darwin

package asyncrt

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// closeFD closes a file descriptor.
func closeFD(fd int) error {
	return unix.Close(fd)
}

// readFD reads from a file descriptor.
func readFD(fd int, buf []byte) (int, error) {
	return unix.Read(fd, buf)
}

// writeFD writes to a file descriptor.
func writeFD(fd int, buf []byte) (int, error) {
	return unix.Write(fd, buf)
}

// rawFD duplicates and returns the raw file descriptor backing conn,
// setting it non-blocking so the reactor can safely poll it. The
// caller owns the returned fd and is responsible for closing it; conn
// itself should be closed separately as it retains its own fd copy.
func rawFD(conn net.Conn) (int, error) {
	sc, ok := conn.(interface {
		SyscallConn() (syscall.RawConn, error)
	})
	if !ok {
		return -1, ErrSelectorUnsupported
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return -1, err
	}
	var dup int
	var ctlErr error
	err = raw.Control(func(fd uintptr) {
		dup, ctlErr = unix.Dup(int(fd))
	})
	if err != nil {
		return -1, err
	}
	if ctlErr != nil {
		return -1, ctlErr
	}
	if err := unix.SetNonblock(dup, true); err != nil {
		unix.Close(dup)
		return -1, err
	}
	return dup, nil
}
