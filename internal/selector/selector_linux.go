//go:build linux

package selector

import (
	"time"

	"golang.org/x/sys/unix"
)

// epollSelector wraps an epoll instance plus an eventfd used purely to
// interrupt a blocked EpollWait from CloseLoop.
type epollSelector struct {
	epfd    int
	wakefd  int
	closed  bool
	tokens  map[int32]uint64
	fdOfTok map[uint64]int32
}

// New returns a Selector backed by epoll.
func New() (Selector, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	wakefd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		unix.Close(epfd)
		return nil, err
	}
	s := &epollSelector{
		epfd:    epfd,
		wakefd:  wakefd,
		tokens:  make(map[int32]uint64),
		fdOfTok: make(map[uint64]int32),
	}
	ev := &unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(wakefd)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakefd, ev); err != nil {
		unix.Close(epfd)
		unix.Close(wakefd)
		return nil, err
	}
	return s, nil
}

func (s *epollSelector) Register(fd int, token uint64, interests Interest) error {
	if s.closed {
		return ErrClosed
	}
	var events uint32 = unix.EPOLLONESHOT
	if interests&InterestRead != 0 {
		events |= unix.EPOLLIN
	}
	if interests&InterestWrite != 0 {
		events |= unix.EPOLLOUT
	}
	ev := &unix.EpollEvent{Events: events, Fd: int32(fd)}

	op := unix.EPOLL_CTL_ADD
	if _, seen := s.tokens[int32(fd)]; seen {
		op = unix.EPOLL_CTL_MOD
	}
	err := unix.EpollCtl(s.epfd, op, fd, ev)
	if err == unix.EEXIST {
		// A one-shot registration that already fired stays in the epoll
		// set, disabled: re-arm it with MOD.
		err = unix.EpollCtl(s.epfd, unix.EPOLL_CTL_MOD, fd, ev)
	} else if err == unix.ENOENT {
		err = unix.EpollCtl(s.epfd, unix.EPOLL_CTL_ADD, fd, ev)
	}
	if err != nil {
		return err
	}
	s.tokens[int32(fd)] = token
	s.fdOfTok[token] = int32(fd)
	return nil
}

func (s *epollSelector) Select(events []Event, timeout *time.Duration) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	timeoutMs := -1
	if timeout != nil {
		timeoutMs = int(timeout.Milliseconds())
		if timeoutMs < 0 {
			timeoutMs = 0
		}
	}

	raw := make([]unix.EpollEvent, len(events)+1)
	n, err := unix.EpollWait(s.epfd, raw, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}

	count := 0
	woken := false
	for i := 0; i < n; i++ {
		fd := raw[i].Fd
		if int(fd) == s.wakefd {
			woken = true
			var buf [8]byte
			unix.Read(s.wakefd, buf[:])
			continue
		}
		if count >= len(events) {
			break
		}
		tok, ok := s.tokens[fd]
		if !ok {
			continue
		}
		delete(s.tokens, fd)
		delete(s.fdOfTok, tok)
		events[count] = Event{
			Token:    tok,
			Readable: raw[i].Events&(unix.EPOLLIN|unix.EPOLLHUP|unix.EPOLLERR) != 0,
			Writable: raw[i].Events&unix.EPOLLOUT != 0,
			Errored:  raw[i].Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0,
		}
		count++
	}

	if count == 0 && woken {
		return 0, ErrInterrupted
	}
	if woken {
		// Keep the wakeup pending so the next Select reports it.
		s.CloseLoop()
	}
	return count, nil
}

func (s *epollSelector) CloseLoop() error {
	var one [8]byte
	one[0] = 1
	_, err := unix.Write(s.wakefd, one[:])
	if err != nil && err != unix.EAGAIN {
		return err
	}
	return nil
}

func (s *epollSelector) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	unix.Close(s.wakefd)
	return unix.Close(s.epfd)
}
