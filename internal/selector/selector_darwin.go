//go:build darwin

package selector

import (
	"time"

	"golang.org/x/sys/unix"
)

// wakeIdent is the identifier used for the EVFILT_USER wakeup event
// registered once at selector creation, to unblock Select from CloseLoop.
const wakeIdent = 1

// kqueueSelector wraps a kqueue instance. Registrations are one-shot
// (EV_ONESHOT), mirroring epollSelector's EPOLLONESHOT semantics.
type kqueueSelector struct {
	kq      int
	closed  bool
	tokens  map[uintptr]uint64
	fdOfTok map[uint64]uintptr
}

// New returns a Selector backed by kqueue.
func New() (Selector, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	unix.CloseOnExec(kq)

	wake := unix.Kevent_t{
		Ident:  wakeIdent,
		Filter: unix.EVFILT_USER,
		Flags:  unix.EV_ADD | unix.EV_CLEAR,
	}
	if _, err := unix.Kevent(kq, []unix.Kevent_t{wake}, nil, nil); err != nil {
		unix.Close(kq)
		return nil, err
	}

	return &kqueueSelector{
		kq:      kq,
		tokens:  make(map[uintptr]uint64),
		fdOfTok: make(map[uint64]uintptr),
	}, nil
}

func (s *kqueueSelector) Register(fd int, token uint64, interests Interest) error {
	if s.closed {
		return ErrClosed
	}
	var changes []unix.Kevent_t
	if interests&InterestRead != 0 {
		changes = append(changes, unix.Kevent_t{
			Ident:  uint64(fd),
			Filter: unix.EVFILT_READ,
			Flags:  unix.EV_ADD | unix.EV_ONESHOT,
		})
	}
	if interests&InterestWrite != 0 {
		changes = append(changes, unix.Kevent_t{
			Ident:  uint64(fd),
			Filter: unix.EVFILT_WRITE,
			Flags:  unix.EV_ADD | unix.EV_ONESHOT,
		})
	}
	if len(changes) == 0 {
		return nil
	}
	if _, err := unix.Kevent(s.kq, changes, nil, nil); err != nil {
		return err
	}
	s.tokens[uintptr(fd)] = token
	s.fdOfTok[token] = uintptr(fd)
	return nil
}

func (s *kqueueSelector) Select(events []Event, timeout *time.Duration) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	var ts *unix.Timespec
	if timeout != nil {
		t := unix.NsecToTimespec(timeout.Nanoseconds())
		ts = &t
	}

	raw := make([]unix.Kevent_t, len(events)+1)
	n, err := unix.Kevent(s.kq, nil, raw, ts)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}

	count := 0
	woken := false
	for i := 0; i < n; i++ {
		kev := raw[i]
		if kev.Filter == unix.EVFILT_USER && kev.Ident == wakeIdent {
			woken = true
			continue
		}
		if count >= len(events) {
			break
		}
		tok, ok := s.tokens[uintptr(kev.Ident)]
		if !ok {
			continue
		}
		delete(s.tokens, uintptr(kev.Ident))
		delete(s.fdOfTok, tok)
		events[count] = Event{
			Token:    tok,
			Readable: kev.Filter == unix.EVFILT_READ,
			Writable: kev.Filter == unix.EVFILT_WRITE,
			Errored:  kev.Flags&unix.EV_EOF != 0 || kev.Flags&unix.EV_ERROR != 0,
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

func (s *kqueueSelector) CloseLoop() error {
	trigger := unix.Kevent_t{
		Ident:  wakeIdent,
		Filter: unix.EVFILT_USER,
		Fflags: unix.NOTE_TRIGGER,
	}
	_, err := unix.Kevent(s.kq, []unix.Kevent_t{trigger}, nil, nil)
	return err
}

func (s *kqueueSelector) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return unix.Close(s.kq)
}
