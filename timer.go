package asyncrt

import (
	"container/heap"
	"time"
)

// timerEntry is one scheduled timer. seq breaks ties between timers
// sharing an identical deadline, giving FIFO order for same-tick
// timers rather than leaving it to heap implementation accident.
type timerEntry struct {
	deadline time.Time
	seq      uint64
	token    IdentityToken
	index    int
}

// timerHeap is a min-heap over timerEntry ordered by (deadline, seq).
type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if !h[i].deadline.Equal(h[j].deadline) {
		return h[i].deadline.Before(h[j].deadline)
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	e := x.(*timerEntry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// timerWheel holds every outstanding SetTimeout registration, keyed by
// deadline. Despite the name it is a heap, not a bucketed wheel: with
// a handful of concurrently-pending timers a heap is simpler and the
// spec never calls for O(1) tick advancement over a huge timer count.
type timerWheel struct {
	heap    timerHeap
	byToken map[IdentityToken]*timerEntry
	seq     uint64
}

func newTimerWheel() *timerWheel {
	return &timerWheel{
		byToken: make(map[IdentityToken]*timerEntry),
	}
}

// insert schedules token to fire at deadline. The caller is
// responsible for associating token with a callback elsewhere (the
// event loop's callback registry); the timer wheel only tracks
// ordering.
func (w *timerWheel) insert(token IdentityToken, deadline time.Time) {
	e := &timerEntry{deadline: deadline, seq: w.seq, token: token}
	w.seq++
	heap.Push(&w.heap, e)
	w.byToken[token] = e
}

// popExpired removes and returns every timer whose deadline is at or
// before now, in deadline then insertion order.
func (w *timerWheel) popExpired(now time.Time) []*timerEntry {
	var expired []*timerEntry
	for w.heap.Len() > 0 && !w.heap[0].deadline.After(now) {
		e := heap.Pop(&w.heap).(*timerEntry)
		delete(w.byToken, e.token)
		expired = append(expired, e)
	}
	return expired
}

// nextDelay returns the duration until the earliest pending timer
// fires, or ok=false if no timer is pending. A negative duration means
// the timer has already expired and should be handled immediately.
func (w *timerWheel) nextDelay(now time.Time) (d time.Duration, ok bool) {
	if w.heap.Len() == 0 {
		return 0, false
	}
	return w.heap[0].deadline.Sub(now), true
}

// len reports the number of pending timers.
func (w *timerWheel) len() int {
	return w.heap.Len()
}
