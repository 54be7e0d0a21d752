// Package timeline provides a deterministic, single-threaded timer queue.
//
// Callbacks are scheduled relative to the timeline's current time and fire
// only when Advance is called with a time at or past their deadline. The
// Bubble Tea update loop drives Advance from a tick message; tests drive it
// directly with synthetic times.
package timeline

import (
	"container/heap"
	"time"
)

// Token identifies a scheduled callback and allows it to be canceled.
type Token struct {
	at       time.Time
	seq      uint64
	fn       func()
	canceled bool
	fired    bool
	index    int
}

// Cancel prevents the callback from firing. Canceling a fired or already
// canceled token is a no-op. A nil token is safe to cancel.
func (t *Token) Cancel() {
	if t == nil || t.fired {
		return
	}
	t.canceled = true
}

// Canceled reports whether Cancel was called before the callback fired.
func (t *Token) Canceled() bool {
	return t != nil && t.canceled
}

// Fired reports whether the callback has run.
func (t *Token) Fired() bool {
	return t != nil && t.fired
}

// Deadline returns the time at which the callback is due.
func (t *Token) Deadline() time.Time {
	return t.at
}

// Timeline is a queue of pending callbacks ordered by deadline. Callbacks
// with equal deadlines fire in scheduling order. It is not safe for
// concurrent use.
type Timeline struct {
	now   time.Time
	seq   uint64
	queue tokenHeap
}

// New creates a timeline whose clock starts at now.
func New(now time.Time) *Timeline {
	return &Timeline{now: now}
}

// Now returns the timeline's current time.
func (tl *Timeline) Now() time.Time {
	return tl.now
}

// After schedules fn to run once the timeline reaches Now()+d. Negative
// durations are treated as zero.
func (tl *Timeline) After(d time.Duration, fn func()) *Token {
	if d < 0 {
		d = 0
	}
	tl.seq++
	tok := &Token{at: tl.now.Add(d), seq: tl.seq, fn: fn}
	heap.Push(&tl.queue, tok)
	return tok
}

// Advance moves the clock forward to now and runs every callback that is due,
// in deadline order. The clock is set to each callback's deadline before it
// runs, so callbacks that schedule further work are timed relative to their
// own deadline. Times before the current clock are ignored. It returns the
// number of callbacks run.
func (tl *Timeline) Advance(now time.Time) int {
	if now.Before(tl.now) {
		now = tl.now
	}

	ran := 0
	for tl.queue.Len() > 0 {
		next := tl.queue[0]
		if next.at.After(now) {
			break
		}
		heap.Pop(&tl.queue)
		if next.canceled {
			continue
		}
		tl.now = next.at
		next.fired = true
		next.fn()
		ran++
	}

	tl.now = now
	return ran
}

// Len returns the number of scheduled callbacks that have not fired or been
// canceled.
func (tl *Timeline) Len() int {
	n := 0
	for _, tok := range tl.queue {
		if !tok.canceled {
			n++
		}
	}
	return n
}

// NextDeadline returns the deadline of the earliest live callback.
func (tl *Timeline) NextDeadline() (time.Time, bool) {
	var (
		best  time.Time
		found bool
	)
	for _, tok := range tl.queue {
		if tok.canceled {
			continue
		}
		if !found || tok.at.Before(best) {
			best = tok.at
			found = true
		}
	}
	return best, found
}

type tokenHeap []*Token

func (h tokenHeap) Len() int { return len(h) }

func (h tokenHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h tokenHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *tokenHeap) Push(x any) {
	tok := x.(*Token)
	tok.index = len(*h)
	*h = append(*h, tok)
}

func (h *tokenHeap) Pop() any {
	old := *h
	n := len(old)
	tok := old[n-1]
	old[n-1] = nil
	tok.index = -1
	*h = old[:n-1]
	return tok
}
