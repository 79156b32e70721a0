package kterm

import "github.com/kerntty/kterm/internal/ringbuf"

// actionQueueCapacity is the 32-slot bound from spec.md §3/§4.4: "more
// than 32 interrupt nests would imply a deeper systemic failure."
const actionQueueCapacity = 32

// enqueue appends an action and, if no other goroutine is currently
// draining, drains the queue itself. This is the Go re-entrancy-safe
// rendering of tilck's "first caller drains" contract (spec.md §4.4/§5):
// drainLock is the mechanism standing in for "disable interrupts across
// the head/tail update and the emptiness check" on a single-CPU kernel
// target, or a lock-free protocol on a multi-CPU one — the spec mandates
// the contract (at most one drainer, FIFO, exactly-once), not the
// mechanism (§9).
//
// A plain TryLock on drainLock, used as the drain-ownership token, leaves
// a window open: a drainer can observe the queue empty and release the
// ring's internal mutex, but not yet have released drainLock, while a
// concurrent Push lands in that gap. TryLock then fails for the pusher
// (the presumed drainer still holds it), so the pusher returns assuming
// its action will be serviced — but the drainer has already committed to
// exiting and never looks again. The action is stranded until some
// unrelated later enqueue happens to drain it. Fixing this requires the
// queue's emptiness and the drainer's election/retirement to be decided
// under the same lock, which is what drainLock now guards directly
// (the draining flag) instead of being TryLock'd as an ownership token.
func (t *Terminal) enqueue(a Action) {
	t.drainLock.Lock()
	wasEmpty := t.queue.Push(a)
	if t.draining || !wasEmpty {
		// Someone is already draining, or the ring already held actions
		// ahead of this one (so whoever is draining, or about to, will
		// reach it) — not our job.
		t.drainLock.Unlock()
		return
	}
	t.draining = true
	t.drainLock.Unlock()

	for {
		next, ok := t.queue.Pop()
		if !ok {
			t.drainLock.Lock()
			// Re-check under the lock that also gates Push's election:
			// if nothing arrived between the failed Pop above and this
			// lock, retirement and the empty observation are atomic and
			// safe. If something did arrive, loop instead of retiring
			// and leaving it stranded.
			if t.queue.Len() == 0 {
				t.draining = false
				t.drainLock.Unlock()
				return
			}
			t.drainLock.Unlock()
			continue
		}
		t.dispatch(next)
	}
}

func newActionQueue() *ringbuf.Ring[Action] {
	return ringbuf.New[Action](actionQueueCapacity)
}
