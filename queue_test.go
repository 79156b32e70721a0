package kterm

import "testing"

// reentrantBackend calls back into the Terminal from inside SetCell, the
// software analogue of an interrupt handler writing to the terminal
// while an outer write is still being drained. It must be handed to a
// call to Write on the very first cell of a batch to actually exercise
// re-entrant enqueue.
type reentrantBackend struct {
	NullBackend
	term      *Terminal
	triggered bool
	seen      []byte
}

func (b *reentrantBackend) SetCell(row, col int, cell Cell) {
	b.seen = append(b.seen, cell.Char())
	if !b.triggered {
		b.triggered = true
		// Re-entrant: this Write call's enqueue must only queue the
		// action, not drain it itself, since we're already inside a
		// dispatch on this goroutine.
		b.term.Write([]byte("Z"))
	}
}

func TestReentrantWriteDuringDispatch(t *testing.T) {
	backend := &reentrantBackend{}
	term := New(backend, 3, 10, DefaultColor, Options{})
	backend.term = term

	term.Write([]byte("ab"))

	if !backend.triggered {
		t.Fatal("expected the reentrant Write to have fired")
	}

	// The reentrant Write enqueues but cannot drain (the outer enqueue
	// has already set the draining flag on this goroutine), so its action only
	// runs after the outer write's whole buffer finishes: 'a' then 'b'
	// from the outer write, then 'Z' from the one enqueued during
	// SetCell('a', ...).
	want := []byte{'a', 'b', 'Z'}
	if len(backend.seen) != len(want) {
		t.Fatalf("seen = %q, want %q", backend.seen, want)
	}
	for i := range want {
		if backend.seen[i] != want[i] {
			t.Errorf("seen[%d] = %q, want %q", i, backend.seen[i], want[i])
		}
	}
}

func TestDispatchAppliesWriteAction(t *testing.T) {
	term := grid(t)

	term.dispatch(writeAction([]byte("x"), DefaultColor))

	if got := term.sb.get(0, 0).Char(); got != 'x' {
		t.Errorf("(0,0) = %q, want 'x'", got)
	}
}
