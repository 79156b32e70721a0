package ringbuf

import "testing"

func TestPushPopOrder(t *testing.T) {
	r := New[int](4)

	r.Push(1)
	r.Push(2)
	r.Push(3)

	for _, want := range []int{1, 2, 3} {
		got, ok := r.Pop()
		if !ok {
			t.Fatalf("Pop() ok = false, want true")
		}
		if got != want {
			t.Errorf("Pop() = %d, want %d", got, want)
		}
	}

	if _, ok := r.Pop(); ok {
		t.Error("Pop() on empty ring returned ok = true")
	}
}

func TestPushReportsWasEmpty(t *testing.T) {
	r := New[int](4)

	if wasEmpty := r.Push(1); !wasEmpty {
		t.Error("first Push: wasEmpty = false, want true")
	}
	if wasEmpty := r.Push(2); wasEmpty {
		t.Error("second Push: wasEmpty = true, want false")
	}
}

func TestPushPanicsWhenFull(t *testing.T) {
	r := New[int](2)
	r.Push(1)
	r.Push(2)

	defer func() {
		if recover() == nil {
			t.Error("expected Push on a full ring to panic")
		}
	}()
	r.Push(3)
}

func TestWrapsAroundAfterPops(t *testing.T) {
	r := New[int](3)
	r.Push(1)
	r.Push(2)
	r.Pop()
	r.Push(3)
	r.Push(4)

	var got []int
	for {
		v, ok := r.Pop()
		if !ok {
			break
		}
		got = append(got, v)
	}

	want := []int{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}
