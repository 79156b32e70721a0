package kterm

import "testing"

// grid builds a 10x3 Terminal with a NullBackend, matching the size used
// throughout these scenarios.
func grid(t *testing.T) *Terminal {
	t.Helper()
	return New(NullBackend{}, 3, 10, DefaultColor, Options{})
}

func TestWriteBasicLine(t *testing.T) {
	term := grid(t)
	term.Write([]byte("abc\n"))

	if got := term.sb.get(0, 0).Char(); got != 'a' {
		t.Errorf("(0,0) = %q, want 'a'", got)
	}
	if got := term.sb.get(0, 1).Char(); got != 'b' {
		t.Errorf("(0,1) = %q, want 'b'", got)
	}
	if got := term.sb.get(0, 2).Char(); got != 'c' {
		t.Errorf("(0,2) = %q, want 'c'", got)
	}
	if term.CurrentRow() != 1 || term.CurrentCol() != 0 {
		t.Errorf("cursor = (%d,%d), want (1,0)", term.CurrentRow(), term.CurrentCol())
	}
	if _, maxScroll := term.Scroll(); maxScroll != 0 {
		t.Errorf("maxScroll = %d, want 0", maxScroll)
	}
}

func TestRowWrapTiming(t *testing.T) {
	term := grid(t)
	term.Write([]byte("abcdefghij"))

	if term.CurrentRow() != 0 || term.CurrentCol() != 10 {
		t.Fatalf("cursor = (%d,%d), want (0,10) before wrap", term.CurrentRow(), term.CurrentCol())
	}

	term.Write([]byte("X"))

	if got := term.sb.get(1, 0).Char(); got != 'X' {
		t.Errorf("(1,0) = %q, want 'X'", got)
	}
	if term.CurrentRow() != 1 || term.CurrentCol() != 1 {
		t.Errorf("cursor = (%d,%d), want (1,1)", term.CurrentRow(), term.CurrentCol())
	}
}

func TestTabWrite(t *testing.T) {
	term := grid(t)
	term.Write([]byte("ab\tc"))

	if got := term.sb.get(0, 0).Char(); got != 'a' {
		t.Errorf("(0,0) = %q, want 'a'", got)
	}
	if got := term.sb.get(0, 1).Char(); got != 'b' {
		t.Errorf("(0,1) = %q, want 'b'", got)
	}
	if !term.tabs.get(0, 8) {
		t.Error("expected a tab mark at (0,8)")
	}
	if got := term.sb.get(0, 9).Char(); got != 'c' {
		t.Errorf("(0,9) = %q, want 'c'", got)
	}
	if term.CurrentCol() != 10 {
		t.Errorf("col = %d, want 10", term.CurrentCol())
	}
}

// TestBackspaceThroughTab walks backspace through the tab region written
// by TestTabWrite. A backspace landing on a tab's trailing mark retracts
// the whole tab in a single call (it walks left up to tabSize-1 more
// columns, stopping early at column 0, col_offset, or a previous tab
// mark) rather than one column at a time. The first call only erases the
// plain 'c' cell; the second retracts the tab and overruns its start
// (column 2) by one, landing on column 1; the third reaches column 0.
func TestBackspaceThroughTab(t *testing.T) {
	term := grid(t)
	term.Write([]byte("ab\tc"))

	term.Write([]byte("\b"))
	if term.CurrentCol() != 9 {
		t.Fatalf("after 1st backspace: col = %d, want 9", term.CurrentCol())
	}

	term.Write([]byte("\b"))
	if term.CurrentCol() != 1 {
		t.Fatalf("after 2nd backspace: col = %d, want 1", term.CurrentCol())
	}

	term.Write([]byte("\b"))
	if term.CurrentCol() != 0 {
		t.Fatalf("after 3rd backspace: col = %d, want 0", term.CurrentCol())
	}

	term.Write([]byte("\b"))
	if term.CurrentCol() != 0 {
		t.Fatalf("after 4th backspace (no-op at col 0): col = %d, want 0", term.CurrentCol())
	}
}

func TestScrollClampingOverLongHistory(t *testing.T) {
	term := New(NullBackend{}, 3, 10, DefaultColor, Options{})

	lines := make([]byte, 0, 30*11)
	for row := 0; row < 30; row++ {
		if row > 0 {
			lines = append(lines, '\n')
		}
		for col := 0; col < 10; col++ {
			lines = append(lines, byte('0'+(row+col)%10))
		}
	}
	term.Write(lines)

	if _, maxScroll := term.Scroll(); maxScroll != 27 {
		t.Fatalf("maxScroll = %d, want 27", maxScroll)
	}

	term.ScrollUp(5)
	if scroll, _ := term.Scroll(); scroll != 22 {
		t.Errorf("after ScrollUp(5): scroll = %d, want 22", scroll)
	}

	term.ScrollDown(100)
	if scroll, maxScroll := term.Scroll(); scroll != maxScroll {
		t.Errorf("after ScrollDown(100): scroll = %d, want %d (bottom)", scroll, maxScroll)
	}
}

func TestFilterRewritesCharacter(t *testing.T) {
	term := grid(t)
	term.SetFilter(func(ch *byte, color *uint8, innerWrite InnerWriteFunc, ctx any) WriteDisposition {
		if *ch == 'X' {
			*ch = 'Y'
		}
		return WriteChar
	}, nil)

	term.Write([]byte("aXb"))

	if got := term.sb.get(0, 1).Char(); got != 'Y' {
		t.Errorf("(0,1) = %q, want 'Y'", got)
	}
}

func TestMoveCursorClampsToGrid(t *testing.T) {
	term := grid(t)
	term.MoveCursor(-5, 500)

	if term.CurrentRow() != 0 {
		t.Errorf("row = %d, want 0", term.CurrentRow())
	}
	if term.CurrentCol() != term.Cols()-1 {
		t.Errorf("col = %d, want %d", term.CurrentCol(), term.Cols()-1)
	}
}

func TestEraseInDisplayMode3RestoresCursorPositionOnly(t *testing.T) {
	term := grid(t)
	term.Write([]byte("abc"))
	term.MoveCursor(1, 4)

	term.EraseInDisplay(3)

	if term.CurrentRow() != 0 || term.CurrentCol() != 0 {
		t.Errorf("logical cursor = (%d,%d), want (0,0) after reset", term.CurrentRow(), term.CurrentCol())
	}
	if got := term.sb.get(0, 0).Char(); got != ' ' {
		t.Errorf("(0,0) = %q, want blank after full reset", got)
	}
}

func TestFailsafeInitClampsToHardwareDefaults(t *testing.T) {
	term := New(NullBackend{}, 200, 300, DefaultColor, Options{AllocatorUnavailable: true})

	if term.Rows() != 25 || term.Cols() != 80 {
		t.Fatalf("failsafe size = %dx%d, want 25x80", term.Rows(), term.Cols())
	}
	if term.tabs != nil {
		t.Error("expected no tab map in the failsafe path")
	}
}

func TestBackspaceStopsAtColumnOffset(t *testing.T) {
	term := grid(t)
	term.SetColumnOffset(2)
	term.Write([]byte("ab"))

	term.Write([]byte("\b\b\b"))

	if term.CurrentCol() != 2 {
		t.Errorf("col = %d, want 2 (col_offset floor)", term.CurrentCol())
	}
}
