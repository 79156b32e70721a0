package kterm

// This file implements the write/scroll engine and erase operations of
// spec.md §4.2/§4.3, grounded line-for-line on tilck term.c's
// term_internal_incr_row, term_internal_write_printable_char,
// term_internal_write_tab, term_internal_write_backspace,
// term_internal_write_char2, term_action_write, term_action_erase_in_line
// and term_action_erase_in_display. Apart from New's initial setup (which
// calls moveCursorNow and clearRowBoth before the Terminal is shared),
// every function here runs only from inside Terminal.dispatch, which
// already holds t.mu — none of them lock.

func (t *Terminal) clearRowBoth(row int, color uint8) {
	t.sb.clearRow(row, color)
	t.backend.ClearRow(row, color)
}

func (t *Terminal) currentCellColor() uint8 {
	return t.sb.get(t.r, t.c).Color()
}

func (t *Terminal) flushIfSupported() {
	if f, ok := bufferFlusher(t.backend); ok {
		f.FlushBuffers()
	}
}

// --- scrolling (spec.md §4.1) ---

func (t *Terminal) redrawNow() {
	for row := 0; row < t.rows; row++ {
		t.backend.SetRow(row, t.sb.rowSlice(row), true)
	}
}

// setScrollNow clamps and applies a requested scroll position, redrawing
// every visible row when it actually changes (tilck's ts_set_scroll).
func (t *Terminal) setScrollNow(requested uint32) {
	clamped := t.sb.clamp(requested)
	if clamped == t.sb.scroll {
		return
	}
	t.sb.scroll = clamped
	t.redrawNow()
}

func (t *Terminal) scrollToBottomNow() {
	t.setScrollNow(t.sb.maxScroll)
}

// afterScrollSettle restores cursor visibility/position after a scroll,
// mirroring tilck's term_int_scroll_up/down tail.
func (t *Terminal) afterScrollSettle() {
	if !t.sb.isAtBottom() {
		t.backend.DisableCursor()
	} else {
		t.backend.EnableCursor()
		t.backend.MoveCursor(t.r, t.c)
	}
	t.flushIfSupported()
}

func (t *Terminal) scrollUpNow(n int) {
	if uint32(n) > t.sb.scroll {
		t.setScrollNow(0)
	} else {
		t.setScrollNow(t.sb.scroll - uint32(n))
	}
	t.afterScrollSettle()
}

func (t *Terminal) scrollDownNow(n int) {
	t.setScrollNow(t.sb.scroll + uint32(n))
	t.afterScrollSettle()
}

// --- cursor ---

func (t *Terminal) moveCursorNow(row, col int) {
	t.r = clampInt(row, 0, t.rows-1)
	t.c = clampInt(col, 0, t.cols-1)
	t.backend.MoveCursor(t.r, t.c)
	t.flushIfSupported()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundUpTo(v, multiple int) int {
	if multiple <= 0 {
		return v
	}
	return ((v + multiple - 1) / multiple) * multiple
}

// --- write/scroll engine (spec.md §4.2) ---

func (t *Terminal) incrRow(color uint8) {
	t.colOffset = 0

	if t.r < t.rows-1 {
		t.r++
		return
	}

	t.sb.maxScroll++

	if su, ok := scrollOneLineUpper(t.backend); ok {
		t.sb.scroll++
		su.ScrollOneLineUp()
	} else {
		t.setScrollNow(t.sb.maxScroll)
	}

	t.clearRowBoth(t.rows-1, color)
}

func (t *Terminal) writePrintable(ch byte, color uint8) {
	cell := MakeCell(ch, color)
	t.sb.set(t.r, t.c, cell)
	t.backend.SetCell(t.r, t.c, cell)
	t.c++
}

func (t *Terminal) writeTab(color uint8) {
	if !t.tabs.enabled() {
		if t.c < t.cols-1 {
			t.writePrintable(' ', color)
		}
		return
	}

	next := roundUpTo(t.c+1, t.tabSize)
	if next > t.cols-2 {
		next = t.cols - 2
	}
	t.tabs.set(t.r, next, true)
	t.c = next + 1
}

func (t *Terminal) writeBackspace(color uint8) {
	if t.c == 0 || t.c <= t.colOffset {
		return
	}

	t.c--

	if !t.tabs.enabled() || !t.tabs.get(t.r, t.c) {
		t.writeSpaceAt(t.r, t.c, color)
		return
	}

	t.tabs.set(t.r, t.c, false)

	for i := t.tabSize - 1; i >= 0; i-- {
		if t.c == 0 || t.c == t.colOffset {
			break
		}
		if t.tabs.get(t.r, t.c-1) {
			break
		}
		if i > 0 {
			t.c--
		}
	}
}

func (t *Terminal) writeSpaceAt(row, col int, color uint8) {
	cell := MakeCell(' ', color)
	t.sb.set(row, col, cell)
	t.backend.SetCell(row, col, cell)
}

// writeCharInternal dispatches a single byte (spec.md §4.2
// "write_char"). It is the inner-write function handed to a filter.
func (t *Terminal) writeCharInternal(ch byte, color uint8) {
	switch ch {
	case '\n':
		t.c = 0
		t.incrRow(color)
	case '\r':
		t.c = 0
	case '\t':
		t.writeTab(color)
	case '\b':
		t.writeBackspace(color)
	default:
		if t.c == t.cols {
			t.c = 0
			t.incrRow(color)
		}
		t.writePrintable(ch, color)
	}
}

// writeBatch processes one enqueued Write action's whole buffer.
func (t *Terminal) writeBatch(buf []byte, color uint8) {
	t.scrollToBottomNow()
	t.backend.EnableCursor()

	for _, b := range buf {
		if t.useSerial && t.serialSink != nil {
			// Raw bytes mirror pre-filter (SPEC_FULL.md §E(c)).
			t.serialSink.Write([]byte{b})
		}

		if t.filter != nil {
			ch := b
			col := color
			disposition := t.filter(&ch, &col, t.writeCharInternal, t.filterCtx)
			if disposition == WriteChar {
				t.writeCharInternal(ch, col)
			}
		} else {
			t.writeCharInternal(b, color)
		}
	}

	t.backend.MoveCursor(t.r, t.c)
	t.flushIfSupported()
}

// --- erase operations (spec.md §4.3) ---

func (t *Terminal) eraseInLineNow(mode int) {
	blank := BlankCell(DefaultColor)

	switch mode {
	case 0:
		for col := t.c; col < t.cols; col++ {
			t.sb.set(t.r, col, blank)
			t.backend.SetCell(t.r, col, blank)
		}
	case 1:
		for col := 0; col < t.c; col++ {
			t.sb.set(t.r, col, blank)
			t.backend.SetCell(t.r, col, blank)
		}
	case 2:
		t.clearRowBoth(t.r, DefaultColor)
	default:
		return
	}

	t.flushIfSupported()
}

func (t *Terminal) eraseInDisplayNow(mode int) {
	blank := BlankCell(DefaultColor)

	switch mode {
	case 0:
		for col := t.c; col < t.cols; col++ {
			t.sb.set(t.r, col, blank)
			t.backend.SetCell(t.r, col, blank)
		}
		for row := t.r + 1; row < t.rows; row++ {
			t.clearRowBoth(row, DefaultColor)
		}
	case 1:
		for row := 0; row < t.r; row++ {
			t.clearRowBoth(row, DefaultColor)
		}
		for col := 0; col < t.c; col++ {
			t.sb.set(t.r, col, blank)
			t.backend.SetCell(t.r, col, blank)
		}
	case 2:
		for row := 0; row < t.rows; row++ {
			t.clearRowBoth(row, DefaultColor)
		}
	case 3:
		savedRow, savedCol := t.r, t.c
		t.resetNow()
		// The hardware cursor is repositioned to the saved location but
		// the logical (r, c) is left at the reset's (0, 0) — this is
		// literal tilck behavior (term.c term_action_erase_in_display,
		// mode 3), not a Go-port simplification.
		t.backend.MoveCursor(savedRow, savedCol)
	default:
		return
	}

	t.flushIfSupported()
}

// resetNow is tilck's term_action_reset: used only by EraseInDisplay
// mode 3. It is not exposed as its own public operation because spec.md
// §6 does not list one.
func (t *Terminal) resetNow() {
	t.backend.EnableCursor()
	t.moveCursorNow(0, 0)
	t.sb.scroll = 0
	t.sb.maxScroll = 0

	for row := 0; row < t.rows; row++ {
		t.clearRowBoth(row, DefaultColor)
	}

	t.tabs.clear()
}

// --- pause / resume video output (SPEC_FULL.md §D.2) ---

func (t *Terminal) pauseOutputNow() {
	if toggler, ok := staticElemsRefreshToggler(t.backend); ok {
		toggler.DisableStaticElemsRefresh()
	}
	t.backend.DisableCursor()
	t.savedBackend = t.backend
	t.backend = NullBackend{}
}

func (t *Terminal) resumeOutputNow() {
	t.backend = t.savedBackend
	t.savedBackend = nil

	t.redrawNow()
	t.backend.EnableCursor()

	if redrawer, ok := staticElementsRedrawer(t.backend); ok {
		redrawer.RedrawStaticElements()
	}
	if toggler, ok := staticElemsRefreshToggler(t.backend); ok {
		toggler.EnableStaticElemsRefresh()
	}
}
