package kterm

// Action is a closed sum type of queued mutation requests, matching
// spec.md §3's tagged union (Write/MoveCursor/ScrollUp/ScrollDown/
// SetColor/SetColOffset) plus erase operations (§4.3) and the
// pause/resume pair supplemented from tilck term.c's
// term_action_pause_video_output/restart_video_output (SPEC_FULL.md
// §D.2). Stored by value in the 32-slot action ring
// (internal/ringbuf.Ring[Action]).
type Action struct {
	kind actionKind

	// Write
	buf   []byte
	color uint8

	// MoveCursor
	row, col int

	// ScrollUp / ScrollDown / EraseInLine(mode) / EraseInDisplay(mode)
	lines int
	toBottom bool

	// SetColOffset
	offset int
}

type actionKind int

const (
	actionWrite actionKind = iota
	actionMoveCursor
	actionScrollUp
	actionScrollDown
	actionSetColor
	actionSetColOffset
	actionPauseVideo
	actionResumeVideo
	actionEraseInLine
	actionEraseInDisplay
)

func writeAction(buf []byte, color uint8) Action {
	return Action{kind: actionWrite, buf: buf, color: color}
}

func moveCursorAction(row, col int) Action {
	return Action{kind: actionMoveCursor, row: row, col: col}
}

func scrollUpAction(lines int) Action {
	return Action{kind: actionScrollUp, lines: lines}
}

func scrollDownAction(lines int) Action {
	return Action{kind: actionScrollDown, lines: lines}
}

// withBottom marks a ScrollDown action as an unconditional snap to the
// bottom of scrollback (used by Terminal.ScrollToBottom), rather than a
// relative scroll by `lines`.
func (a Action) withBottom() Action {
	a.toBottom = true
	return a
}

func setColorAction(color uint8) Action {
	return Action{kind: actionSetColor, color: color}
}

func setColOffsetAction(offset int) Action {
	return Action{kind: actionSetColOffset, offset: offset}
}

// dispatch executes a drained action. Only called from within the drain
// loop (queue.go), so at most one goroutine runs this at a time; mu still
// guards the mutated fields so concurrent Query* calls see a consistent
// snapshot (spec.md §5: "mutated only from inside the drain loop").
func (t *Terminal) dispatch(a Action) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch a.kind {
	case actionWrite:
		t.writeBatch(a.buf, a.color)
	case actionMoveCursor:
		t.moveCursorNow(a.row, a.col)
	case actionScrollUp:
		t.scrollUpNow(a.lines)
	case actionScrollDown:
		if a.toBottom {
			t.setScrollNow(t.sb.maxScroll)
			t.afterScrollSettle()
		} else {
			t.scrollDownNow(a.lines)
		}
	case actionSetColor:
		t.currentColor = a.color
	case actionSetColOffset:
		t.colOffset = a.offset
	case actionPauseVideo:
		t.pauseOutputNow()
	case actionResumeVideo:
		t.resumeOutputNow()
	case actionEraseInLine:
		t.eraseInLineNow(a.lines)
	case actionEraseInDisplay:
		t.eraseInDisplayNow(a.lines)
	}
}
