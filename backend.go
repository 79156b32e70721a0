package kterm

// VideoBackend is the capability set a concrete display driver must
// provide, grounded on tilck's include/exos/kernel/term.h video_interface
// (a struct of function pointers) and spec.md §9's design note: "express
// the backend as a value holding function references ... Do not model it
// as a subclass hierarchy." Go expresses the required capabilities as a
// plain interface and the optional ones as separate interfaces a backend
// may or may not also satisfy, probed with a type assertion — there is no
// shared state between backends, so there is nothing for an embedded base
// type to usefully hold.
type VideoBackend interface {
	// SetCell draws a single cell at (row, col).
	SetCell(row, col int, cell Cell)

	// SetRow draws an entire row from data, which has exactly cols
	// entries. If flush is true the backend should make the row visible
	// immediately rather than batching it; callers doing a full-screen
	// redraw set flush on every row.
	SetRow(row int, data []Cell, flush bool)

	// ClearRow fills an entire row with blanks of the given color.
	ClearRow(row int, color uint8)

	// MoveCursor repositions the visible cursor.
	MoveCursor(row, col int)

	// EnableCursor / DisableCursor show or hide the cursor glyph.
	EnableCursor()
	DisableCursor()
}

// ScrollOneLineUpper is an optional fast path for backends that can
// scroll their own retained image up by one line (e.g. hardware
// scroll registers, or a framebuffer with a blit-based scroll). The core
// assumes such a backend owns no state the ring cannot reconstruct via
// SetRow — see SPEC_FULL.md §E(b).
type ScrollOneLineUpper interface {
	ScrollOneLineUp()
}

// BufferFlusher is an optional batch-commit hook, called after a write
// batch or a cursor move so backends that buffer draws can present them
// atomically.
type BufferFlusher interface {
	FlushBuffers()
}

// StaticElementsRedrawer is an optional hook for backends that render
// chrome outside the character grid (borders, status lines) and need to
// repaint it after a pause/resume cycle.
type StaticElementsRedrawer interface {
	RedrawStaticElements()
}

// StaticElemsRefreshToggler is an optional pair of hooks letting a
// backend suspend its own periodic redraw of static elements while video
// output is paused (e.g. while a debug panel owns the screen).
type StaticElemsRefreshToggler interface {
	DisableStaticElemsRefresh()
	EnableStaticElemsRefresh()
}

func scrollOneLineUpper(vi VideoBackend) (ScrollOneLineUpper, bool) {
	s, ok := vi.(ScrollOneLineUpper)
	return s, ok
}

func bufferFlusher(vi VideoBackend) (BufferFlusher, bool) {
	f, ok := vi.(BufferFlusher)
	return f, ok
}

func staticElementsRedrawer(vi VideoBackend) (StaticElementsRedrawer, bool) {
	r, ok := vi.(StaticElementsRedrawer)
	return r, ok
}

func staticElemsRefreshToggler(vi VideoBackend) (StaticElemsRefreshToggler, bool) {
	t, ok := vi.(StaticElemsRefreshToggler)
	return t, ok
}

// NullBackend is a no-op VideoBackend, ported from tilck term.c's
// no_output_vi: used while video output is paused (§4.5) so drained
// actions still have somewhere safe to dispatch to.
type NullBackend struct{}

func (NullBackend) SetCell(row, col int, cell Cell)  {}
func (NullBackend) SetRow(row int, data []Cell, flush bool) {}
func (NullBackend) ClearRow(row int, color uint8)    {}
func (NullBackend) MoveCursor(row, col int)          {}
func (NullBackend) EnableCursor()                    {}
func (NullBackend) DisableCursor()                   {}
