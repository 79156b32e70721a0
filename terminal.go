package kterm

import (
	"io"
	"sync"

	"github.com/kerntty/kterm/internal/ringbuf"
)

// maxWriteLen is the spec.md §6 bound ("len < 1 MiB, enforced by
// assertion; longer writes are clamped"). The public surface is
// infallible (§7), so rather than panic on an oversized write, it is
// silently truncated.
const maxWriteLen = 1 << 20

// Terminal is the kernel text terminal core: a character+attribute grid
// with circular scrollback, sequenced through a single re-entrant action
// queue, with an optional per-byte filter hook layered above it. The zero
// value is not usable; construct with New.
type Terminal struct {
	// mu guards every field below that the drain loop mutates, so that
	// Query* methods (and the rare direct call outside the queue, like
	// New's own setup) observe a consistent snapshot. Actual ordering
	// of mutations is still serialized by drainLock — see queue.go.
	mu sync.RWMutex

	rows, cols int
	r, c       int
	colOffset  int
	tabSize    int
	currentColor uint8

	sb   *scrollback
	tabs *tabMap

	backend      VideoBackend
	savedBackend VideoBackend // set while paused

	filter    FilterFunc
	filterCtx any

	useSerial  bool
	serialSink io.Writer

	logger      Logger
	initialized bool

	// failsafeBuf backs the scrollback in the failsafe path (panic or
	// allocation unavailable in New). An instance field rather than a
	// package-level static, resolving spec.md's Open Question (a): a
	// process-global failsafe buffer would collide across multiple
	// Terminal instances.
	failsafeBuf [80 * 25]Cell

	queue     *ringbuf.Ring[Action]
	drainLock sync.Mutex
	draining  bool // guarded by drainLock, not mu — see queue.go
}

// Options configures New. All fields are optional.
type Options struct {
	// Logger receives the two init-time diagnostics tilck's init_term
	// emits via printk. Defaults to log.Default().
	Logger Logger

	// Panic simulates the kernel's in_panic(): if true, New takes the
	// failsafe path without touching the allocator at all.
	Panic bool

	// AllocatorUnavailable simulates is_kmalloc_initialized() returning
	// false, or the scrollback kmalloc call failing: New takes the
	// failsafe path.
	AllocatorUnavailable bool

	// TabMapUnavailable simulates only the tab-map kzmalloc failing:
	// the scrollback still allocates normally, but backspace behaves as
	// single-cell retract (spec.md §3 "optional: absent in the failsafe
	// path").
	TabMapUnavailable bool

	// UseSerial mirrors raw bytes to SerialSink before any filter runs
	// (SPEC_FULL.md §E(c)), matching tilck term.c's
	// term_serial_con_write ordering.
	UseSerial  bool
	SerialSink io.Writer

	// OnReady is called once New completes, standing in for the
	// kernel's printk_flush_ringbuf() request (spec.md §4.6 step 7).
	OnReady func()
}

// New allocates and initializes a Terminal, mirroring tilck's init_term
// (spec.md §4.6). backend must not be nil; use NullBackend{} for no
// output.
func New(backend VideoBackend, rows, cols int, defaultColor uint8, opts Options) *Terminal {
	if backend == nil {
		panic("kterm: backend must not be nil")
	}

	t := &Terminal{
		tabSize:      8,
		backend:      backend,
		useSerial:    opts.UseSerial,
		serialSink:   opts.SerialSink,
		logger:       opts.Logger,
		currentColor: defaultColor,
	}
	if t.logger == nil {
		t.logger = defaultLogger()
	}

	t.queue = newActionQueue()

	failsafe := opts.Panic || opts.AllocatorUnavailable
	if !failsafe {
		extraRows := 9 * rows
		totalRows := rows + extraRows
		t.rows, t.cols = rows, cols
		t.sb = newScrollback(cols, totalRows, extraRows)

		if !opts.TabMapUnavailable {
			t.tabs = newTabMap(rows, cols)
		} else {
			t.logger.Printf("WARNING: unable to allocate the term_tabs buffer\n")
		}
	} else {
		if rows > 25 {
			rows = 25
		}
		if cols > 80 {
			cols = 80
		}
		t.rows, t.cols = rows, cols
		t.sb = newScrollbackWithBacking(cols, rows, 0, t.failsafeBuf[:])
		if !opts.Panic {
			t.logger.Printf("ERROR: unable to allocate the term buffer.\n")
		}
	}

	t.backend.EnableCursor()
	t.moveCursorNow(0, 0)
	for row := 0; row < t.rows; row++ {
		t.clearRowBoth(row, defaultColor)
	}

	t.initialized = true
	if opts.OnReady != nil {
		opts.OnReady()
	}
	return t
}

// --- public operations (all enqueue-then-maybe-drain, spec.md §6) ---

// Write writes buf using the current color.
func (t *Terminal) Write(buf []byte) {
	t.WriteColored(buf, t.CurrentColor())
}

// WriteColored writes buf using the given packed color.
func (t *Terminal) WriteColored(buf []byte, color uint8) {
	if len(buf) > maxWriteLen {
		buf = buf[:maxWriteLen]
	}
	cp := make([]byte, len(buf))
	copy(cp, buf)
	t.enqueue(writeAction(cp, color))
}

// MoveCursor repositions the cursor, clamped to the grid.
func (t *Terminal) MoveCursor(row, col int) {
	t.enqueue(moveCursorAction(row, col))
}

// ScrollUp scrolls the viewport up by n lines (toward history).
func (t *Terminal) ScrollUp(n int) {
	t.enqueue(scrollUpAction(n))
}

// ScrollDown scrolls the viewport down by n lines (toward the present).
func (t *Terminal) ScrollDown(n int) {
	t.enqueue(scrollDownAction(n))
}

// ScrollToBottom snaps the viewport to the most recent rows.
func (t *Terminal) ScrollToBottom() {
	t.enqueue(scrollDownAction(0).withBottom())
}

// SetColor sets the color used by subsequent unColored writes.
func (t *Terminal) SetColor(color uint8) {
	t.enqueue(setColorAction(color))
}

// SetColumnOffset sets the lower bound backspace will not retract past,
// used to protect a prompt prefix.
func (t *Terminal) SetColumnOffset(off int) {
	t.enqueue(setColOffsetAction(off))
}

// SetFilter installs or removes (fn == nil) the per-byte filter hook.
func (t *Terminal) SetFilter(fn FilterFunc, ctx any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filter = fn
	t.filterCtx = ctx
}

// PauseOutput swaps in a NullBackend, saving the current one, used while
// another subsystem (e.g. a debug panel) owns the screen.
func (t *Terminal) PauseOutput() {
	t.enqueue(Action{kind: actionPauseVideo})
}

// ResumeOutput restores the backend saved by PauseOutput and redraws.
func (t *Terminal) ResumeOutput() {
	t.enqueue(Action{kind: actionResumeVideo})
}

// EraseInLine implements CSI K semantics: mode 0 cursor-to-end, 1
// start-to-cursor, 2 whole line. Out-of-range modes are a no-op.
func (t *Terminal) EraseInLine(mode int) {
	t.enqueue(Action{kind: actionEraseInLine, lines: mode})
}

// EraseInDisplay implements CSI J semantics: mode 0 cursor-to-end-of-
// screen, 1 start-of-screen-to-cursor, 2 whole screen, 3 whole screen
// plus scrollback reset. Out-of-range modes are a no-op.
func (t *Terminal) EraseInDisplay(mode int) {
	t.enqueue(Action{kind: actionEraseInDisplay, lines: mode})
}

// --- queries ---

func (t *Terminal) IsInitialized() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.initialized
}

func (t *Terminal) Rows() int { t.mu.RLock(); defer t.mu.RUnlock(); return t.rows }
func (t *Terminal) Cols() int { t.mu.RLock(); defer t.mu.RUnlock(); return t.cols }

func (t *Terminal) CurrentRow() int { t.mu.RLock(); defer t.mu.RUnlock(); return t.r }
func (t *Terminal) CurrentCol() int { t.mu.RLock(); defer t.mu.RUnlock(); return t.c }

func (t *Terminal) TabSize() int { t.mu.RLock(); defer t.mu.RUnlock(); return t.tabSize }

func (t *Terminal) CurrentColor() uint8 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.currentColor
}

// Scroll returns the current viewport position and the highest position
// ever reached, for tests asserting the invariants in spec.md §8.
func (t *Terminal) Scroll() (scroll, maxScroll uint32) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sb.scroll, t.sb.maxScroll
}

func defaultLogger() Logger {
	return stdlog
}
