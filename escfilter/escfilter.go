// Package escfilter implements kterm.FilterFunc for a small subset of
// ANSI/VT escape sequences, adapted from the teacher's parser.go state
// machine shape (ground/escape/CSI states, parameter accumulation,
// SGR/CSI dispatch) but trimmed to SGR color: other CSI sequences (cursor
// movement, erase in line/display) are parsed and consumed but not
// applied (see executeCSI). Sprite, charset, OSC, and DEC line-attribute
// handling have no SPEC_FULL.md surface and are dropped.
package escfilter

import (
	"github.com/kerntty/kterm"
)

type state int

const (
	stateGround state = iota
	stateEscape
	stateCSI
)

// Filter holds escape-sequence parser state across successive Write
// calls and applies recognized sequences to an attached Terminal via its
// public API, never reaching into terminal internals directly.
type Filter struct {
	term *kterm.Terminal

	st     state
	params []int
	cur    int
	hasCur bool
	priv   bool // '?' prefix, e.g. CSI ? 25 h

	// curColor and haveColor track the color most recently set by SGR,
	// applied directly to every ground-state byte's *color out-parameter.
	// This has to live here rather than rely on Terminal.SetColor: that
	// enqueues, and the drain loop servicing it is the very one currently
	// inside writeBatch calling this filter, so it cannot take effect
	// until the whole batch is done — too late to color the rest of the
	// bytes in the same Write call.
	curColor  uint8
	haveColor bool
}

// New returns a Filter driving term. Attach it with
// term.SetFilter(f.Filter, nil).
func New(term *kterm.Terminal) *Filter {
	return &Filter{term: term}
}

// Filter implements kterm.FilterFunc.
func (f *Filter) Filter(ch *byte, color *uint8, innerWrite kterm.InnerWriteFunc, ctx any) kterm.WriteDisposition {
	b := *ch

	switch f.st {
	case stateGround:
		if b == 0x1b {
			f.st = stateEscape
			return kterm.Blank
		}
		if f.haveColor {
			*color = f.curColor
		}
		return kterm.WriteChar

	case stateEscape:
		switch b {
		case '[':
			f.st = stateCSI
			f.params = f.params[:0]
			f.cur = 0
			f.hasCur = false
			f.priv = false
		default:
			// Unsupported escape (charset select, OSC, DEC line attr):
			// swallow just the introducer and resume ground state,
			// matching the teacher's ESC-only sequences being no-ops
			// when their target feature (sprites, splits) is absent.
			// The byte that follows ESC is lost rather than re-examined
			// as a ground-state byte; the trimmed subset has no caller
			// that sends an unsupported escape immediately followed by
			// a printable byte that still needs to reach the grid.
			f.st = stateGround
		}
		return kterm.Blank

	case stateCSI:
		return f.handleCSI(b, color)
	}

	f.st = stateGround
	return kterm.WriteChar
}

func (f *Filter) handleCSI(b byte, color *uint8) kterm.WriteDisposition {
	switch {
	case b == '?' && len(f.params) == 0 && !f.hasCur:
		f.priv = true
		return kterm.Blank
	case b >= '0' && b <= '9':
		f.cur = f.cur*10 + int(b-'0')
		f.hasCur = true
		return kterm.Blank
	case b == ';':
		f.params = append(f.params, f.cur)
		f.cur = 0
		f.hasCur = false
		return kterm.Blank
	}

	if f.hasCur || len(f.params) == 0 {
		f.params = append(f.params, f.cur)
	}
	f.executeCSI(b, f.params, color)

	f.st = stateGround
	f.params = f.params[:0]
	f.cur = 0
	f.hasCur = false
	f.priv = false
	return kterm.Blank
}

// executeCSI applies the recognized final byte. Only SGR is handled:
// the filter runs synchronously inside Terminal.dispatch's write-action
// processing (SPEC_FULL.md §E), so any CSI that needs to mutate cursor
// or grid state would have to go through the public, queue-based
// Terminal methods (MoveCursor, EraseInLine, EraseInDisplay) — those
// enqueue and return immediately rather than applying the change at this
// exact point in the byte stream, since the drain loop that would run
// them is the same one currently inside writeBatch. SGR can be applied
// synchronously where those can't, but only because the filter tracks
// the active color itself (curColor/haveColor above) and stamps it onto
// every subsequent ground-state byte's *color directly; the 'm' byte
// itself is Blank and never drawn, so a color change only reaches the
// grid through that per-byte stamping, not through this call. Cursor/
// erase control sequences are therefore out of scope for this filter; a
// future filter wanting them would need its own direct reference to the
// unexported write path, not the public API.
func (f *Filter) executeCSI(final byte, params []int, color *uint8) {
	if f.priv {
		// Private-mode sequences (DEC cursor show/hide etc.) have no
		// SPEC_FULL.md surface; ignored.
		return
	}

	switch final {
	case 'm': // SGR
		f.executeSGR(params, color)
	}
}

// ansiToVGA maps the 8 standard ANSI SGR color indices (black, red,
// green, yellow, blue, magenta, cyan, white) to the VGA palette index
// used by kterm.MakeColor, whose ordering (black, blue, green, cyan,
// red, magenta, brown, light grey, ...) is the hardware register order,
// not the terminal-emulator convention.
var ansiToVGA = [8]int{
	kterm.ColorBlack,
	kterm.ColorRed,
	kterm.ColorGreen,
	kterm.ColorBrown, // ANSI yellow renders as VGA brown at normal intensity
	kterm.ColorBlue,
	kterm.ColorMagenta,
	kterm.ColorCyan,
	kterm.ColorLightGrey,
}

var ansiToVGABright = [8]int{
	kterm.ColorDarkGrey,
	kterm.ColorLightRed,
	kterm.ColorLightGreen,
	kterm.ColorLightBrown,
	kterm.ColorLightBlue,
	kterm.ColorLightMagenta,
	kterm.ColorLightCyan,
	kterm.ColorWhite,
}

// executeSGR applies a trimmed subset of SGR codes: reset and the 16
// standard/bright foreground and background colors. True color, bold,
// underline and blink attributes have no representation in the packed
// 16-color cell (SPEC_FULL.md §C) and are ignored.
//
// The result is recorded as the filter's own curColor, which is what
// actually colors the bytes still to come in this batch (see the
// stateGround case in Filter). Terminal.SetColor is also called so a
// later, separate Write call still starts in the color SGR left active;
// that call is deferred behind the action queue like any other enqueue,
// which is fine for persistence across Write calls but is not what makes
// same-batch coloring work.
func (f *Filter) executeSGR(params []int, color *uint8) {
	if len(params) == 0 {
		params = []int{0}
	}
	fg := kterm.Foreground(f.curColor)
	bg := kterm.Background(f.curColor)
	if !f.haveColor {
		fg = kterm.Foreground(*color)
		bg = kterm.Background(*color)
	}

	for _, p := range params {
		switch {
		case p == 0:
			fg, bg = kterm.Foreground(kterm.DefaultColor), kterm.Background(kterm.DefaultColor)
		case p >= 30 && p <= 37:
			fg = ansiToVGA[p-30]
		case p >= 40 && p <= 47:
			bg = ansiToVGA[p-40]
		case p >= 90 && p <= 97:
			fg = ansiToVGABright[p-90]
		case p >= 100 && p <= 107:
			bg = ansiToVGABright[p-100]
		}
	}

	f.curColor = kterm.MakeColor(fg, bg)
	f.haveColor = true
	*color = f.curColor
	f.term.SetColor(f.curColor)
}
