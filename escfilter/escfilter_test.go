package escfilter_test

import (
	"testing"

	"github.com/kerntty/kterm"
	"github.com/kerntty/kterm/escfilter"
)

// recordingBackend is a NullBackend that also remembers the last cell
// drawn at each (row, col), so tests in this external package can assert
// on the grid without reaching into kterm.Terminal's unexported fields.
type recordingBackend struct {
	kterm.NullBackend
	cells map[[2]int]kterm.Cell
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{cells: make(map[[2]int]kterm.Cell)}
}

func (b *recordingBackend) SetCell(row, col int, cell kterm.Cell) {
	b.cells[[2]int{row, col}] = cell
}

func (b *recordingBackend) at(row, col int) kterm.Cell {
	return b.cells[[2]int{row, col}]
}

func newTestTerminal() *kterm.Terminal {
	return kterm.New(kterm.NullBackend{}, 3, 20, kterm.DefaultColor, kterm.Options{})
}

func TestSGRSetsForegroundColor(t *testing.T) {
	backend := newRecordingBackend()
	term := kterm.New(backend, 3, 20, kterm.DefaultColor, kterm.Options{})
	f := escfilter.New(term)
	term.SetFilter(f.Filter, nil)

	term.Write([]byte("\x1b[31mHello"))

	cell := backend.at(0, 0)
	if got := cell.Char(); got != 'H' {
		t.Fatalf("(0,0) char = %q, want 'H'", got)
	}
	if got := kterm.Foreground(cell.Color()); got != kterm.ColorRed {
		t.Errorf("(0,0) foreground = %d, want %d (red)", got, kterm.ColorRed)
	}

	// The color also persists as the terminal's current color for a
	// later, separate Write call.
	color := term.CurrentColor()
	if got := kterm.Foreground(color); got != kterm.ColorRed {
		t.Errorf("CurrentColor foreground = %d, want %d (red)", got, kterm.ColorRed)
	}
}

func TestSGRResetRestoresDefault(t *testing.T) {
	backend := newRecordingBackend()
	term := kterm.New(backend, 3, 20, kterm.DefaultColor, kterm.Options{})
	f := escfilter.New(term)
	term.SetFilter(f.Filter, nil)

	term.Write([]byte("\x1b[32mHi\x1b[0mPlain"))

	// 'P' of "Plain" lands after the reset and must be back to default.
	cell := backend.at(0, 2)
	if got := cell.Char(); got != 'P' {
		t.Fatalf("(0,2) char = %q, want 'P'", got)
	}
	if cell.Color() != kterm.DefaultColor {
		t.Errorf("(0,2) color = %#x, want default %#x", cell.Color(), kterm.DefaultColor)
	}

	color := term.CurrentColor()
	if color != kterm.DefaultColor {
		t.Errorf("CurrentColor = %#x, want default %#x", color, kterm.DefaultColor)
	}
}

func TestEscapeSequenceBytesAreNotPrinted(t *testing.T) {
	term := newTestTerminal()
	f := escfilter.New(term)
	term.SetFilter(f.Filter, nil)

	term.Write([]byte("\x1b[31mHi"))

	if term.CurrentCol() != 2 {
		t.Errorf("col = %d, want 2 (only 'H','i' printed)", term.CurrentCol())
	}
}
