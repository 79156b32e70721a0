// Package vgacon implements a kterm.VideoBackend on top of a real
// ANSI-capable terminal, standing in for VGA text mode (spec.md §1).
// Grounded on the teacher's cli/ package (a host-terminal-backed
// renderer for the same Buffer concept) for the overall shape, using
// golang.org/x/term for raw-mode setup and golang.org/x/sys for the
// window-size ioctl the teacher's pty_unix.go performs by hand via cgo.
package vgacon

import (
	"fmt"
	"io"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/kerntty/kterm"
)

// sgrFg/sgrBg map the 16-color VGA palette to ANSI SGR codes.
var sgrFg = [16]int{30, 34, 32, 36, 31, 35, 33, 37, 90, 94, 92, 96, 91, 95, 93, 97}
var sgrBg = [16]int{40, 44, 42, 46, 41, 45, 43, 47, 100, 104, 102, 106, 101, 105, 103, 107}

// Backend draws cells immediately to out using ANSI cursor addressing and
// SGR color codes — a direct backend with no scroll or static-element
// fast path, matching a real VGA text-mode card (every SetCell write is
// already visible in hardware). FlushBuffers only matters when out is
// itself buffered.
type Backend struct {
	out   io.Writer
	oldState *term.State
	fd    int
}

// Open puts the file descriptor fd (typically os.Stdin.Fd()) into raw
// mode and returns a Backend writing escape sequences to out.
func Open(fd int, out io.Writer) (*Backend, error) {
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("vgacon: make raw: %w", err)
	}
	return &Backend{out: out, oldState: old, fd: fd}, nil
}

// Close restores the terminal's prior mode.
func (b *Backend) Close() error {
	if b.oldState == nil {
		return nil
	}
	return term.Restore(b.fd, b.oldState)
}

// WindowSize reports the current terminal size via TIOCGWINSZ, used to
// size the Terminal at startup (SPEC_FULL.md §C).
func WindowSize(fd int) (rows, cols int, err error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("vgacon: get winsize: %w", err)
	}
	return int(ws.Row), int(ws.Col), nil
}

func (b *Backend) sgr(color uint8) string {
	fg := kterm.Foreground(color)
	bg := kterm.Background(color)
	return fmt.Sprintf("\x1b[0;%d;%dm", sgrFg[fg], sgrBg[bg])
}

func (b *Backend) SetCell(row, col int, cell kterm.Cell) {
	fmt.Fprintf(b.out, "\x1b[%d;%dH%s%c", row+1, col+1, b.sgr(cell.Color()), printable(cell.Char()))
}

func (b *Backend) SetRow(row int, data []kterm.Cell, flush bool) {
	fmt.Fprintf(b.out, "\x1b[%d;1H", row+1)
	for _, cell := range data {
		fmt.Fprintf(b.out, "%s%c", b.sgr(cell.Color()), printable(cell.Char()))
	}
}

func (b *Backend) ClearRow(row int, color uint8) {
	fmt.Fprintf(b.out, "\x1b[%d;1H%s\x1b[K", row+1, b.sgr(color))
}

func (b *Backend) MoveCursor(row, col int) {
	fmt.Fprintf(b.out, "\x1b[%d;%dH", row+1, col+1)
}

func (b *Backend) EnableCursor()  { fmt.Fprint(b.out, "\x1b[?25h") }
func (b *Backend) DisableCursor() { fmt.Fprint(b.out, "\x1b[?25l") }

// FlushBuffers satisfies kterm.BufferFlusher: os.Stdout and similar
// writers are unbuffered, but a bufio.Writer passed as out benefits from
// the explicit flush point the core already calls after every batch.
func (b *Backend) FlushBuffers() {
	if f, ok := b.out.(interface{ Flush() error }); ok {
		f.Flush()
	}
}

func printable(ch byte) rune {
	if ch < 0x20 || ch == 0x7f {
		return ' '
	}
	return rune(ch)
}

var _ kterm.VideoBackend = (*Backend)(nil)
var _ kterm.BufferFlusher = (*Backend)(nil)
