// Command ktermdemo exercises the kterm core without a GUI, the same
// way the teacher's examples/buffer-only demonstrates the Buffer type
// directly: create a Terminal, feed it some bytes including a few SGR
// escape sequences through escfilter, and print the resulting grid.
//
// Run with: go run ./cmd/ktermdemo
package main

import (
	"fmt"
	"strings"

	"github.com/kerntty/kterm"
	"github.com/kerntty/kterm/escfilter"
)

func main() {
	backend := &printBackend{rows: 10, cols: 40}
	term := kterm.New(backend, 10, 40, kterm.DefaultColor, kterm.Options{})

	f := escfilter.New(term)
	term.SetFilter(f.Filter, nil)

	term.Write([]byte("\x1b[31mHello\x1b[0m World!\n"))
	term.Write([]byte("\x1b[1;32mBold Green\x1b[0m  \x1b[4mUnderlined\x1b[0m\n"))
	term.Write([]byte("tab\there\n"))

	row := term.CurrentRow()
	col := term.CurrentCol()
	fmt.Printf("cursor at row=%d col=%d\n", row, col)

	backend.dump()
}

// printBackend is a VideoBackend that renders to stdout-friendly text,
// grounded on the teacher's CLI renderer (cli/renderer.go) idea of a
// plain-text grid dump, but trimmed to exactly what kterm.VideoBackend
// requires.
type printBackend struct {
	rows, cols int
	grid       []kterm.Cell
}

func (b *printBackend) cell(row, col int) int { return row*b.cols + col }

func (b *printBackend) ensure() {
	if b.grid == nil {
		b.grid = make([]kterm.Cell, b.rows*b.cols)
		for i := range b.grid {
			b.grid[i] = kterm.BlankCell(kterm.DefaultColor)
		}
	}
}

func (b *printBackend) SetCell(row, col int, cell kterm.Cell) {
	b.ensure()
	b.grid[b.cell(row, col)] = cell
}

func (b *printBackend) SetRow(row int, data []kterm.Cell, flush bool) {
	b.ensure()
	copy(b.grid[b.cell(row, 0):b.cell(row, 0)+b.cols], data)
}

func (b *printBackend) ClearRow(row int, color uint8) {
	b.ensure()
	blank := kterm.BlankCell(color)
	start := b.cell(row, 0)
	for i := 0; i < b.cols; i++ {
		b.grid[start+i] = blank
	}
}

func (b *printBackend) MoveCursor(row, col int) {}
func (b *printBackend) EnableCursor()            {}
func (b *printBackend) DisableCursor()           {}

func (b *printBackend) dump() {
	b.ensure()
	for row := 0; row < b.rows; row++ {
		var sb strings.Builder
		for col := 0; col < b.cols; col++ {
			sb.WriteByte(b.grid[b.cell(row, col)].Char())
		}
		fmt.Println(strings.TrimRight(sb.String(), "\x00"))
	}
}

var _ kterm.VideoBackend = (*printBackend)(nil)
