// Package fbqt implements a kterm.VideoBackend on a Qt QWidget, painting
// the cell grid with QPainter.FillRect5/DrawText3 the way the teacher's
// qt/widget.go paints its Buffer — trimmed to a plain monospace grid: no
// glyph cache, no shortcut/context-menu wiring, no sprite or split-screen
// layers, since SPEC_FULL.md's scope is the character+attribute grid.
package fbqt

import (
	"github.com/mappu/miqt/qt"

	"github.com/kerntty/kterm"
)

const (
	defaultCharWidth  = 9
	defaultCharHeight = 18
)

// Backend renders a kterm grid onto a QWidget. Like fbgtk, it keeps its
// own copy of every cell so paintEvent can repaint without calling back
// into the Terminal while dispatch holds its lock.
type Backend struct {
	widget *qt.QWidget

	rows, cols   int
	charW, charH int

	grid      []kterm.Cell
	cursorRow int
	cursorCol int
	cursorOn  bool
}

// New creates a QWidget sized for rows x cols and returns a Backend
// painting onto it, mirroring the teacher's NewWidget + OnPaintEvent
// wiring.
func New(rows, cols int) *Backend {
	widget := qt.NewQWidget2()
	widget.SetFixedSize2(cols*defaultCharWidth, rows*defaultCharHeight)

	b := &Backend{
		widget: widget,
		rows:   rows,
		cols:   cols,
		charW:  defaultCharWidth,
		charH:  defaultCharHeight,
		grid:   make([]kterm.Cell, rows*cols),
	}
	for i := range b.grid {
		b.grid[i] = kterm.BlankCell(kterm.DefaultColor)
	}

	widget.OnPaintEvent(func(super func(event *qt.QPaintEvent), event *qt.QPaintEvent) {
		b.paintEvent()
	})

	return b
}

// Widget returns the Qt widget for embedding in a window.
func (b *Backend) Widget() *qt.QWidget {
	return b.widget
}

func (b *Backend) index(row, col int) int {
	return row*b.cols + col
}

func (b *Backend) SetCell(row, col int, cell kterm.Cell) {
	b.grid[b.index(row, col)] = cell
	b.widget.Update()
}

func (b *Backend) SetRow(row int, data []kterm.Cell, flush bool) {
	copy(b.grid[b.index(row, 0):b.index(row, 0)+b.cols], data)
	if flush {
		b.widget.Update()
	}
}

func (b *Backend) ClearRow(row int, color uint8) {
	blank := kterm.BlankCell(color)
	start := b.index(row, 0)
	for i := 0; i < b.cols; i++ {
		b.grid[start+i] = blank
	}
	b.widget.Update()
}

func (b *Backend) MoveCursor(row, col int) {
	b.cursorRow, b.cursorCol = row, col
	b.widget.Update()
}

func (b *Backend) EnableCursor() {
	b.cursorOn = true
	b.widget.Update()
}

func (b *Backend) DisableCursor() {
	b.cursorOn = false
	b.widget.Update()
}

// FlushBuffers satisfies kterm.BufferFlusher.
func (b *Backend) FlushBuffers() {
	b.widget.Update()
}

func qColorOf(rgb kterm.RGB) *qt.QColor {
	return qt.NewQColor3(int(rgb.R), int(rgb.G), int(rgb.B))
}

func (b *Backend) paintEvent() {
	painter := qt.NewQPainter2(b.widget.QPaintDevice)
	defer painter.End()

	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			cell := b.grid[b.index(row, col)]
			cellX, cellY := col*b.charW, row*b.charH

			bg := kterm.ResolveRGB(kterm.Background(cell.Color()))
			painter.FillRect5(cellX, cellY, b.charW, b.charH, qColorOf(bg))

			if cell.Char() == ' ' {
				continue
			}
			fg := kterm.ResolveRGB(kterm.Foreground(cell.Color()))
			painter.SetPen(qColorOf(fg))
			painter.DrawText3(cellX, cellY+b.charH*3/4, string(cell.Char()))
		}
	}

	if b.cursorOn {
		cursorColor := qt.NewQColor3(255, 255, 255)
		painter.FillRect5(b.cursorCol*b.charW, b.cursorRow*b.charH, b.charW, 2, cursorColor)
	}
}

var _ kterm.VideoBackend = (*Backend)(nil)
var _ kterm.BufferFlusher = (*Backend)(nil)
