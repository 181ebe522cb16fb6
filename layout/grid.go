// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"cxui.org/errs"
	"cxui.org/f32"
)

// Grid partitions the area into Columns by Rows equal cells and fills
// them left to right, top to bottom, one child per cell. Children
// beyond the last cell are clamped to it and overlap its occupant.
type Grid struct {
	Columns, Rows int
	// GapX and GapY separate adjacent columns and rows.
	GapX, GapY float32
}

func (g Grid) Validate() error {
	const op = "layout.Grid"
	switch {
	case g.Columns <= 0:
		return errs.LayoutConfig(op, "columns must be positive, got %d", g.Columns)
	case g.Rows <= 0:
		return errs.LayoutConfig(op, "rows must be positive, got %d", g.Rows)
	case g.GapX < 0 || g.GapY < 0:
		return errs.LayoutConfig(op, "negative gap (%v, %v)", g.GapX, g.GapY)
	}
	return nil
}

// Cell returns the column and row of the i'th visible child.
func (g Grid) Cell(i int) (col, row int) {
	i = min(i, g.Columns*g.Rows-1)
	return i % g.Columns, i / g.Columns
}

func (g Grid) measure(nodes []Node) f32.Size {
	if g.Columns <= 0 || g.Rows <= 0 {
		return f32.Size{}
	}
	var cell f32.Size
	for _, n := range visible(nodes) {
		sz := preferred(n)
		cell.W = max(cell.W, sz.W)
		cell.H = max(cell.H, sz.H)
	}
	cols, rows := float32(g.Columns), float32(g.Rows)
	return f32.Size{
		W: cols*cell.W + (cols-1)*g.GapX,
		H: rows*cell.H + (rows-1)*g.GapY,
	}
}

func (g Grid) arrange(area f32.Rect, nodes []Node) {
	if g.Columns <= 0 || g.Rows <= 0 {
		return
	}
	cols, rows := float32(g.Columns), float32(g.Rows)
	cw := max((area.W-(cols-1)*g.GapX)/cols, 0)
	ch := max((area.H-(rows-1)*g.GapY)/rows, 0)
	for i, n := range visible(nodes) {
		col, row := g.Cell(i)
		sz := constrain(n, f32.Size{W: cw, H: ch})
		r := f32.Rect{
			X: area.X + float32(col)*(cw+g.GapX),
			Y: area.Y + float32(row)*(ch+g.GapY),
			W: sz.W,
			H: sz.H,
		}
		n.Place(r.Intersect(area))
	}
}
