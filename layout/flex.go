// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"fmt"

	"cxui.org/errs"
	"cxui.org/f32"
)

// Flex lays out children in a line along Direction.
type Flex struct {
	// Direction is the main axis.
	Direction Direction
	// Justify distributes the space left on the main axis.
	Justify Justify
	// Align positions children on the cross axis.
	Align Align
	// Gap is the minimum space between consecutive children.
	Gap float32
}

// Direction is the main axis of a Flex.
type Direction uint8

const (
	Row Direction = iota
	Column
)

// Justify determines how a Flex distributes leftover main axis space.
type Justify uint8

const (
	// JustifyStart packs children at the start.
	JustifyStart Justify = iota
	// JustifyEnd packs children at the end.
	JustifyEnd
	// JustifyCenter packs children in the middle.
	JustifyCenter
	// JustifySpaceBetween distributes space evenly between children,
	// leaving no space at the start and end. A single child is
	// placed at the start.
	JustifySpaceBetween
	// JustifySpaceAround distributes space evenly between children,
	// with half as much space at the start and end.
	JustifySpaceAround
	// JustifySpaceEvenly makes the space before, between and after
	// children equal.
	JustifySpaceEvenly
)

// Align determines the cross axis position of Flex children.
type Align uint8

const (
	AlignStart Align = iota
	AlignEnd
	AlignCenter
	// AlignStretch sizes children to the full cross axis.
	AlignStretch
)

func (d Direction) String() string {
	switch d {
	case Row:
		return "Row"
	case Column:
		return "Column"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

func (j Justify) String() string {
	switch j {
	case JustifyStart:
		return "Start"
	case JustifyEnd:
		return "End"
	case JustifyCenter:
		return "Center"
	case JustifySpaceBetween:
		return "SpaceBetween"
	case JustifySpaceAround:
		return "SpaceAround"
	case JustifySpaceEvenly:
		return "SpaceEvenly"
	default:
		return fmt.Sprintf("Justify(%d)", uint8(j))
	}
}

func (f Flex) Validate() error {
	const op = "layout.Flex"
	switch {
	case f.Gap < 0:
		return errs.LayoutConfig(op, "negative gap %v", f.Gap)
	case f.Direction > Column:
		return errs.LayoutConfig(op, "unknown direction %d", f.Direction)
	case f.Justify > JustifySpaceEvenly:
		return errs.LayoutConfig(op, "unknown justify %d", f.Justify)
	case f.Align > AlignStretch:
		return errs.LayoutConfig(op, "unknown align %d", f.Align)
	}
	return nil
}

// mainCross splits a size into its main and cross axis components.
func (f Flex) mainCross(sz f32.Size) (float32, float32) {
	if f.Direction == Row {
		return sz.W, sz.H
	}
	return sz.H, sz.W
}

// rect builds a rectangle from main and cross axis components.
func (f Flex) rect(main, cross, mainSize, crossSize float32) f32.Rect {
	if f.Direction == Row {
		return f32.Rect{X: main, Y: cross, W: mainSize, H: crossSize}
	}
	return f32.Rect{X: cross, Y: main, W: crossSize, H: mainSize}
}

func (f Flex) measure(nodes []Node) f32.Size {
	vis := visible(nodes)
	var main, cross float32
	for i, n := range vis {
		m, c := f.mainCross(preferred(n))
		main += m
		if i > 0 {
			main += f.Gap
		}
		cross = max(cross, c)
	}
	if f.Direction == Row {
		return f32.Size{W: main, H: cross}
	}
	return f32.Size{W: cross, H: main}
}

func (f Flex) arrange(area f32.Rect, nodes []Node) {
	vis := visible(nodes)
	if len(vis) == 0 {
		return
	}
	availMain, availCross := f.mainCross(area.Size())
	origMain, origCross := area.X, area.Y
	if f.Direction == Column {
		origMain, origCross = area.Y, area.X
	}
	sizes := make([]f32.Size, len(vis))
	total := f.Gap * float32(len(vis)-1)
	for i, n := range vis {
		sizes[i] = preferred(n)
		m, _ := f.mainCross(sizes[i])
		total += m
	}
	// Overflowing children start at the beginning and are clipped.
	leftover := max(availMain-total, 0)
	offset, between := float32(0), f.Gap
	n := float32(len(vis))
	switch f.Justify {
	case JustifyEnd:
		offset = leftover
	case JustifyCenter:
		offset = leftover / 2
	case JustifySpaceBetween:
		if len(vis) > 1 {
			between += leftover / (n - 1)
		}
	case JustifySpaceAround:
		space := leftover / n
		offset = space / 2
		between += space
	case JustifySpaceEvenly:
		space := leftover / (n + 1)
		offset = space
		between += space
	}
	pos := origMain + offset
	for i, node := range vis {
		m, c := f.mainCross(sizes[i])
		cs := min(c, availCross)
		var cpos float32
		switch f.Align {
		case AlignEnd:
			cpos = availCross - cs
		case AlignCenter:
			cpos = (availCross - cs) / 2
		case AlignStretch:
			_, cs = f.mainCross(constrain(node, f.rect(0, 0, m, availCross).Size()))
		}
		r := f.rect(pos, origCross+cpos, m, cs)
		node.Place(r.Intersect(area))
		pos += m + between
	}
}
