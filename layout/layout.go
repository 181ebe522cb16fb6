// SPDX-License-Identifier: Unlicense OR MIT

/*
Package layout computes the bounds of the children of a container.

A container carries exactly one Policy. Layout runs in two passes:
Measure reports the natural size of a container from the natural
sizes of its children, and Arrange places the children within the
area the container was given.

Flex and Grid keep every visible child inside the container area;
children that do not fit are clipped, never shrunk. Absolute leaves
child bounds as they were set.
*/
package layout

import (
	"cxui.org/f32"
)

// Node is a child as seen by the layout engine.
type Node interface {
	// NaturalSize returns the unconstrained preferred size.
	NaturalSize() f32.Size
	// Bounds returns the current bounds.
	Bounds() f32.Rect
	// Place sets the bounds computed by Arrange.
	Place(r f32.Rect)
	// Visible reports whether the node takes part in layout.
	Visible() bool
}

// Policy is one of Flex, Grid or Absolute.
type Policy interface {
	// Validate reports invalid parameters as a KindLayoutConfig
	// error.
	Validate() error

	measure(nodes []Node) f32.Size
	arrange(area f32.Rect, nodes []Node)
}

// Measure returns the natural size of a container laid out with p.
func Measure(p Policy, nodes []Node) f32.Size {
	if p == nil {
		p = Absolute{}
	}
	return p.measure(nodes)
}

// Arrange places nodes within area according to p. A nil Policy
// behaves as Absolute.
func Arrange(p Policy, area f32.Rect, nodes []Node) {
	if p == nil {
		return
	}
	p.arrange(area, nodes)
}

func visible(nodes []Node) []Node {
	vis := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Visible() {
			vis = append(vis, n)
		}
	}
	return vis
}

// Absolute leaves child bounds untouched.
type Absolute struct{}

func (Absolute) Validate() error { return nil }

func (Absolute) arrange(area f32.Rect, nodes []Node) {}

// measure returns the extent of the children's bounds.
func (Absolute) measure(nodes []Node) f32.Size {
	var sz f32.Size
	for _, n := range visible(nodes) {
		b := n.Bounds()
		sz.W = max(sz.W, b.Right())
		sz.H = max(sz.H, b.Bottom())
	}
	return sz
}
