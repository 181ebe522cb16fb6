// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"cxui.org/errs"
	"cxui.org/f32"
)

// Constraint bounds the size a policy gives a node. A zero Max
// component leaves that axis unbounded.
type Constraint struct {
	Min, Max f32.Size
}

// Constrained is implemented by nodes carrying a Constraint.
type Constrained interface {
	Constraint() Constraint
}

func (c Constraint) Validate() error {
	const op = "layout.Constraint"
	switch {
	case c.Min.W < 0 || c.Min.H < 0 || c.Max.W < 0 || c.Max.H < 0:
		return errs.LayoutConfig(op, "negative size in %v", c)
	case c.Max.W > 0 && c.Max.W < c.Min.W:
		return errs.LayoutConfig(op, "max width %v below min %v", c.Max.W, c.Min.W)
	case c.Max.H > 0 && c.Max.H < c.Min.H:
		return errs.LayoutConfig(op, "max height %v below min %v", c.Max.H, c.Min.H)
	}
	return nil
}

// Constrain clamps sz to c.
func (c Constraint) Constrain(sz f32.Size) f32.Size {
	return f32.Size{
		W: clamp(sz.W, c.Min.W, c.Max.W),
		H: clamp(sz.H, c.Min.H, c.Max.H),
	}
}

func clamp(v, lo, hi float32) float32 {
	if hi > 0 {
		v = min(v, hi)
	}
	return max(v, lo)
}

// constrain clamps sz to the constraint of n, if any.
func constrain(n Node, sz f32.Size) f32.Size {
	if c, ok := n.(Constrained); ok {
		return c.Constraint().Constrain(sz)
	}
	return sz
}

// preferred is the natural size of n within its constraint.
func preferred(n Node) f32.Size {
	return constrain(n, n.NaturalSize())
}
