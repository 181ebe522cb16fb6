// SPDX-License-Identifier: Unlicense OR MIT

/*
Package f32 contains the float32 spatial primitives of cxui.

All values are in logical units: DPI-independent coordinates that the
platform layer scales to device pixels. The coordinate space has the
origin in the top left corner with the axes extending right and down.
*/
package f32

import (
	"fmt"
	"image"
	"math"
)

// A Point is a two dimensional point.
type Point struct {
	X, Y float32
}

// A Size is a two dimensional extent.
type Size struct {
	W, H float32
}

// A Rect is an axis aligned rectangle with its origin at (X, Y).
// It contains the points (px, py) where X <= px < X+W and
// Y <= py < Y+H.
type Rect struct {
	X, Y, W, H float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Rt is shorthand for Rect{X: x, Y: y, W: w, H: h}.
func Rt(x, y, w, h float32) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Add return the point p+p2.
func (p Point) Add(p2 Point) Point {
	return Point{X: p.X + p2.X, Y: p.Y + p2.Y}
}

// Sub returns the vector p-p2.
func (p Point) Sub(p2 Point) Point {
	return Point{X: p.X - p2.X, Y: p.Y - p2.Y}
}

// Mul returns p scaled by s.
func (p Point) Mul(s float32) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Empty reports whether s has no area.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.W, s.H)
}

// Origin returns the top left corner of r.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns r's width and height.
func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

// Right returns the x coordinate just past r.
func (r Rect) Right() float32 {
	return r.X + r.W
}

// Bottom returns the y coordinate just past r.
func (r Rect) Bottom() float32 {
	return r.Y + r.H
}

// Valid reports whether r has a non-negative width and height and
// finite coordinates.
func (r Rect) Valid() bool {
	for _, v := range [...]float32{r.X, r.Y, r.W, r.H} {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return false
		}
	}
	return r.W >= 0 && r.H >= 0
}

// Empty reports whether r represents the empty area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return r.X <= p.X && p.X < r.X+r.W &&
		r.Y <= p.Y && p.Y < r.Y+r.H
}

// In reports whether r lies entirely inside s. An empty r placed
// on the edge of s is also inside.
func (r Rect) In(s Rect) bool {
	return r.X >= s.X && r.Y >= s.Y &&
		r.X+r.W <= s.X+s.W && r.Y+r.H <= s.Y+s.H
}

// Intersect returns the intersection of r and s. The result is
// never negative in size: disjoint rectangles give an empty
// rectangle positioned inside s.
func (r Rect) Intersect(s Rect) Rect {
	x0 := max(r.X, s.X)
	y0 := max(r.Y, s.Y)
	x1 := min(r.X+r.W, s.X+s.W)
	y1 := min(r.Y+r.H, s.Y+s.H)
	x0 = min(x0, s.X+s.W)
	y0 = min(y0, s.Y+s.H)
	return Rect{X: x0, Y: y0, W: max(x1-x0, 0), H: max(y1-y0, 0)}
}

// Inset shrinks r by d on every side, clamping at zero size around
// the center of r.
func (r Rect) Inset(d float32) Rect {
	dx, dy := min(d, r.W/2), min(d, r.H/2)
	r.X += dx
	r.Y += dy
	r.W -= 2 * dx
	r.H -= 2 * dy
	return r
}

// Add offsets r with the vector p.
func (r Rect) Add(p Point) Rect {
	r.X += p.X
	r.Y += p.Y
	return r
}

// Scale multiplies every component of r by s.
func (r Rect) Scale(s float32) Rect {
	return Rect{X: r.X * s, Y: r.Y * s, W: r.W * s, H: r.H * s}
}

// Image converts r to integer device coordinates, rounding the edges
// outward so that partially covered pixels are included.
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Floor(float64(r.X))),
		int(math.Floor(float64(r.Y))),
		int(math.Ceil(float64(r.X+r.W))),
		int(math.Ceil(float64(r.Y+r.H))),
	)
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.W, r.H)
}
