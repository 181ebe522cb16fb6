// SPDX-License-Identifier: Unlicense OR MIT

package paint

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is a non-premultiplied sRGB color with 8 bits per channel.
type Color struct {
	R, G, B, A uint8
}

// RGB returns the opaque color r, g, b.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

// RGBA returns the color r, g, b with alpha a.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// ParseHex parses colors of the form #RGB, #RRGGBB and #RRGGBBAA. The
// leading # is optional.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("paint: invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("paint: invalid color %q", s)
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Named returns the SVG 1.1 color with the given name, such as
// "steelblue".
func Named(name string) (Color, bool) {
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return Color{}, false
	}
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}, true
}

// MustNamed is like Named but panics for unknown names.
func MustNamed(name string) Color {
	c, ok := Named(name)
	if !ok {
		panic(fmt.Sprintf("paint: unknown color name %q", name))
	}
	return c
}

// WithAlpha returns c with its alpha replaced by a.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// Lighten mixes c with white. f is clamped to [0, 1].
func (c Color) Lighten(f float32) Color {
	return c.mix(0xff, f)
}

// Darken mixes c with black. f is clamped to [0, 1].
func (c Color) Darken(f float32) Color {
	return c.mix(0, f)
}

func (c Color) mix(to uint8, f float32) Color {
	f = min(max(f, 0), 1)
	m := func(v uint8) uint8 {
		return uint8(float32(v) + (float32(to)-float32(v))*f + .5)
	}
	return Color{R: m(c.R), G: m(c.G), B: m(c.B), A: c.A}
}

// NRGBA converts c to the standard library representation.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// premul returns c with alpha premultiplied, the form stored in an
// *image.RGBA.
func (c Color) premul() color.RGBA {
	a := uint32(c.A)
	return color.RGBA{
		R: uint8(uint32(c.R) * a / 0xff),
		G: uint8(uint32(c.G) * a / 0xff),
		B: uint8(uint32(c.B) * a / 0xff),
		A: c.A,
	}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// UnmarshalText implements encoding.TextUnmarshaler, accepting hex
// colors and color names.
func (c *Color) UnmarshalText(b []byte) error {
	s := string(b)
	if n, ok := Named(s); ok {
		*c = n
		return nil
	}
	v, err := ParseHex(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
