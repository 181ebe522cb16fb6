// SPDX-License-Identifier: Unlicense OR MIT

package paint

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"cxui.org/errs"
	"cxui.org/f32"
	"cxui.org/platform"
)

type frameState uint8

const (
	stateIdle frameState = iota
	stateDrawing
	stateReleased
)

// Canvas draws into the surface of one window. Coordinates are in
// logical units and scaled to device pixels on the way out.
//
// Drawing happens in frames: Clear starts a frame, Present ends it.
// Drawing operations outside a frame fail with a KindState error and
// leave the back buffer untouched. Nothing reaches the screen before
// Present.
type Canvas struct {
	surface platform.Surface
	scale   float32
	state   frameState
	// dirty is the device region touched by the current frame.
	dirty image.Rectangle
	clips []image.Rectangle
	// TextSize is the size in logical units used by DrawText.
	TextSize float32
}

// NewCanvas returns a canvas drawing into s. scale is the number of
// device pixels per logical unit.
func NewCanvas(s platform.Surface, scale float32) *Canvas {
	if scale <= 0 {
		scale = 1
	}
	return &Canvas{surface: s, scale: scale, TextSize: DefaultTextSize}
}

// Scale returns the number of device pixels per logical unit.
func (c *Canvas) Scale() float32 {
	return c.scale
}

// Resize reallocates the back buffer for a client area of size in
// logical units at the given scale. It fails during a frame.
func (c *Canvas) Resize(size f32.Size, scale float32) error {
	switch c.state {
	case stateReleased:
		return errs.State("paint.Resize", "canvas released")
	case stateDrawing:
		return errs.State("paint.Resize", "resize during a frame")
	}
	if scale > 0 {
		c.scale = scale
	}
	r := f32.Rect{W: size.W, H: size.H}.Scale(c.scale).Image()
	c.surface.Resize(r.Dx(), r.Dy())
	return nil
}

// Size returns the drawable area in logical units.
func (c *Canvas) Size() f32.Size {
	img := c.image()
	if img == nil {
		return f32.Size{}
	}
	return f32.Size{W: float32(img.Rect.Dx()) / c.scale, H: float32(img.Rect.Dy()) / c.scale}
}

// Drawing reports whether a frame is in progress.
func (c *Canvas) Drawing() bool {
	return c.state == stateDrawing
}

// Image returns the back buffer, or nil once released.
func (c *Canvas) Image() *image.RGBA {
	return c.image()
}

func (c *Canvas) image() *image.RGBA {
	if c.state == stateReleased || c.surface == nil {
		return nil
	}
	return c.surface.Image()
}

// Clear starts a frame, filling the whole back buffer with col. Calling
// Clear during a frame restarts it.
func (c *Canvas) Clear(col Color) error {
	if c.state == stateReleased {
		return errs.State("paint.Clear", "canvas released")
	}
	img := c.image()
	draw.Draw(img, img.Rect, image.NewUniform(col.premul()), image.Point{}, draw.Src)
	c.state = stateDrawing
	c.dirty = img.Rect
	c.clips = c.clips[:0]
	return nil
}

func (c *Canvas) begin(op string) (*image.RGBA, error) {
	switch c.state {
	case stateReleased:
		return nil, errs.State(op, "canvas released")
	case stateIdle:
		return nil, errs.State(op, "drawing outside a frame")
	}
	return c.image(), nil
}

// device converts a logical rectangle to device pixels, clipped to the
// current clip.
func (c *Canvas) device(r f32.Rect) image.Rectangle {
	return r.Scale(c.scale).Image().Intersect(c.clip())
}

func (c *Canvas) clip() image.Rectangle {
	if n := len(c.clips); n > 0 {
		return c.clips[n-1]
	}
	return c.image().Rect
}

// PushClip restricts drawing to the intersection of r and the current
// clip until the matching PopClip.
func (c *Canvas) PushClip(r f32.Rect) error {
	if _, err := c.begin("paint.PushClip"); err != nil {
		return err
	}
	c.clips = append(c.clips, c.device(r))
	return nil
}

// PopClip restores the clip in effect before the last PushClip.
func (c *Canvas) PopClip() error {
	if _, err := c.begin("paint.PopClip"); err != nil {
		return err
	}
	if len(c.clips) == 0 {
		return errs.State("paint.PopClip", "clip stack empty")
	}
	c.clips = c.clips[:len(c.clips)-1]
	return nil
}

// FillRect fills r with col, blending by col's alpha.
func (c *Canvas) FillRect(r f32.Rect, col Color) error {
	img, err := c.begin("paint.FillRect")
	if err != nil {
		return err
	}
	if !r.Valid() {
		return errs.State("paint.FillRect", "invalid rectangle %v", r)
	}
	c.fill(img, c.device(r), col)
	return nil
}

func (c *Canvas) fill(img *image.RGBA, dr image.Rectangle, col Color) {
	if dr.Empty() || col.A == 0 {
		return
	}
	op := draw.Over
	if col.A == 0xff {
		op = draw.Src
	}
	draw.Draw(img, dr, image.NewUniform(col.premul()), image.Point{}, op)
	c.dirty = c.dirty.Union(dr)
}

// StrokeRect outlines r with lines of the given width, drawn inside r.
func (c *Canvas) StrokeRect(r f32.Rect, col Color, width float32) error {
	img, err := c.begin("paint.StrokeRect")
	if err != nil {
		return err
	}
	if !r.Valid() || width < 0 {
		return errs.State("paint.StrokeRect", "invalid rectangle %v or width %v", r, width)
	}
	w := min(width, r.W/2, r.H/2)
	if w <= 0 {
		return nil
	}
	for _, e := range []f32.Rect{
		{X: r.X, Y: r.Y, W: r.W, H: w},
		{X: r.X, Y: r.Bottom() - w, W: r.W, H: w},
		{X: r.X, Y: r.Y + w, W: w, H: r.H - 2*w},
		{X: r.Right() - w, Y: r.Y + w, W: w, H: r.H - 2*w},
	} {
		c.fill(img, c.device(e), col)
	}
	return nil
}

// DrawText draws a single line of text with its top left corner at p,
// using TextSize.
func (c *Canvas) DrawText(text string, p f32.Point, col Color) error {
	img, err := c.begin("paint.DrawText")
	if err != nil {
		return err
	}
	if text == "" || col.A == 0 {
		return nil
	}
	size := c.TextSize
	if size <= 0 {
		size = DefaultTextSize
	}
	faces.mu.Lock()
	defer faces.mu.Unlock()
	face, err := faces.face(size * c.scale)
	if err != nil {
		return errs.State("paint.DrawText", "load font: %v", err)
	}
	clip := c.clip()
	dst, ok := img.SubImage(clip).(*image.RGBA)
	if !ok || dst.Rect.Empty() {
		return nil
	}
	m := face.Metrics()
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col.premul()),
		Face: face,
		Dot: fixed.Point26_6{
			X: floatToFixed(p.X * c.scale),
			Y: floatToFixed(p.Y*c.scale) + m.Ascent,
		},
	}
	bounds, _ := d.BoundString(text)
	d.DrawString(text)
	tr := image.Rect(bounds.Min.X.Floor(), bounds.Min.Y.Floor(), bounds.Max.X.Ceil(), bounds.Max.Y.Ceil())
	c.dirty = c.dirty.Union(tr.Intersect(clip))
	return nil
}

// Present ends the frame and pushes the touched region to the screen.
// The canvas is idle afterwards even if the platform fails to present,
// so the caller may retry with a new frame.
func (c *Canvas) Present() error {
	if _, err := c.begin("paint.Present"); err != nil {
		return err
	}
	c.state = stateIdle
	c.clips = c.clips[:0]
	dirty := c.dirty
	c.dirty = image.Rectangle{}
	if dirty.Empty() {
		// A frame that drew nothing still counts as a present.
		dirty = c.image().Rect
	}
	return c.surface.Present(dirty)
}

// Abort ends the frame in progress without presenting it. The back
// buffer keeps whatever was drawn. Abort outside a frame does nothing.
func (c *Canvas) Abort() {
	if c.state != stateDrawing {
		return
	}
	c.state = stateIdle
	c.clips = c.clips[:0]
	c.dirty = image.Rectangle{}
}

// Release frees the surface. Every later operation fails.
func (c *Canvas) Release() {
	if c.state == stateReleased {
		return
	}
	c.state = stateReleased
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
}

// Released reports whether Release was called.
func (c *Canvas) Released() bool {
	return c.state == stateReleased
}
