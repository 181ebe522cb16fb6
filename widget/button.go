// SPDX-License-Identifier: Unlicense OR MIT

package widget

import (
	"cxui.org/errs"
	"cxui.org/f32"
	"cxui.org/io/event"
	"cxui.org/io/key"
	"cxui.org/io/pointer"
	"cxui.org/paint"
)

// ButtonStyle is the appearance of a Button.
type ButtonStyle struct {
	Background paint.Color
	Hovered    paint.Color
	Pressed    paint.Color
	Disabled   paint.Color
	Text       paint.Color
	Focus      paint.Color
	TextSize   float32
	Padding    float32
}

// DefaultButtonStyle is used when ButtonConfig.Style is the zero
// value.
func DefaultButtonStyle() ButtonStyle {
	bg := paint.RGB(0x3f, 0x51, 0xb5)
	return ButtonStyle{
		Background: bg,
		Hovered:    bg.Lighten(0.15),
		Pressed:    bg.Darken(0.2),
		Disabled:   paint.RGB(0xbd, 0xbd, 0xbd),
		Text:       paint.RGB(0xff, 0xff, 0xff),
		Focus:      paint.RGB(0xff, 0xc1, 0x07),
		TextSize:   paint.DefaultTextSize,
		Padding:    8,
	}
}

// ButtonConfig configures a new Button.
type ButtonConfig struct {
	Text  string
	Style ButtonStyle
	// OnClick is called for each click.
	OnClick func(b *Button)
}

// Button is a clickable widget with a text label. A click is a
// primary press followed by a release inside the button, or Space or
// Return while the button has focus.
type Button struct {
	Base
	text    string
	style   ButtonStyle
	onClick func(b *Button)
	pressed bool
	clicks  int
}

func NewButton(cfg ButtonConfig) (*Button, error) {
	s := cfg.Style
	if s == (ButtonStyle{}) {
		s = DefaultButtonStyle()
	}
	if s.Padding < 0 || s.TextSize < 0 {
		return nil, errs.LayoutConfig("widget.NewButton", "negative padding or text size")
	}
	b := &Button{text: cfg.Text, style: s, onClick: cfg.OnClick}
	b.ID()
	return b, nil
}

func (b *Button) Text() string {
	return b.text
}

func (b *Button) SetText(text string) error {
	if err := b.check("widget.Button.SetText"); err != nil {
		return err
	}
	b.text = text
	b.invalidate(true)
	return nil
}

// Pressed reports whether the primary button went down over b and has
// not been released yet.
func (b *Button) Pressed() bool {
	return b.pressed
}

// Clicks returns the number of clicks so far.
func (b *Button) Clicks() int {
	return b.clicks
}

func (b *Button) textSize() float32 {
	if b.style.TextSize > 0 {
		return b.style.TextSize
	}
	return paint.DefaultTextSize
}

func (b *Button) NaturalSize() f32.Size {
	sz := paint.MeasureText(b.text, b.textSize())
	p := 2 * b.style.Padding
	return f32.Size{W: sz.W + p, H: sz.H + p}
}

func (b *Button) HandleEvent(ctx *Context, e event.Event) bool {
	if ctx != nil && ctx.Phase != Target {
		return false
	}
	switch e := e.(type) {
	case event.MousePressed:
		if e.Button != pointer.ButtonPrimary {
			return false
		}
		b.pressed = true
		ctx.RequestFocus(b)
		b.invalidate(false)
		return true
	case event.MouseReleased:
		if e.Button != pointer.ButtonPrimary || !b.pressed {
			return false
		}
		b.pressed = false
		b.invalidate(false)
		if b.bounds.Contains(e.Position) {
			b.click()
		}
		return true
	case event.KeyPressed:
		if e.Repeat || (e.Name != key.NameSpace && e.Name != key.NameReturn && e.Name != key.NameEnter) {
			return false
		}
		b.click()
		return true
	}
	return false
}

func (b *Button) click() {
	b.clicks++
	if b.onClick == nil {
		return
	}
	defer errs.Recover("widget.Button.OnClick")
	b.onClick(b)
}

func (b *Button) Render(c *paint.Canvas) error {
	bg := b.style.Background
	switch {
	case b.disabled:
		bg = b.style.Disabled
	case b.pressed:
		bg = b.style.Pressed
	case b.hovered:
		bg = b.style.Hovered
	}
	if err := c.FillRect(b.bounds, bg); err != nil {
		return err
	}
	if b.focused {
		if err := c.StrokeRect(b.bounds, b.style.Focus, 2); err != nil {
			return err
		}
	}
	return drawCentered(c, b.text, b.textSize(), b.bounds, b.style.Text)
}

// drawCentered draws a line of text centered in r.
func drawCentered(c *paint.Canvas, text string, size float32, r f32.Rect, col paint.Color) error {
	if text == "" {
		return nil
	}
	sz := paint.MeasureText(text, size)
	p := f32.Pt(r.X+(r.W-sz.W)/2, r.Y+(r.H-sz.H)/2)
	return drawText(c, text, size, p, col)
}

func drawText(c *paint.Canvas, text string, size float32, p f32.Point, col paint.Color) error {
	old := c.TextSize
	c.TextSize = size
	err := c.DrawText(text, p, col)
	c.TextSize = old
	return err
}
