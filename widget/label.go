// SPDX-License-Identifier: Unlicense OR MIT

package widget

import (
	"cxui.org/errs"
	"cxui.org/f32"
	"cxui.org/io/event"
	"cxui.org/paint"
)

// LabelStyle is the appearance of a Label.
type LabelStyle struct {
	Color    paint.Color
	TextSize float32
	Padding  float32
}

// LabelConfig configures a new Label. A zero Style draws black text
// at the default size.
type LabelConfig struct {
	Text  string
	Style LabelStyle
}

// Label displays a line of static text. It never consumes events.
type Label struct {
	Base
	text  string
	style LabelStyle
}

func NewLabel(cfg LabelConfig) (*Label, error) {
	s := cfg.Style
	if s.TextSize < 0 || s.Padding < 0 {
		return nil, errs.LayoutConfig("widget.NewLabel", "negative text size or padding")
	}
	if s.TextSize == 0 {
		s.TextSize = paint.DefaultTextSize
	}
	if s.Color == (paint.Color{}) {
		s.Color = paint.RGB(0, 0, 0)
	}
	l := &Label{text: cfg.Text, style: s}
	l.ID()
	return l, nil
}

func (l *Label) Text() string {
	return l.text
}

func (l *Label) SetText(text string) error {
	if err := l.check("widget.Label.SetText"); err != nil {
		return err
	}
	if l.text != text {
		l.text = text
		l.invalidate(true)
	}
	return nil
}

func (l *Label) NaturalSize() f32.Size {
	sz := paint.MeasureText(l.text, l.style.TextSize)
	p := 2 * l.style.Padding
	return f32.Size{W: sz.W + p, H: sz.H + p}
}

func (l *Label) HandleEvent(ctx *Context, e event.Event) bool {
	return false
}

func (l *Label) Render(c *paint.Canvas) error {
	col := l.style.Color
	if l.disabled {
		col = col.WithAlpha(col.A / 2)
	}
	p := l.bounds.Origin().Add(f32.Pt(l.style.Padding, l.style.Padding))
	return drawText(c, l.text, l.style.TextSize, p, col)
}
