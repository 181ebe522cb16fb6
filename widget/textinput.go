// SPDX-License-Identifier: Unlicense OR MIT

package widget

import (
	"strings"
	"unicode"

	"cxui.org/errs"
	"cxui.org/f32"
	"cxui.org/io/event"
	"cxui.org/io/key"
	"cxui.org/io/pointer"
	"cxui.org/paint"
)

// TextInputStyle is the appearance of a TextInput.
type TextInputStyle struct {
	Background  paint.Color
	Border      paint.Color
	Focus       paint.Color
	Text        paint.Color
	Placeholder paint.Color
	Selection   paint.Color
	TextSize    float32
	Padding     float32
	// MinWidth is the natural width of an empty input.
	MinWidth float32
}

// DefaultTextInputStyle is used when TextInputConfig.Style is the
// zero value.
func DefaultTextInputStyle() TextInputStyle {
	return TextInputStyle{
		Background:  paint.RGB(0xff, 0xff, 0xff),
		Border:      paint.RGB(0x9e, 0x9e, 0x9e),
		Focus:       paint.RGB(0x3f, 0x51, 0xb5),
		Text:        paint.RGB(0, 0, 0),
		Placeholder: paint.RGB(0x9e, 0x9e, 0x9e),
		Selection:   paint.RGBA(0x3f, 0x51, 0xb5, 0x60),
		TextSize:    paint.DefaultTextSize,
		Padding:     4,
		MinWidth:    120,
	}
}

// TextInputConfig configures a new TextInput.
type TextInputConfig struct {
	Text        string
	Placeholder string
	// MaxLength limits the number of runes. Zero means no limit.
	MaxLength int
	// Password masks the text when rendering.
	Password bool
	// ReadOnly allows caret movement and selection but no edits.
	ReadOnly bool
	Style    TextInputStyle
	// OnChange is called after every edit with the new text.
	OnChange func(text string)
	// OnEnter is called when Return or Enter is pressed.
	OnEnter func(text string)
}

// TextInput is a single line text editor.
type TextInput struct {
	Base
	text        []rune
	placeholder string
	maxLen      int
	password    bool
	readOnly    bool
	style       TextInputStyle
	onChange    func(string)
	onEnter     func(string)

	// caret and anchor are rune offsets. The selection spans between
	// them.
	caret, anchor int
}

const maskRune = '•'

func NewTextInput(cfg TextInputConfig) (*TextInput, error) {
	const op = "widget.NewTextInput"
	s := cfg.Style
	if s == (TextInputStyle{}) {
		s = DefaultTextInputStyle()
	}
	if cfg.MaxLength < 0 {
		return nil, errs.LayoutConfig(op, "negative max length %d", cfg.MaxLength)
	}
	if s.Padding < 0 || s.TextSize < 0 || s.MinWidth < 0 {
		return nil, errs.LayoutConfig(op, "negative style dimension")
	}
	if s.TextSize == 0 {
		s.TextSize = paint.DefaultTextSize
	}
	t := &TextInput{
		placeholder: cfg.Placeholder,
		maxLen:      cfg.MaxLength,
		password:    cfg.Password,
		readOnly:    cfg.ReadOnly,
		style:       s,
		onChange:    cfg.OnChange,
		onEnter:     cfg.OnEnter,
	}
	t.ID()
	t.setText(cfg.Text)
	return t, nil
}

// Text returns the current contents.
func (t *TextInput) Text() string {
	return string(t.text)
}

// SetText replaces the contents, truncated to the maximum length, and
// moves the caret to the end. OnChange is not called.
func (t *TextInput) SetText(s string) error {
	if err := t.check("widget.TextInput.SetText"); err != nil {
		return err
	}
	t.setText(s)
	t.invalidate(true)
	return nil
}

func (t *TextInput) setText(s string) {
	r := []rune(sanitize(s))
	if t.maxLen > 0 && len(r) > t.maxLen {
		r = r[:t.maxLen]
	}
	t.text = r
	t.caret, t.anchor = len(r), len(r)
}

// Caret returns the caret position in runes.
func (t *TextInput) Caret() int {
	return t.caret
}

// Selection returns the selected rune range. start equals end when
// nothing is selected.
func (t *TextInput) Selection() (start, end int) {
	return min(t.caret, t.anchor), max(t.caret, t.anchor)
}

// SetSelection selects the runes from start to end, clamped to the
// text, and leaves the caret at end.
func (t *TextInput) SetSelection(start, end int) error {
	if err := t.check("widget.SetSelection"); err != nil {
		return err
	}
	t.anchor = clampInt(start, 0, len(t.text))
	t.caret = clampInt(end, 0, len(t.text))
	t.invalidate(false)
	return nil
}

// SelectedText returns the selected text.
func (t *TextInput) SelectedText() string {
	s, e := t.Selection()
	return string(t.text[s:e])
}

func (t *TextInput) NaturalSize() f32.Size {
	sz := paint.MeasureText(t.display(), t.style.TextSize)
	if len(t.text) == 0 {
		sz = paint.MeasureText(t.placeholder, t.style.TextSize)
	}
	p := 2 * t.style.Padding
	return f32.Size{W: max(sz.W, t.style.MinWidth) + p, H: sz.H + p}
}

// display returns the text as drawn.
func (t *TextInput) display() string {
	if t.password {
		return strings.Repeat(string(maskRune), len(t.text))
	}
	return string(t.text)
}

func (t *TextInput) HandleEvent(ctx *Context, e event.Event) bool {
	if ctx != nil && ctx.Phase != Target {
		return false
	}
	switch e := e.(type) {
	case event.MousePressed:
		if e.Button != pointer.ButtonPrimary {
			return false
		}
		ctx.RequestFocus(t)
		pos := t.runeAt(e.Position.X)
		t.caret = pos
		if !e.Modifiers.Contain(key.ModShift) {
			t.anchor = pos
		}
		t.invalidate(false)
		return true
	case event.TextInput:
		if t.readOnly {
			return false
		}
		t.insert(e.Text)
		return true
	case event.KeyPressed:
		return t.key(e)
	}
	return false
}

func (t *TextInput) key(e event.KeyPressed) bool {
	shortcut := e.Modifiers&(key.ModCtrl|key.ModCommand) != 0
	shift := e.Modifiers.Contain(key.ModShift)
	switch {
	case e.Name == "A" && shortcut:
		t.anchor, t.caret = 0, len(t.text)
	case e.Name == key.NameLeftArrow:
		s, _ := t.Selection()
		switch {
		case shift:
			t.caret = max(t.caret-1, 0)
		case t.caret != t.anchor:
			t.caret, t.anchor = s, s
		default:
			t.caret = max(t.caret-1, 0)
			t.anchor = t.caret
		}
	case e.Name == key.NameRightArrow:
		_, end := t.Selection()
		switch {
		case shift:
			t.caret = min(t.caret+1, len(t.text))
		case t.caret != t.anchor:
			t.caret, t.anchor = end, end
		default:
			t.caret = min(t.caret+1, len(t.text))
			t.anchor = t.caret
		}
	case e.Name == key.NameHome || e.Name == key.NameUpArrow:
		t.caret = 0
		if !shift {
			t.anchor = 0
		}
	case e.Name == key.NameEnd || e.Name == key.NameDownArrow:
		t.caret = len(t.text)
		if !shift {
			t.anchor = t.caret
		}
	case e.Name == key.NameDeleteBackward:
		if t.readOnly {
			return false
		}
		if t.caret == t.anchor && t.caret > 0 {
			t.anchor = t.caret - 1
		}
		t.insert("")
	case e.Name == key.NameDeleteForward:
		if t.readOnly {
			return false
		}
		if t.caret == t.anchor && t.caret < len(t.text) {
			t.anchor = t.caret + 1
		}
		t.insert("")
	case e.Name == key.NameReturn || e.Name == key.NameEnter:
		if t.onEnter != nil {
			defer errs.Recover("widget.TextInput.OnEnter")
			t.onEnter(string(t.text))
		}
	default:
		return false
	}
	t.invalidate(false)
	return true
}

// insert replaces the selection with s, dropping whatever does not fit
// the maximum length.
func (t *TextInput) insert(s string) {
	start, end := t.Selection()
	in := []rune(sanitize(s))
	if t.maxLen > 0 {
		room := t.maxLen - (len(t.text) - (end - start))
		in = in[:clampInt(len(in), 0, max(room, 0))]
	}
	if start == end && len(in) == 0 {
		return
	}
	text := make([]rune, 0, len(t.text)-(end-start)+len(in))
	text = append(text, t.text[:start]...)
	text = append(text, in...)
	text = append(text, t.text[end:]...)
	t.text = text
	t.caret = start + len(in)
	t.anchor = t.caret
	t.invalidate(true)
	if t.onChange != nil {
		defer errs.Recover("widget.TextInput.OnChange")
		t.onChange(string(t.text))
	}
}

// runeAt returns the offset of the rune boundary closest to the
// window x coordinate.
func (t *TextInput) runeAt(x float32) int {
	x -= t.bounds.X + t.style.Padding
	disp := []rune(t.display())
	prev := float32(0)
	for i := 1; i <= len(disp); i++ {
		w := paint.MeasureText(string(disp[:i]), t.style.TextSize).W
		if x < (prev+w)/2 {
			return i - 1
		}
		prev = w
	}
	return len(disp)
}

// offsetX returns the x offset of the rune boundary i from the start
// of the text.
func (t *TextInput) offsetX(i int) float32 {
	if i == 0 {
		return 0
	}
	disp := []rune(t.display())
	return paint.MeasureText(string(disp[:i]), t.style.TextSize).W
}

func (t *TextInput) Render(c *paint.Canvas) error {
	s := t.style
	if err := c.FillRect(t.bounds, s.Background); err != nil {
		return err
	}
	border := s.Border
	if t.focused {
		border = s.Focus
	}
	if err := c.StrokeRect(t.bounds, border, 1); err != nil {
		return err
	}
	inner := t.bounds.Inset(s.Padding)
	if err := c.PushClip(inner); err != nil {
		return err
	}
	err := t.renderText(c, inner)
	if perr := c.PopClip(); err == nil {
		err = perr
	}
	return err
}

func (t *TextInput) renderText(c *paint.Canvas, inner f32.Rect) error {
	s := t.style
	h := paint.MeasureText("M", s.TextSize).H
	if start, end := t.Selection(); start != end && t.focused {
		x0, x1 := t.offsetX(start), t.offsetX(end)
		sel := f32.Rt(inner.X+x0, inner.Y, x1-x0, h)
		if err := c.FillRect(sel, s.Selection); err != nil {
			return err
		}
	}
	text, col := t.display(), s.Text
	if len(t.text) == 0 {
		text, col = t.placeholder, s.Placeholder
	}
	if t.disabled {
		col = col.WithAlpha(col.A / 2)
	}
	if err := drawText(c, text, s.TextSize, inner.Origin(), col); err != nil {
		return err
	}
	if !t.focused || t.readOnly {
		return nil
	}
	caret := f32.Rt(inner.X+t.offsetX(t.caret), inner.Y, 1, h)
	return c.FillRect(caret, s.Text)
}

// sanitize removes control characters, which a single line input
// cannot hold.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
