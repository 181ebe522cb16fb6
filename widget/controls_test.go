// SPDX-License-Identifier: Unlicense OR MIT

package widget

import (
	"slices"
	"testing"

	"cxui.org/errs"
	"cxui.org/f32"
	"cxui.org/io/event"
	"cxui.org/io/key"
	"cxui.org/io/pointer"
	"cxui.org/paint"
)

func targetCtx(focused *Widget) *Context {
	return &Context{
		Phase: Target,
		Focus: func(w Widget) error {
			*focused = w
			return nil
		},
		Unfocus: func() { *focused = nil },
	}
}

func TestButtonClick(t *testing.T) {
	clicks := 0
	b, err := NewButton(ButtonConfig{Text: "OK", OnClick: func(*Button) { clicks++ }})
	if err != nil {
		t.Fatal(err)
	}
	b.SetBounds(f32.Rt(10, 10, 80, 30))
	var focused Widget
	ctx := targetCtx(&focused)
	inside, outside := f32.Pt(20, 20), f32.Pt(200, 200)

	if !b.HandleEvent(ctx, event.MousePressed{Button: pointer.ButtonPrimary, Position: inside}) {
		t.Fatal("press not consumed")
	}
	if !b.Pressed() || focused != Widget(b) {
		t.Fatalf("after press: pressed %v, focus %v", b.Pressed(), focused)
	}
	b.HandleEvent(ctx, event.MouseReleased{Button: pointer.ButtonPrimary, Position: inside})
	if clicks != 1 || b.Clicks() != 1 {
		t.Fatalf("clicks = %d, want 1", clicks)
	}

	b.HandleEvent(ctx, event.MousePressed{Button: pointer.ButtonPrimary, Position: inside})
	b.HandleEvent(ctx, event.MouseReleased{Button: pointer.ButtonPrimary, Position: outside})
	if clicks != 1 {
		t.Error("release outside the button clicked")
	}
	if b.Pressed() {
		t.Error("button still pressed after release")
	}

	if b.HandleEvent(ctx, event.MousePressed{Button: pointer.ButtonSecondary, Position: inside}) {
		t.Error("secondary button consumed")
	}
	b.HandleEvent(ctx, event.KeyPressed{Name: key.NameSpace})
	b.HandleEvent(ctx, event.KeyPressed{Name: key.NameSpace, Repeat: true})
	if clicks != 2 {
		t.Errorf("clicks after Space = %d, want 2", clicks)
	}
	capture := &Context{Phase: Capture}
	if b.HandleEvent(capture, event.KeyPressed{Name: key.NameSpace}) {
		t.Error("button consumed an event outside the target phase")
	}
}

func TestButtonPanicRecovered(t *testing.T) {
	var got *errs.Error
	errs.SetHandler(handlerFunc(func(err *errs.Error) { got = err }))
	defer errs.SetHandler(nil)
	b, _ := NewButton(ButtonConfig{OnClick: func(*Button) { panic("boom") }})
	b.HandleEvent(nil, event.KeyPressed{Name: key.NameReturn})
	if got == nil || got.Kind != errs.KindPanic {
		t.Fatalf("panic in OnClick reported as %v", got)
	}
}

type handlerFunc func(err *errs.Error)

func (f handlerFunc) HandleError(err *errs.Error) { f(err) }

func TestButtonRender(t *testing.T) {
	style := DefaultButtonStyle()
	b, _ := NewButton(ButtonConfig{Text: "x", Style: style})
	b.SetBounds(f32.Rt(0, 0, 10, 10))
	c := newCanvas(t, 10, 10)
	c.Clear(paint.RGB(0, 0, 0))
	b.SetEnabled(false)
	if err := b.Render(c); err != nil {
		t.Fatal(err)
	}
	want := style.Disabled.NRGBA()
	got := c.Image().RGBAAt(0, 0)
	if got.R != want.R || got.G != want.G || got.B != want.B {
		t.Errorf("disabled button pixel = %v, want %v", got, want)
	}
}

func TestButtonNaturalSize(t *testing.T) {
	short, _ := NewButton(ButtonConfig{Text: "a"})
	long, _ := NewButton(ButtonConfig{Text: "a much longer label"})
	if long.NaturalSize().W <= short.NaturalSize().W {
		t.Error("natural width does not follow the text")
	}
	if _, err := NewButton(ButtonConfig{Style: ButtonStyle{Padding: -1}}); !errs.IsKind(err, errs.KindLayoutConfig) {
		t.Errorf("negative padding = %v", err)
	}
}

func TestLabel(t *testing.T) {
	l, err := NewLabel(LabelConfig{Text: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if l.HandleEvent(&Context{Phase: Target}, event.MousePressed{Button: pointer.ButtonPrimary}) {
		t.Error("label consumed an event")
	}
	before := l.NaturalSize()
	l.SetText("hello, world")
	if l.NaturalSize().W <= before.W {
		t.Error("natural width did not grow with the text")
	}
}

func typeText(ti *TextInput, ctx *Context, s string) {
	ti.HandleEvent(ctx, event.TextInput{Text: s})
}

func press(ti *TextInput, ctx *Context, n key.Name, m key.Modifiers) bool {
	return ti.HandleEvent(ctx, event.KeyPressed{Name: n, Modifiers: m})
}

func TestTextInputEditing(t *testing.T) {
	var changes []string
	ti, err := NewTextInput(TextInputConfig{OnChange: func(s string) { changes = append(changes, s) }})
	if err != nil {
		t.Fatal(err)
	}
	var focused Widget
	ctx := targetCtx(&focused)
	typeText(ti, ctx, "helo")
	press(ti, ctx, key.NameLeftArrow, 0)
	typeText(ti, ctx, "l")
	if got := ti.Text(); got != "hello" {
		t.Fatalf("Text = %q, want hello", got)
	}
	press(ti, ctx, key.NameEnd, 0)
	press(ti, ctx, key.NameDeleteBackward, 0)
	if got := ti.Text(); got != "hell" {
		t.Errorf("after backspace = %q", got)
	}
	press(ti, ctx, key.NameHome, 0)
	press(ti, ctx, key.NameDeleteForward, 0)
	if got := ti.Text(); got != "ell" {
		t.Errorf("after delete = %q", got)
	}
	press(ti, ctx, key.NameHome, 0)
	press(ti, ctx, key.NameDeleteBackward, 0)
	if got := ti.Text(); got != "ell" {
		t.Errorf("backspace at start changed text to %q", got)
	}
	want := []string{"helo", "hello", "hell", "ell"}
	if !slices.Equal(changes, want) {
		t.Errorf("OnChange calls = %q, want %q", changes, want)
	}
}

func TestTextInputSelection(t *testing.T) {
	ti, _ := NewTextInput(TextInputConfig{Text: "hello world"})
	ctx := &Context{Phase: Target}
	if !press(ti, ctx, "A", key.ModCtrl) {
		t.Fatal("Ctrl+A not consumed")
	}
	if got := ti.SelectedText(); got != "hello world" {
		t.Fatalf("selection = %q", got)
	}
	typeText(ti, ctx, "bye")
	if got := ti.Text(); got != "bye" {
		t.Errorf("typing over selection = %q", got)
	}
	press(ti, ctx, key.NameHome, key.ModShift)
	if s, e := ti.Selection(); s != 0 || e != 3 {
		t.Errorf("shift+home selection = (%d,%d)", s, e)
	}
	press(ti, ctx, key.NameRightArrow, 0)
	if s, e := ti.Selection(); s != 3 || e != 3 {
		t.Errorf("right arrow did not collapse to end: (%d,%d)", s, e)
	}
	ti.SetSelection(1, 2)
	press(ti, ctx, key.NameDeleteBackward, 0)
	if got := ti.Text(); got != "be" {
		t.Errorf("deleting selection = %q", got)
	}
}

func TestTextInputDestroyed(t *testing.T) {
	c, _ := NewContainer(ContainerConfig{})
	ti, _ := NewTextInput(TextInputConfig{Text: "abc"})
	c.AddChild(ti)
	if err := ti.SetSelection(0, 2); err != nil {
		t.Fatal(err)
	}
	c.RemoveChild(ti.ID())
	if err := ti.SetSelection(0, 1); !errs.IsKind(err, errs.KindState) {
		t.Errorf("SetSelection on destroyed input: %v", err)
	}
	if s, e := ti.Selection(); s != 0 || e != 2 {
		t.Errorf("selection changed to (%d,%d)", s, e)
	}
}

func TestTextInputLimits(t *testing.T) {
	var entered string
	ti, _ := NewTextInput(TextInputConfig{
		Text:      "abcdef",
		MaxLength: 4,
		OnEnter:   func(s string) { entered = s },
	})
	ctx := &Context{Phase: Target}
	if got := ti.Text(); got != "abcd" {
		t.Fatalf("initial text not truncated: %q", got)
	}
	typeText(ti, ctx, "xyz")
	if got := ti.Text(); got != "abcd" {
		t.Errorf("text grew past MaxLength: %q", got)
	}
	press(ti, ctx, key.NameDeleteBackward, 0)
	typeText(ti, ctx, "x\ny")
	if got := ti.Text(); got != "abcx" {
		t.Errorf("text = %q, want abcx", got)
	}
	press(ti, ctx, key.NameReturn, 0)
	if entered != "abcx" {
		t.Errorf("OnEnter got %q", entered)
	}

	ro, _ := NewTextInput(TextInputConfig{Text: "fixed", ReadOnly: true})
	typeText(ro, ctx, "!")
	press(ro, ctx, key.NameDeleteBackward, 0)
	if got := ro.Text(); got != "fixed" {
		t.Errorf("read-only input edited: %q", got)
	}
	if !press(ro, ctx, key.NameHome, 0) || ro.Caret() != 0 {
		t.Error("read-only input does not move the caret")
	}
}

func TestTextInputPassword(t *testing.T) {
	pw, _ := NewTextInput(TextInputConfig{Text: "secret", Password: true})
	if got := pw.display(); got != "••••••" {
		t.Errorf("password display = %q", got)
	}
	if pw.Text() != "secret" {
		t.Error("password text altered")
	}
}

func TestTextInputClickMovesCaret(t *testing.T) {
	ti, _ := NewTextInput(TextInputConfig{Text: "hello"})
	ti.SetBounds(f32.Rt(0, 0, 200, 30))
	var focused Widget
	ctx := targetCtx(&focused)
	ti.HandleEvent(ctx, event.MousePressed{Button: pointer.ButtonPrimary, Position: f32.Pt(0, 10)})
	if ti.Caret() != 0 || focused != Widget(ti) {
		t.Errorf("click at start: caret %d, focus %v", ti.Caret(), focused)
	}
	ti.HandleEvent(ctx, event.MousePressed{Button: pointer.ButtonPrimary, Position: f32.Pt(199, 10)})
	if ti.Caret() != 5 {
		t.Errorf("click past the end: caret %d, want 5", ti.Caret())
	}
}
