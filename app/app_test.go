// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"cxui.org/errs"
	"cxui.org/f32"
	"cxui.org/io/event"
	"cxui.org/io/pointer"
	"cxui.org/layout"
	"cxui.org/paint"
	"cxui.org/platform"
	"cxui.org/platform/headless"
	"cxui.org/widget"
)

type sized struct {
	widget.Base
	size f32.Size
}

func (s *sized) NaturalSize() f32.Size                               { return s.size }
func (s *sized) Render(c *paint.Canvas) error                        { return nil }
func (s *sized) HandleEvent(ctx *widget.Context, e event.Event) bool { return false }

func newApp(t *testing.T, cfg Config) (*Application, *headless.Backend) {
	t.Helper()
	b := headless.New()
	a, err := New(WithBackend(b), WithConfig(cfg), WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { a.Close() })
	return a, b
}

func newWindow(t *testing.T, a *Application, cfg WindowConfig) *Window {
	t.Helper()
	w, err := a.NewWindow(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Show(); err != nil {
		t.Fatal(err)
	}
	return w
}

func TestSingleApplication(t *testing.T) {
	a, _ := newApp(t, DefaultConfig())
	if _, err := New(WithBackend(headless.New())); !errs.IsKind(err, errs.KindState) {
		t.Fatalf("second New: got %v, want a state error", err)
	}
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	a2, err := New(WithBackend(headless.New()), WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatalf("New after Close: %v", err)
	}
	a2.Close()
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Width = -1
	if _, err := New(WithBackend(headless.New()), WithConfig(cfg)); !errs.IsKind(err, errs.KindState) {
		t.Fatalf("got %v, want a state error", err)
	}
	// Nothing was registered.
	a, _ := newApp(t, DefaultConfig())
	a.Close()
}

func TestFlexWindow(t *testing.T) {
	a, b := newApp(t, DefaultConfig())
	w := newWindow(t, a, WindowConfig{
		Width:  400,
		Height: 300,
		Root:   widget.ContainerConfig{Layout: layout.Flex{Direction: layout.Row, Gap: 10}},
	})
	c0 := &sized{size: f32.Size{W: 100, H: 50}}
	c1 := &sized{size: f32.Size{W: 100, H: 50}}
	w.Root().AddChild(c0)
	w.Root().AddChild(c1)
	if !w.needsFrame() {
		t.Fatal("shown window with new children needs no frame")
	}
	if err := a.step(); err != nil {
		t.Fatal(err)
	}
	if got := w.Root().Bounds(); got != f32.Rt(0, 0, 400, 300) {
		t.Errorf("root bounds = %v", got)
	}
	if got := c0.Bounds(); got != f32.Rt(0, 0, 100, 50) {
		t.Errorf("child 0 bounds = %v", got)
	}
	if got := c1.Bounds().X; got != 110 {
		t.Errorf("child 1 x = %v, want 110", got)
	}
	if n := b.Presents(w.handle); n != 1 {
		t.Errorf("%d presents, want 1", n)
	}
	if w.needsFrame() {
		t.Error("window still needs a frame")
	}
}

func TestHiddenWindowNotRendered(t *testing.T) {
	a, b := newApp(t, DefaultConfig())
	w, err := a.NewWindow(WindowConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if w.Visible() || b.Visible(w.handle) {
		t.Fatal("new window is visible")
	}
	if w.needsFrame() {
		t.Error("hidden window needs a frame")
	}
	w.Show()
	a.step()
	w.Hide()
	w.Invalidate()
	if w.needsFrame() {
		t.Error("hidden window needs a frame after Invalidate")
	}
	if n := b.Presents(w.handle); n != 1 {
		t.Errorf("%d presents, want 1", n)
	}
}

func TestResize(t *testing.T) {
	a, b := newApp(t, DefaultConfig())
	var resized []f32.Size
	w := newWindow(t, a, WindowConfig{
		Width:  200,
		Height: 100,
		Root:   widget.ContainerConfig{Layout: layout.Flex{Align: layout.AlignStretch}},
		OnEvent: func(w *Window, e event.Event) {
			if e, ok := e.(event.WindowResized); ok {
				resized = append(resized, e.Size)
			}
		},
	})
	child := &sized{size: f32.Size{W: 50, H: 10}}
	w.Root().AddChild(child)
	a.step()
	b.Inject(platform.RawEvent{Kind: platform.RawResize, Window: w.handle, Width: 320, Height: 240})
	if err := a.step(); err != nil {
		t.Fatal(err)
	}
	want := f32.Size{W: 320, H: 240}
	if w.Size() != want || w.Canvas().Size() != want {
		t.Errorf("window %v canvas %v, want %v", w.Size(), w.Canvas().Size(), want)
	}
	if got := w.Root().Bounds(); got != f32.Rt(0, 0, 320, 240) {
		t.Errorf("root bounds = %v", got)
	}
	if got := child.Bounds().H; got != 240 {
		t.Errorf("stretched child height = %v, want 240", got)
	}
	if len(resized) != 1 || resized[0] != want {
		t.Errorf("OnEvent saw %v", resized)
	}
	if img := b.Snapshot(w.handle); img == nil || img.Rect.Dx() != 320 {
		t.Errorf("presented frame %v", img)
	}
}

func TestCloseReleasesResources(t *testing.T) {
	a, b := newApp(t, DefaultConfig())
	w := newWindow(t, a, WindowConfig{})
	child := &sized{}
	w.Root().AddChild(child)
	a.step()
	root := w.Root()
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if b.LiveWindows() != 0 || b.LiveSurfaces() != 0 {
		t.Errorf("%d windows and %d surfaces left", b.LiveWindows(), b.LiveSurfaces())
	}
	if !root.Destroyed() || !child.Destroyed() {
		t.Error("widgets not destroyed")
	}
	if !w.Canvas().Released() {
		t.Error("canvas not released")
	}
	if len(a.Windows()) != 0 {
		t.Error("closed window still listed")
	}
	if err := w.SetTitle("x"); !errs.IsKind(err, errs.KindState) {
		t.Errorf("SetTitle after Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestCreateFailureIsAtomic(t *testing.T) {
	a, b := newApp(t, DefaultConfig())
	b.FailNextCreate(nil)
	if _, err := a.NewWindow(WindowConfig{}); errs.ReasonOf(err) != errs.ReasonResourceExhausted {
		t.Errorf("got %v, want resource exhaustion", err)
	}
	if _, err := a.NewWindow(WindowConfig{Width: -5}); !errs.IsKind(err, errs.KindState) {
		t.Errorf("negative width: %v", err)
	}
	bad := widget.ContainerConfig{Layout: layout.Grid{Columns: 0, Rows: 2}}
	if _, err := a.NewWindow(WindowConfig{Root: bad}); !errs.IsKind(err, errs.KindLayoutConfig) {
		t.Errorf("invalid root layout: %v", err)
	}
	if b.LiveWindows() != 0 || b.LiveSurfaces() != 0 || len(a.Windows()) != 0 {
		t.Errorf("failed creation left %d windows", b.LiveWindows())
	}
	if _, err := a.NewWindow(WindowConfig{}); err != nil {
		t.Errorf("create after failure: %v", err)
	}
}

func TestWindowDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Title = "defaults"
	cfg.Window.Position = &Point{X: 30, Y: 40}
	a, b := newApp(t, cfg)
	w, err := a.NewWindow(WindowConfig{Width: 640})
	if err != nil {
		t.Fatal(err)
	}
	if w.Title() != "defaults" || b.Title(w.handle) != "defaults" {
		t.Errorf("title %q", w.Title())
	}
	if got := w.Size(); got != (f32.Size{W: 640, H: 600}) {
		t.Errorf("size %v", got)
	}
	if got := b.Position(w.handle); got.X != 30 || got.Y != 40 {
		t.Errorf("position %v", got)
	}
	if err := w.SetPosition(5, 6); err != nil {
		t.Fatal(err)
	}
	if got := w.Position(); got.X != 5 || got.Y != 6 {
		t.Errorf("position after SetPosition %v", got)
	}
}

func TestPresentFailureRetried(t *testing.T) {
	cfg := DefaultConfig()
	var failures []error
	cfg.OnFrameError = func(w *Window, err error) error {
		failures = append(failures, err)
		return nil
	}
	a, b := newApp(t, cfg)
	w := newWindow(t, a, WindowConfig{})
	b.FailNextPresent(nil)
	if err := a.step(); err != nil {
		t.Fatalf("loop stopped: %v", err)
	}
	if len(failures) != 1 || !errs.IsTransient(failures[0]) {
		t.Fatalf("OnFrameError saw %v", failures)
	}
	if !w.needsFrame() {
		t.Fatal("failed frame not retried")
	}
	if err := a.step(); err != nil {
		t.Fatal(err)
	}
	if n := b.Presents(w.handle); n != 1 {
		t.Errorf("%d presents after retry, want 1", n)
	}
}

func TestFrameErrorStopsRun(t *testing.T) {
	a, b := newApp(t, DefaultConfig())
	w := newWindow(t, a, WindowConfig{})
	fatal := errs.Platform("headless.Present", errs.ReasonDisplayUnavailable, errors.New("gone"))
	b.FailNextPresent(fatal)
	err := a.Run()
	if !errors.Is(err, fatal) {
		t.Fatalf("Run returned %v, want %v", err, fatal)
	}
	if !w.Closed() || b.LiveWindows() != 0 {
		t.Error("Run did not close the application")
	}
	if err := a.Run(); !errs.IsKind(err, errs.KindState) {
		t.Errorf("Run after close: %v", err)
	}
}

func TestPostAndQuit(t *testing.T) {
	a, _ := newApp(t, DefaultConfig())
	ran := 0
	go func() {
		a.Post(func() { ran++ })
		a.Post(func() { panic("recovered") })
		a.Post(func() { ran++ })
		a.Quit()
	}()
	if err := a.Run(); err != nil {
		t.Fatal(err)
	}
	if ran != 2 {
		t.Errorf("%d posted functions ran, want 2", ran)
	}
	// Posting after close is discarded.
	a.Post(func() { ran++ })
	if ran != 2 {
		t.Error("function posted after close ran")
	}
}

func TestQuitOnLastWindowClosed(t *testing.T) {
	a, b := newApp(t, DefaultConfig())
	var seen []event.Event
	w1 := newWindow(t, a, WindowConfig{})
	w2 := newWindow(t, a, WindowConfig{
		OnEvent: func(w *Window, e event.Event) { seen = append(seen, e) },
	})
	b.Inject(
		platform.RawEvent{Kind: platform.RawClose, Window: w1.handle},
		platform.RawEvent{Kind: platform.RawClose, Window: w2.handle},
	)
	if err := a.Run(); err != nil {
		t.Fatal(err)
	}
	if !w1.Closed() || !w2.Closed() {
		t.Error("windows not closed")
	}
	if len(seen) != 1 || seen[0] != (event.WindowClosed{Window: w2.ID()}) {
		t.Errorf("OnEvent saw %v", seen)
	}
}

func TestPlatformQuit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuitOnLastWindowClosed = false
	a, b := newApp(t, cfg)
	newWindow(t, a, WindowConfig{})
	b.Inject(platform.RawEvent{Kind: platform.RawQuit})
	if err := a.Run(); err != nil {
		t.Fatal(err)
	}
	if b.LiveWindows() != 0 {
		t.Error("windows left after quit")
	}
}

func TestCloseVeto(t *testing.T) {
	a, b := newApp(t, DefaultConfig())
	allow := false
	w := newWindow(t, a, WindowConfig{
		OnClose: func(w *Window) bool { return allow },
	})
	b.Inject(platform.RawEvent{Kind: platform.RawClose, Window: w.handle})
	a.step()
	if w.Closed() {
		t.Fatal("vetoed close closed the window")
	}
	allow = true
	b.Inject(platform.RawEvent{Kind: platform.RawClose, Window: w.handle})
	a.step()
	if !w.Closed() {
		t.Error("allowed close left the window open")
	}
}

func TestPointerRouting(t *testing.T) {
	a, b := newApp(t, DefaultConfig())
	w := newWindow(t, a, WindowConfig{Width: 200, Height: 100})
	clicked := 0
	btn, err := widget.NewButton(widget.ButtonConfig{
		Text:    "OK",
		OnClick: func(*widget.Button) { clicked++ },
	})
	if err != nil {
		t.Fatal(err)
	}
	w.Root().AddChild(btn)
	a.step()
	if err := btn.SetBounds(f32.Rt(10, 10, 80, 30)); err != nil {
		t.Fatal(err)
	}
	b.Inject(
		platform.RawEvent{Kind: platform.RawMousePress, Window: w.handle, X: 20, Y: 20, Button: pointer.ButtonPrimary},
		platform.RawEvent{Kind: platform.RawMouseRelease, Window: w.handle, X: 25, Y: 22, Button: pointer.ButtonPrimary},
		// Outside the button.
		platform.RawEvent{Kind: platform.RawMousePress, Window: w.handle, X: 150, Y: 80, Button: pointer.ButtonPrimary},
		platform.RawEvent{Kind: platform.RawMouseRelease, Window: w.handle, X: 150, Y: 80, Button: pointer.ButtonPrimary},
	)
	if err := a.step(); err != nil {
		t.Fatal(err)
	}
	if clicked != 1 {
		t.Errorf("%d clicks, want 1", clicked)
	}
	if w.Router().Focused() != widget.Widget(btn) {
		t.Errorf("focus on %v, want the button", w.Router().Focused())
	}
}

func TestWindowFocusState(t *testing.T) {
	a, b := newApp(t, DefaultConfig())
	w := newWindow(t, a, WindowConfig{})
	b.Inject(platform.RawEvent{Kind: platform.RawFocus, Window: w.handle})
	a.step()
	if !w.Focused() {
		t.Error("window not focused")
	}
	b.Inject(
		platform.RawEvent{Kind: platform.RawMove, Window: w.handle, X: 12, Y: 34},
		platform.RawEvent{Kind: platform.RawUnfocus, Window: w.handle},
	)
	a.step()
	if w.Focused() {
		t.Error("window still focused")
	}
	if got := w.Position(); got.X != 12 || got.Y != 34 {
		t.Errorf("position %v", got)
	}
}

type failing struct {
	widget.Base
	err error
}

func (f *failing) NaturalSize() f32.Size                               { return f32.Size{W: 10, H: 10} }
func (f *failing) Render(c *paint.Canvas) error                        { return f.err }
func (f *failing) HandleEvent(ctx *widget.Context, e event.Event) bool { return false }

func TestRootFollowsClientSize(t *testing.T) {
	a, b := newApp(t, DefaultConfig())
	var pressed []f32.Point
	w, err := a.NewWindow(WindowConfig{
		Width:  400,
		Height: 300,
		Root: widget.ContainerConfig{
			OnEvent: func(ctx *widget.Context, e event.Event) bool {
				if e, ok := e.(event.MousePressed); ok {
					pressed = append(pressed, e.Position)
				}
				return true
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := w.Root().Bounds(); got != f32.Rt(0, 0, 400, 300) {
		t.Errorf("root bounds after NewWindow = %v", got)
	}
	if err := w.Resize(200, 100); err != nil {
		t.Fatal(err)
	}
	if got := w.Root().Bounds(); got != f32.Rt(0, 0, 200, 100) {
		t.Errorf("root bounds after Resize = %v", got)
	}
	w.Show()
	a.step()
	// A press in the area uncovered by a resize delivered in the same
	// batch reaches the root.
	b.Inject(
		platform.RawEvent{Kind: platform.RawResize, Window: w.handle, Width: 500, Height: 400},
		platform.RawEvent{Kind: platform.RawMousePress, Window: w.handle, X: 450, Y: 350, Button: pointer.ButtonPrimary},
	)
	if err := a.step(); err != nil {
		t.Fatal(err)
	}
	if len(pressed) != 1 || pressed[0] != f32.Pt(450, 350) {
		t.Errorf("root saw presses %v", pressed)
	}
	if got := w.Root().Bounds(); got != f32.Rt(0, 0, 500, 400) {
		t.Errorf("root bounds after native resize = %v", got)
	}
}

func TestRenderFailureRecovers(t *testing.T) {
	cfg := DefaultConfig()
	var failures int
	cfg.OnFrameError = func(w *Window, err error) error {
		failures++
		return nil
	}
	a, b := newApp(t, cfg)
	w := newWindow(t, a, WindowConfig{Width: 400, Height: 300})
	child := &failing{err: errors.New("boom")}
	w.Root().AddChild(child)
	if err := a.step(); err != nil {
		t.Fatal(err)
	}
	if failures != 1 {
		t.Fatalf("%d frame errors, want 1", failures)
	}
	if w.Canvas().Drawing() {
		t.Fatal("canvas left mid-frame after a failed render")
	}
	if err := w.Resize(200, 100); err != nil {
		t.Fatalf("Resize after failed render: %v", err)
	}
	if got := w.Size(); got != (f32.Size{W: 200, H: 100}) {
		t.Errorf("size after Resize = %v", got)
	}
	child.err = nil
	if err := a.step(); err != nil {
		t.Fatal(err)
	}
	if n := b.Presents(w.handle); n != 1 {
		t.Errorf("%d presents, want 1", n)
	}
	if img := b.Snapshot(w.handle); img == nil || img.Rect.Dx() != 200 || img.Rect.Dy() != 100 {
		t.Errorf("presented frame %v, want 200x100", img)
	}
}

func TestResizeDuringFrameRejected(t *testing.T) {
	a, b := newApp(t, DefaultConfig())
	w := newWindow(t, a, WindowConfig{Width: 400, Height: 300})
	if err := w.Canvas().Clear(paint.RGB(0, 0, 0)); err != nil {
		t.Fatal(err)
	}
	if err := w.Resize(200, 100); !errs.IsKind(err, errs.KindState) {
		t.Fatalf("Resize during a frame = %v, want a state error", err)
	}
	if width, height, _ := b.Size(w.handle); width != 400 || height != 300 {
		t.Errorf("native size changed to %dx%d", width, height)
	}
	if got := w.Size(); got != (f32.Size{W: 400, H: 300}) {
		t.Errorf("size = %v", got)
	}
}

func TestWindowFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.AlwaysOnTop = true
	a, b := newApp(t, cfg)
	w := newWindow(t, a, WindowConfig{Fullscreen: true})
	p := b.Params(w.handle)
	if !p.AlwaysOnTop || !p.Fullscreen {
		t.Errorf("params %+v, want always on top and fullscreen", p)
	}
	plain := newWindow(t, a, WindowConfig{})
	if b.Params(plain.handle).Fullscreen {
		t.Error("fullscreen leaked into another window")
	}
}

func TestFrameStats(t *testing.T) {
	a, _ := newApp(t, DefaultConfig())
	w := newWindow(t, a, WindowConfig{})
	if s := w.Stats(); s.Frames != 0 || s.FPS() != 0 {
		t.Fatalf("stats before the first frame: %+v", s)
	}
	for range 3 {
		w.Invalidate()
		if err := a.step(); err != nil {
			t.Fatal(err)
		}
	}
	s := w.Stats()
	if s.Frames != 3 {
		t.Errorf("%d frames, want 3", s.Frames)
	}
	if s.Min > s.Average || s.Average > s.Max || s.Last > s.Max {
		t.Errorf("inconsistent stats %+v", s)
	}
}

func TestTargetFPS(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetFPS = 20
	a, b := newApp(t, cfg)
	w := newWindow(t, a, WindowConfig{})
	if err := a.step(); err != nil {
		t.Fatal(err)
	}
	w.Invalidate()
	if err := a.frames(); err != nil {
		t.Fatal(err)
	}
	if n := b.Presents(w.handle); n != 1 {
		t.Fatalf("%d presents, want the second frame held back", n)
	}
	block, delay := a.idle(time.Now())
	if block || delay <= 0 || delay > 50*time.Millisecond {
		t.Fatalf("idle = %v, %v; want a wait of at most one frame", block, delay)
	}
	if err := a.step(); err != nil {
		t.Fatal(err)
	}
	if n := b.Presents(w.handle); n != 2 {
		t.Errorf("%d presents after the wait, want 2", n)
	}
}
