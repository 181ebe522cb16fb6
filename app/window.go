// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"image"
	"time"

	"cxui.org/errs"
	"cxui.org/f32"
	"cxui.org/io/event"
	"cxui.org/io/router"
	"cxui.org/paint"
	"cxui.org/platform"
	"cxui.org/widget"
)

// Window is a native window together with its canvas and widget tree.
// The root container always covers the client area.
//
// Windows belong to the goroutine running the application; their
// methods must not be called from other goroutines.
type Window struct {
	app    *Application
	id     event.WindowID
	handle platform.Handle
	cfg    WindowConfig

	title   string
	size    f32.Size
	pos     image.Point
	visible bool
	focused bool

	canvas *paint.Canvas
	tree   *widget.Tree
	router *router.Router

	// invalid forces a frame after a failed one.
	invalid bool
	timer   frameTimer
	closed  bool
}

// NewWindow creates a hidden window. Nothing native is left behind if
// it fails.
func (a *Application) NewWindow(cfg WindowConfig) (*Window, error) {
	const op = "app.NewWindow"
	if a.closed {
		return nil, errs.State(op, "application closed")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.merge(a.cfg.Window)
	p := cfg.params()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	root, err := widget.NewContainer(cfg.Root)
	if err != nil {
		return nil, err
	}
	tree, err := widget.NewTree(root)
	if err != nil {
		return nil, err
	}
	h, err := a.backend.CreateWindow(p)
	if err != nil {
		return nil, err
	}
	s, err := a.backend.AcquireSurface(h)
	if err != nil {
		a.backend.DestroyWindow(h)
		return nil, err
	}
	width, height, err := a.backend.Size(h)
	if err != nil {
		s.Release()
		a.backend.DestroyWindow(h)
		return nil, err
	}
	a.nextID++
	w := &Window{
		app:    a,
		id:     a.nextID,
		handle: h,
		cfg:    cfg,
		title:  p.Title,
		size:   f32.Size{W: float32(width), H: float32(height)},
		canvas: paint.NewCanvas(s, a.backend.Scale(h)),
		tree:   tree,
	}
	if p.Position != nil {
		w.pos = *p.Position
	}
	w.router = router.New(tree, w.id)
	if err := w.canvas.Resize(w.size, 0); err != nil {
		w.canvas.Release()
		a.backend.DestroyWindow(h)
		return nil, err
	}
	tree.Resize(w.size)
	a.windows[h] = w
	a.order = append(a.order, w)
	a.logf("window %d: created %dx%d", w.id, width, height)
	return w, nil
}

func (w *Window) ID() event.WindowID {
	return w.id
}

func (w *Window) check(op string) error {
	if w.closed {
		return errs.State(op, "window %d closed", w.id)
	}
	return nil
}

// Show makes the window visible.
func (w *Window) Show() error {
	if err := w.check("app.Show"); err != nil {
		return err
	}
	if err := w.app.backend.Show(w.handle); err != nil {
		return err
	}
	w.visible = true
	w.tree.Invalidate()
	return nil
}

// Hide makes the window invisible. Hidden windows are not rendered.
func (w *Window) Hide() error {
	if err := w.check("app.Hide"); err != nil {
		return err
	}
	if err := w.app.backend.Hide(w.handle); err != nil {
		return err
	}
	w.visible = false
	return nil
}

func (w *Window) Visible() bool {
	return w.visible
}

// Focused reports whether the window has keyboard focus.
func (w *Window) Focused() bool {
	return w.focused
}

// Resize changes the client area size.
func (w *Window) Resize(width, height int) error {
	if err := w.check("app.Resize"); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return errs.State("app.Resize", "invalid size %dx%d", width, height)
	}
	if w.canvas.Drawing() {
		return errs.State("app.Resize", "window %d is drawing a frame", w.id)
	}
	if err := w.app.backend.SetSize(w.handle, width, height); err != nil {
		return err
	}
	return w.setSize(f32.Size{W: float32(width), H: float32(height)})
}

func (w *Window) setSize(sz f32.Size) error {
	if sz == w.size {
		return nil
	}
	if err := w.canvas.Resize(sz, w.app.backend.Scale(w.handle)); err != nil {
		return err
	}
	w.size = sz
	return w.tree.Resize(sz)
}

// Size returns the client area size in logical units.
func (w *Window) Size() f32.Size {
	return w.size
}

func (w *Window) SetTitle(title string) error {
	if err := w.check("app.SetTitle"); err != nil {
		return err
	}
	if err := w.app.backend.SetTitle(w.handle, title); err != nil {
		return err
	}
	w.title = title
	return nil
}

func (w *Window) Title() string {
	return w.title
}

// SetPosition moves the window to x, y in screen pixels.
func (w *Window) SetPosition(x, y int) error {
	if err := w.check("app.SetPosition"); err != nil {
		return err
	}
	if err := w.app.backend.SetPosition(w.handle, x, y); err != nil {
		return err
	}
	w.pos = image.Pt(x, y)
	return nil
}

// Position returns the last known position of the window.
func (w *Window) Position() image.Point {
	return w.pos
}

// Canvas returns the canvas the window renders into.
func (w *Window) Canvas() *paint.Canvas {
	return w.canvas
}

// Root returns the root container.
func (w *Window) Root() *widget.Container {
	return w.tree.Root()
}

func (w *Window) Tree() *widget.Tree {
	return w.tree
}

func (w *Window) Router() *router.Router {
	return w.router
}

// Invalidate schedules a new frame.
func (w *Window) Invalidate() {
	w.tree.Invalidate()
}

// needsFrame reports whether the loop should render w.
func (w *Window) needsFrame() bool {
	return !w.closed && w.visible && (w.invalid || w.tree.NeedsRender() || w.tree.Size() != w.size)
}

// Frame lays out the tree if needed, renders it and presents the
// result. A failed frame is retried by the application loop.
func (w *Window) Frame() error {
	if err := w.check("app.Frame"); err != nil {
		return err
	}
	start := time.Now()
	w.timer.started = start
	if w.tree.NeedsLayout() || w.tree.Size() != w.size {
		if err := w.tree.Layout(w.size); err != nil {
			return err
		}
	}
	if err := w.canvas.Clear(w.cfg.Background); err != nil {
		return err
	}
	if err := w.tree.Render(w.canvas); err != nil {
		w.canvas.Abort()
		w.invalid = true
		return err
	}
	if err := w.canvas.Present(); err != nil {
		w.invalid = true
		return err
	}
	w.invalid = false
	d := time.Since(start)
	w.timer.add(d)
	w.app.logf("window %d: frame %d in %v", w.id, w.timer.frames, d)
	return nil
}

// Stats returns the render times of the window's recent frames.
func (w *Window) Stats() FrameStats {
	return w.timer.stats()
}

// Close destroys the widget tree, releases the canvas and destroys the
// native window. Any layout or render pass in progress is cancelled.
// Closing a closed window does nothing.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.tree.Destroy()
	w.canvas.Release()
	err := w.app.backend.DestroyWindow(w.handle)
	w.app.forget(w)
	w.app.logf("window %d: closed", w.id)
	return err
}

// Closed reports whether Close was called.
func (w *Window) Closed() bool {
	return w.closed
}

// process handles a raw event addressed to w.
func (w *Window) process(raw platform.RawEvent) {
	switch raw.Kind {
	case platform.RawExpose:
		w.invalid = true
		return
	case platform.RawResize:
		if err := w.setSize(f32.Size{W: float32(raw.Width), H: float32(raw.Height)}); err != nil {
			errs.Report(errs.State("app.Resize", "window %d: %v", w.id, err))
		}
	case platform.RawMove:
		w.pos = image.Pt(int(raw.X), int(raw.Y))
	case platform.RawFocus:
		w.focused = true
	case platform.RawUnfocus:
		w.focused = false
	}
	e, ok := translate(w.id, raw)
	if !ok {
		return
	}
	if event.IsPointer(e) || event.IsKey(e) {
		w.router.Dispatch(e)
		return
	}
	if _, ok := e.(event.WindowUnfocused); ok {
		w.router.Dispatch(e)
	}
	if w.cfg.OnEvent != nil {
		func() {
			defer errs.Recover("app.Window.OnEvent")
			w.cfg.OnEvent(w, e)
		}()
	}
	if _, ok := e.(event.WindowClosed); ok && !w.closed && w.allowClose() {
		if err := w.Close(); err != nil {
			errs.Report(errs.Platform("app.Close", errs.ReasonOf(err), err))
		}
	}
}

func (w *Window) allowClose() (ok bool) {
	if w.cfg.OnClose == nil {
		return true
	}
	ok = true
	defer errs.Recover("app.Window.OnClose")
	return w.cfg.OnClose(w)
}
