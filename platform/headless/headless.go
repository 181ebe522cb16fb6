// SPDX-License-Identifier: Unlicense OR MIT

// Package headless implements an in-memory platform.Backend. Windows
// exist only as records, surfaces are plain RGBA images and events
// are injected by the test driving the backend.
package headless

import (
	"errors"
	"image"
	"sync"

	"golang.org/x/image/draw"

	"cxui.org/errs"
	"cxui.org/platform"
)

// Backend is a platform.Backend without a display.
type Backend struct {
	// mu guards the event queue; the rest of the state belongs to the
	// goroutine driving the backend.
	mu     sync.Mutex
	queue  []platform.RawEvent
	woken  bool
	wake   chan struct{}
	closed bool

	scale       float32
	next        platform.Handle
	windows     map[platform.Handle]*window
	failCreate  error
	failPresent error
	frames      int
}

type window struct {
	params   platform.Params
	visible  bool
	x, y     int
	surface  *Surface
	presents int
}

// Surface is the in-memory drawing surface of a headless window.
type Surface struct {
	b    *Backend
	h    platform.Handle
	img  *image.RGBA
	last *image.RGBA
}

// New returns a Backend with a scale of 1.
func New() *Backend {
	return &Backend{
		scale:   1,
		wake:    make(chan struct{}, 1),
		windows: make(map[platform.Handle]*window),
	}
}

var _ platform.Backend = (*Backend)(nil)

func (b *Backend) Name() string { return "headless" }

// SetScale sets the device pixels per logical unit reported for every
// window.
func (b *Backend) SetScale(s float32) {
	if s > 0 {
		b.scale = s
	}
}

// FailNextCreate makes the next CreateWindow fail with err, or with a
// resource exhaustion error if err is nil.
func (b *Backend) FailNextCreate(err error) {
	if err == nil {
		err = errs.Platform("headless.CreateWindow", errs.ReasonResourceExhausted, errors.New("injected failure"))
	}
	b.failCreate = err
}

// FailNextPresent makes the next Present fail with err, or with a
// transient error if err is nil.
func (b *Backend) FailNextPresent(err error) {
	if err == nil {
		err = errs.Platform("headless.Present", errs.ReasonTransient, errors.New("injected failure"))
	}
	b.failPresent = err
}

// Inject queues events as if the window system had delivered them. It
// is safe to call from any goroutine.
func (b *Backend) Inject(evs ...platform.RawEvent) {
	b.mu.Lock()
	b.queue = append(b.queue, evs...)
	b.mu.Unlock()
	b.signal()
}

func (b *Backend) signal() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *Backend) lookup(op string, h platform.Handle) (*window, error) {
	w, ok := b.windows[h]
	if !ok {
		return nil, errs.Platformf(op, errs.ReasonInvalidHandle, "unknown window %d", h)
	}
	return w, nil
}

func (b *Backend) CreateWindow(p platform.Params) (platform.Handle, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := b.failCreate; err != nil {
		b.failCreate = nil
		return 0, err
	}
	b.next++
	w := &window{params: p}
	if p.Position != nil {
		w.x, w.y = p.Position.X, p.Position.Y
	}
	b.windows[b.next] = w
	return b.next, nil
}

func (b *Backend) DestroyWindow(h platform.Handle) error {
	w, err := b.lookup("headless.DestroyWindow", h)
	if err != nil {
		return err
	}
	if w.surface != nil {
		w.surface.Release()
	}
	delete(b.windows, h)
	return nil
}

func (b *Backend) Show(h platform.Handle) error {
	w, err := b.lookup("headless.Show", h)
	if err != nil {
		return err
	}
	w.visible = true
	return nil
}

func (b *Backend) Hide(h platform.Handle) error {
	w, err := b.lookup("headless.Hide", h)
	if err != nil {
		return err
	}
	w.visible = false
	return nil
}

func (b *Backend) SetTitle(h platform.Handle, title string) error {
	w, err := b.lookup("headless.SetTitle", h)
	if err != nil {
		return err
	}
	w.params.Title = title
	return nil
}

func (b *Backend) SetPosition(h platform.Handle, x, y int) error {
	w, err := b.lookup("headless.SetPosition", h)
	if err != nil {
		return err
	}
	w.x, w.y = x, y
	b.Inject(platform.RawEvent{Kind: platform.RawMove, Window: h, X: float32(x), Y: float32(y)})
	return nil
}

// SetSize resizes the window and queues the resize notification a
// native window system would send.
func (b *Backend) SetSize(h platform.Handle, width, height int) error {
	w, err := b.lookup("headless.SetSize", h)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return errs.State("headless.SetSize", "invalid size %dx%d", width, height)
	}
	w.params.Width, w.params.Height = width, height
	b.Inject(platform.RawEvent{Kind: platform.RawResize, Window: h, Width: width, Height: height})
	return nil
}

func (b *Backend) Size(h platform.Handle) (int, int, error) {
	w, err := b.lookup("headless.Size", h)
	if err != nil {
		return 0, 0, err
	}
	return w.params.Width, w.params.Height, nil
}

func (b *Backend) Scale(h platform.Handle) float32 {
	return b.scale
}

func (b *Backend) AcquireSurface(h platform.Handle) (platform.Surface, error) {
	w, err := b.lookup("headless.AcquireSurface", h)
	if err != nil {
		return nil, err
	}
	if w.surface == nil {
		pw := int(float32(w.params.Width)*b.scale + .5)
		ph := int(float32(w.params.Height)*b.scale + .5)
		w.surface = &Surface{b: b, h: h, img: image.NewRGBA(image.Rect(0, 0, pw, ph))}
	}
	return w.surface, nil
}

func (b *Backend) PollEvents() ([]platform.RawEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, errs.Platformf("headless.PollEvents", errs.ReasonDisplayUnavailable, "backend closed")
	}
	evs := b.queue
	b.queue = nil
	if b.woken {
		b.woken = false
		evs = append(evs, platform.RawEvent{Kind: platform.RawWakeup})
	}
	return evs, nil
}

func (b *Backend) WaitEvents() ([]platform.RawEvent, error) {
	for {
		evs, err := b.PollEvents()
		if err != nil || len(evs) > 0 {
			return evs, err
		}
		<-b.wake
	}
}

func (b *Backend) Wake() {
	b.mu.Lock()
	b.woken = true
	b.mu.Unlock()
	b.signal()
}

func (b *Backend) Close() error {
	for h := range b.windows {
		b.DestroyWindow(h)
	}
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.signal()
	return nil
}

// LiveWindows returns the number of windows not yet destroyed.
func (b *Backend) LiveWindows() int {
	return len(b.windows)
}

// LiveSurfaces returns the number of acquired, unreleased surfaces.
func (b *Backend) LiveSurfaces() int {
	n := 0
	for _, w := range b.windows {
		if w.surface != nil {
			n++
		}
	}
	return n
}

// Frames returns the number of successful presents across all
// windows.
func (b *Backend) Frames() int {
	return b.frames
}

// Presents returns the number of successful presents of window h.
func (b *Backend) Presents(h platform.Handle) int {
	if w, ok := b.windows[h]; ok {
		return w.presents
	}
	return 0
}

// Visible reports whether window h is shown.
func (b *Backend) Visible(h platform.Handle) bool {
	w, ok := b.windows[h]
	return ok && w.visible
}

// Title returns the title of window h.
func (b *Backend) Title(h platform.Handle) string {
	if w, ok := b.windows[h]; ok {
		return w.params.Title
	}
	return ""
}

// Params returns the parameters window h was created with, updated
// by later title and size changes.
func (b *Backend) Params(h platform.Handle) platform.Params {
	if w, ok := b.windows[h]; ok {
		return w.params
	}
	return platform.Params{}
}

// Position returns the position of window h.
func (b *Backend) Position(h platform.Handle) image.Point {
	if w, ok := b.windows[h]; ok {
		return image.Pt(w.x, w.y)
	}
	return image.Point{}
}

// Snapshot returns a copy of the last frame presented to window h, or
// nil.
func (b *Backend) Snapshot(h platform.Handle) *image.RGBA {
	w, ok := b.windows[h]
	if !ok || w.surface == nil || w.surface.last == nil {
		return nil
	}
	cp := image.NewRGBA(w.surface.last.Rect)
	copy(cp.Pix, w.surface.last.Pix)
	return cp
}

func (s *Surface) Image() *image.RGBA {
	return s.img
}

func (s *Surface) Resize(width, height int) {
	r := image.Rect(0, 0, max(width, 0), max(height, 0))
	if s.img != nil && s.img.Rect == r {
		return
	}
	s.img = image.NewRGBA(r)
}

func (s *Surface) Present(dirty image.Rectangle) error {
	if s.img == nil {
		return errs.State("headless.Present", "surface released")
	}
	if err := s.b.failPresent; err != nil {
		s.b.failPresent = nil
		return err
	}
	if s.last == nil || s.last.Rect != s.img.Rect {
		s.last = image.NewRGBA(s.img.Rect)
	}
	if dirty.Empty() {
		dirty = s.img.Rect
	}
	draw.Draw(s.last, dirty, s.img, dirty.Min, draw.Src)
	s.b.frames++
	if w, ok := s.b.windows[s.h]; ok {
		w.presents++
	}
	return nil
}

func (s *Surface) Release() {
	s.img = nil
	s.last = nil
	if w, ok := s.b.windows[s.h]; ok && w.surface == s {
		w.surface = nil
	}
}
