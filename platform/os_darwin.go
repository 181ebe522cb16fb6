// SPDX-License-Identifier: Unlicense OR MIT

//go:build darwin && !ios && cgo

package platform

/*
#cgo CFLAGS: -Werror -Wno-deprecated-declarations -fobjc-arc -x objective-c
#cgo LDFLAGS: -framework AppKit -framework QuartzCore

#include <stdlib.h>
#include "os_darwin.h"
*/
import "C"

import (
	"errors"
	"image"
	"runtime"
	"unsafe"

	"cxui.org/errs"
	"cxui.org/io/key"
	"cxui.org/io/pointer"
)

func init() {
	// AppKit must be driven from the main thread.
	runtime.LockOSThread()
}

type cocoaBackend struct {
	next    Handle
	windows map[Handle]*cocoaWindow
}

type cocoaWindow struct {
	h       Handle
	ref     C.CFTypeRef
	surface *cocoaSurface
	// fullscreen is set until the window enters fullscreen on its
	// first Show.
	fullscreen bool
}

type cocoaSurface struct {
	backBuffer
	win *cocoaWindow
}

var cocoaOpen bool

func newBackend() (Backend, error) {
	if cocoaOpen {
		return nil, errs.State("cocoa.Open", "backend already open")
	}
	C.cx_init()
	cocoaOpen = true
	return &cocoaBackend{windows: make(map[Handle]*cocoaWindow)}, nil
}

func (b *cocoaBackend) Name() string { return "cocoa" }

func (b *cocoaBackend) lookup(op string, h Handle) (*cocoaWindow, error) {
	w, ok := b.windows[h]
	if !ok {
		return nil, errs.Platformf(op, errs.ReasonInvalidHandle, "unknown window %d", h)
	}
	return w, nil
}

func (b *cocoaBackend) CreateWindow(p Params) (Handle, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	title := C.CString(p.Title)
	defer C.free(unsafe.Pointer(title))
	var x, y C.CGFloat
	hasPos := C.int(0)
	if p.Position != nil {
		x, y, hasPos = C.CGFloat(p.Position.X), C.CGFloat(p.Position.Y), 1
	}
	h := b.next + 1
	ref := C.cx_create_window(C.uintptr_t(h), title, x, y, hasPos,
		C.CGFloat(p.Width), C.CGFloat(p.Height), cbool(p.Resizable), cbool(p.Decorations),
		cbool(p.AlwaysOnTop), cbool(p.Fullscreen))
	if ref == 0 {
		return 0, errs.Platform("cocoa.CreateWindow", errs.ReasonResourceExhausted, errors.New("NSWindow allocation failed"))
	}
	b.next = h
	b.windows[h] = &cocoaWindow{h: h, ref: ref, fullscreen: p.Fullscreen}
	return h, nil
}

func cbool(v bool) C.int {
	if v {
		return 1
	}
	return 0
}

func (b *cocoaBackend) DestroyWindow(h Handle) error {
	w, err := b.lookup("cocoa.DestroyWindow", h)
	if err != nil {
		return err
	}
	if w.surface != nil {
		w.surface.Release()
	}
	C.cx_destroy_window(w.ref)
	w.ref = 0
	delete(b.windows, h)
	return nil
}

func (b *cocoaBackend) Show(h Handle) error {
	w, err := b.lookup("cocoa.Show", h)
	if err != nil {
		return err
	}
	C.cx_show(w.ref)
	if w.fullscreen {
		w.fullscreen = false
		C.cx_enter_fullscreen(w.ref)
	}
	return nil
}

func (b *cocoaBackend) Hide(h Handle) error {
	w, err := b.lookup("cocoa.Hide", h)
	if err != nil {
		return err
	}
	C.cx_hide(w.ref)
	return nil
}

func (b *cocoaBackend) SetTitle(h Handle, title string) error {
	w, err := b.lookup("cocoa.SetTitle", h)
	if err != nil {
		return err
	}
	t := C.CString(title)
	defer C.free(unsafe.Pointer(t))
	C.cx_set_title(w.ref, t)
	return nil
}

func (b *cocoaBackend) SetPosition(h Handle, x, y int) error {
	w, err := b.lookup("cocoa.SetPosition", h)
	if err != nil {
		return err
	}
	C.cx_set_position(w.ref, C.CGFloat(x), C.CGFloat(y))
	return nil
}

func (b *cocoaBackend) SetSize(h Handle, width, height int) error {
	w, err := b.lookup("cocoa.SetSize", h)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return errs.State("cocoa.SetSize", "invalid size %dx%d", width, height)
	}
	C.cx_set_size(w.ref, C.CGFloat(width), C.CGFloat(height))
	return nil
}

func (b *cocoaBackend) Size(h Handle) (int, int, error) {
	w, err := b.lookup("cocoa.Size", h)
	if err != nil {
		return 0, 0, err
	}
	var cw, ch C.CGFloat
	C.cx_size(w.ref, &cw, &ch)
	return int(cw + .5), int(ch + .5), nil
}

func (b *cocoaBackend) Scale(h Handle) float32 {
	w, ok := b.windows[h]
	if !ok {
		return 1
	}
	if s := float32(C.cx_scale(w.ref)); s > 0 {
		return s
	}
	return 1
}

func (b *cocoaBackend) AcquireSurface(h Handle) (Surface, error) {
	w, err := b.lookup("cocoa.AcquireSurface", h)
	if err != nil {
		return nil, err
	}
	if w.surface == nil {
		lw, lh, _ := b.Size(h)
		s := b.Scale(h)
		w.surface = &cocoaSurface{
			backBuffer: newBackBuffer(int(float32(lw)*s+.5), int(float32(lh)*s+.5)),
			win:        w,
		}
	}
	return w.surface, nil
}

func (b *cocoaBackend) PollEvents() ([]RawEvent, error) {
	C.cx_poll(0)
	return b.drain(), nil
}

func (b *cocoaBackend) WaitEvents() ([]RawEvent, error) {
	C.cx_poll(1)
	return b.drain(), nil
}

func (b *cocoaBackend) Wake() {
	C.cx_wake()
}

func (b *cocoaBackend) Close() error {
	for h := range b.windows {
		b.DestroyWindow(h)
	}
	cocoaOpen = false
	return nil
}

func (b *cocoaBackend) drain() []RawEvent {
	var out []RawEvent
	var ev C.cx_event
	for C.cx_next(&ev) != 0 {
		h := Handle(ev.window)
		if ev.kind != C.CX_WAKEUP {
			if _, ok := b.windows[h]; !ok {
				continue
			}
		}
		re := RawEvent{Window: h, X: float32(ev.x), Y: float32(ev.y), Mods: cocoaMods(ev.mods)}
		switch ev.kind {
		case C.CX_MOUSE_PRESS:
			re.Kind, re.Button = RawMousePress, cocoaButton(int(ev.button))
		case C.CX_MOUSE_RELEASE:
			re.Kind, re.Button = RawMouseRelease, cocoaButton(int(ev.button))
		case C.CX_MOUSE_MOVE:
			re.Kind = RawMouseMove
		case C.CX_MOUSE_ENTER:
			re.Kind = RawMouseEnter
		case C.CX_MOUSE_LEAVE:
			re.Kind = RawMouseLeave
		case C.CX_WHEEL:
			re.Kind, re.DX, re.DY = RawWheel, float32(ev.dx), float32(ev.dy)
		case C.CX_KEY_PRESS, C.CX_KEY_RELEASE:
			n, ok := cocoaKeyName(uint16(ev.keycode), rune(ev.base))
			if !ok {
				continue
			}
			re.Kind, re.Key, re.Repeat = RawKeyPress, n, ev.repeat != 0
			if ev.kind == C.CX_KEY_RELEASE {
				re.Kind, re.Repeat = RawKeyRelease, false
			}
		case C.CX_TEXT:
			re.Kind, re.Text = RawText, C.GoString(&ev.text[0])
		case C.CX_RESIZE:
			re.Kind, re.Width, re.Height = RawResize, int(ev.w), int(ev.h)
		case C.CX_MOVE:
			re.Kind = RawMove
		case C.CX_FOCUS:
			re.Kind = RawFocus
		case C.CX_UNFOCUS:
			re.Kind = RawUnfocus
		case C.CX_EXPOSE:
			re.Kind = RawExpose
		case C.CX_CLOSE:
			re.Kind = RawClose
		case C.CX_WAKEUP:
			re = RawEvent{Kind: RawWakeup}
		default:
			continue
		}
		out = append(out, re)
	}
	return out
}

func cocoaMods(m C.uint) key.Modifiers {
	var kmods key.Modifiers
	if m&C.CX_MOD_SHIFT != 0 {
		kmods |= key.ModShift
	}
	if m&C.CX_MOD_CTRL != 0 {
		kmods |= key.ModCtrl
	}
	if m&C.CX_MOD_ALT != 0 {
		kmods |= key.ModAlt
	}
	if m&C.CX_MOD_COMMAND != 0 {
		kmods |= key.ModCommand
	}
	return kmods
}

func cocoaButton(n int) pointer.Buttons {
	switch n {
	case 0:
		return pointer.ButtonPrimary
	case 1:
		return pointer.ButtonSecondary
	case 2:
		return pointer.ButtonTertiary
	}
	return pointer.ButtonOther
}

// Virtual key codes from the Carbon HIToolbox Events.h.
var cocoaKeys = map[uint16]key.Name{
	0x24: key.NameReturn,
	0x30: key.NameTab,
	0x31: key.NameSpace,
	0x33: key.NameDeleteBackward,
	0x35: key.NameEscape,
	0x37: key.NameCommand,
	0x36: key.NameCommand,
	0x38: key.NameShift,
	0x3c: key.NameShift,
	0x3a: key.NameAlt,
	0x3d: key.NameAlt,
	0x3b: key.NameCtrl,
	0x3e: key.NameCtrl,
	0x4c: key.NameEnter,
	0x72: key.NameInsert,
	0x73: key.NameHome,
	0x74: key.NamePageUp,
	0x75: key.NameDeleteForward,
	0x77: key.NameEnd,
	0x79: key.NamePageDown,
	0x7b: key.NameLeftArrow,
	0x7c: key.NameRightArrow,
	0x7d: key.NameDownArrow,
	0x7e: key.NameUpArrow,
	0x7a: key.NameF1,
	0x78: key.NameF2,
	0x63: key.NameF3,
	0x76: key.NameF4,
	0x60: key.NameF5,
	0x61: key.NameF6,
	0x62: key.NameF7,
	0x64: key.NameF8,
	0x65: key.NameF9,
	0x6d: key.NameF10,
	0x67: key.NameF11,
	0x6f: key.NameF12,
}

func cocoaKeyName(code uint16, base rune) (key.Name, bool) {
	if n, ok := cocoaKeys[code]; ok {
		return n, true
	}
	if base < 0x20 || base == 0x7f || (base >= 0xF700 && base <= 0xF8FF) {
		return "", false
	}
	if 'a' <= base && base <= 'z' {
		base -= 'a' - 'A'
	}
	return key.Name(base), true
}

func (s *cocoaSurface) Present(dirty image.Rectangle) error {
	if s.img == nil || s.win == nil {
		return errs.State("cocoa.Present", "surface released")
	}
	if s.clipDirty(dirty).Empty() {
		return nil
	}
	// The layer takes a copy of the whole back buffer.
	r := s.img.Rect
	if r.Empty() {
		return nil
	}
	ok := C.cx_present(s.win.ref, unsafe.Pointer(&s.img.Pix[0]), C.int(r.Dx()), C.int(r.Dy()), C.int(s.img.Stride))
	if ok == 0 {
		return errs.Platform("cocoa.Present", errs.ReasonTransient, errors.New("CGImage creation failed"))
	}
	return nil
}

func (s *cocoaSurface) Release() {
	s.img = nil
	if s.win != nil && s.win.surface == s {
		s.win.surface = nil
	}
	s.win = nil
}
