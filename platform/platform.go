// SPDX-License-Identifier: Unlicense OR MIT

/*
Package platform abstracts the native windowing subsystems.

A Backend creates native windows, hands out drawing surfaces and
pumps the native event queue. Exactly one production Backend is
compiled in per target: X11 on Linux and the BSDs, Win32 on Windows
and Cocoa on macOS. Package headless provides an in-memory Backend
for tests.

All window geometry crossing the Backend interface is in logical
units. Only Surface pixels are in device pixels; Scale reports the
ratio between the two.

A Backend is not safe for concurrent use, with the exception of
Wake. It must be driven from a single goroutine, which on Windows
and macOS must stay locked to its OS thread.
*/
package platform

import (
	"fmt"
	"image"

	"cxui.org/errs"
	"cxui.org/io/key"
	"cxui.org/io/pointer"
)

// Handle identifies a native window. The zero Handle is never valid.
type Handle uint64

// Params describes a window to create.
type Params struct {
	Title string
	// Width and Height are the client area size in logical units.
	Width, Height int
	// Position is the top left corner of the window on screen. A nil
	// Position lets the window manager choose.
	Position *image.Point
	// Resizable allows the user to resize the window.
	Resizable bool
	// Decorations enables the title bar and borders.
	Decorations bool
	// AlwaysOnTop keeps the window above normal windows.
	AlwaysOnTop bool
	// Fullscreen covers the screen with the client area. Width and
	// Height are the size the window returns to when it leaves
	// fullscreen, and the first resize event reports the screen size.
	Fullscreen bool
}

// DefaultParams returns the parameters used for windows created
// without explicit configuration.
func DefaultParams() Params {
	return Params{
		Title:       "cxui",
		Width:       800,
		Height:      600,
		Resizable:   true,
		Decorations: true,
	}
}

// Validate reports whether p describes a window that can be created.
func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return errs.State("platform.Params", "invalid window size %dx%d", p.Width, p.Height)
	}
	return nil
}

// Surface is the drawing target of one window. Drawing happens into
// the back buffer returned by Image; nothing reaches the screen until
// Present.
type Surface interface {
	// Image returns the back buffer, sized to the window's client area
	// in device pixels.
	Image() *image.RGBA
	// Resize reallocates the back buffer. The contents are undefined
	// afterwards.
	Resize(width, height int)
	// Present copies the dirty region of the back buffer to the
	// window.
	Present(dirty image.Rectangle) error
	// Release frees the surface. Further use is invalid.
	Release()
}

// Backend is the per-OS window system implementation.
type Backend interface {
	// Name identifies the implementation, such as "x11".
	Name() string
	// CreateWindow creates a hidden native window. Either the window
	// is fully usable on return, or an error is returned and no
	// native resources remain allocated.
	CreateWindow(p Params) (Handle, error)
	DestroyWindow(h Handle) error
	Show(h Handle) error
	Hide(h Handle) error
	SetTitle(h Handle, title string) error
	SetPosition(h Handle, x, y int) error
	SetSize(h Handle, width, height int) error
	// Size returns the client area size in logical units.
	Size(h Handle) (width, height int, err error)
	// Scale returns the number of device pixels per logical unit.
	Scale(h Handle) float32
	// AcquireSurface returns the drawing surface of h. Repeated calls
	// return the same Surface.
	AcquireSurface(h Handle) (Surface, error)
	// PollEvents returns the pending events without blocking, in the
	// order the native subsystem delivered them.
	PollEvents() ([]RawEvent, error)
	// WaitEvents blocks until at least one event is available or Wake
	// is called, and returns the pending events.
	WaitEvents() ([]RawEvent, error)
	// Wake interrupts a blocked WaitEvents. It is safe to call from
	// any goroutine.
	Wake()
	// Close destroys every remaining window and releases the
	// connection to the window system.
	Close() error
}

// RawKind identifies the type of a RawEvent.
type RawKind uint8

const (
	RawMousePress RawKind = iota + 1
	RawMouseRelease
	RawMouseMove
	RawMouseEnter
	RawMouseLeave
	RawWheel
	RawKeyPress
	RawKeyRelease
	RawText
	RawResize
	RawMove
	RawFocus
	RawUnfocus
	RawExpose
	RawClose
	RawQuit
	RawWakeup
)

func (k RawKind) String() string {
	switch k {
	case RawMousePress:
		return "MousePress"
	case RawMouseRelease:
		return "MouseRelease"
	case RawMouseMove:
		return "MouseMove"
	case RawMouseEnter:
		return "MouseEnter"
	case RawMouseLeave:
		return "MouseLeave"
	case RawWheel:
		return "Wheel"
	case RawKeyPress:
		return "KeyPress"
	case RawKeyRelease:
		return "KeyRelease"
	case RawText:
		return "Text"
	case RawResize:
		return "Resize"
	case RawMove:
		return "Move"
	case RawFocus:
		return "Focus"
	case RawUnfocus:
		return "Unfocus"
	case RawExpose:
		return "Expose"
	case RawClose:
		return "Close"
	case RawQuit:
		return "Quit"
	case RawWakeup:
		return "Wakeup"
	default:
		return fmt.Sprintf("RawKind(%d)", uint8(k))
	}
}

// RawEvent is an event as reported by a Backend, before it is
// normalized into the event package types. Only the fields relevant
// to Kind are set.
type RawEvent struct {
	Kind   RawKind
	Window Handle
	// X and Y are pointer coordinates relative to the client area, or
	// the window position for RawMove.
	X, Y   float32
	Button pointer.Buttons
	Key    key.Name
	Mods   key.Modifiers
	Repeat bool
	Text   string
	// Width and Height carry the new client size of RawResize.
	Width, Height int
	// DX and DY are scroll amounts in lines.
	DX, DY float32
}

// New returns the Backend for the running operating system.
func New() (Backend, error) {
	return newBackend()
}
