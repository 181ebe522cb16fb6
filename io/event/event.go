// SPDX-License-Identifier: Unlicense OR MIT

/*
Package event contains the uniform event model delivered to windows
and widgets.

Platform backends produce raw, device-pixel events; the application
loop normalizes them into the values defined here, in logical units,
before routing them. Events are plain value types and are never
modified after construction.
*/
package event

import (
	"cxui.org/f32"
	"cxui.org/io/key"
	"cxui.org/io/pointer"
)

// Event is the marker interface for events.
type Event interface {
	ImplementsEvent()
}

// WindowID identifies the window an event belongs to. The zero
// WindowID is used by application level events such as Quit.
type WindowID uint64

// MousePressed is sent when a mouse button goes down.
type MousePressed struct {
	Window    WindowID
	Button    pointer.Buttons
	Position  f32.Point
	Modifiers key.Modifiers
}

// MouseReleased is sent when a mouse button goes up.
type MouseReleased struct {
	Window    WindowID
	Button    pointer.Buttons
	Position  f32.Point
	Modifiers key.Modifiers
}

// MouseMoved is sent when the pointer moves inside a window.
type MouseMoved struct {
	Window   WindowID
	Position f32.Point
}

// MouseEntered is sent when the pointer enters a window.
type MouseEntered struct {
	Window WindowID
}

// MouseLeft is sent when the pointer leaves a window.
type MouseLeft struct {
	Window WindowID
}

// MouseWheel reports scrolling. Positive DY scrolls down.
type MouseWheel struct {
	Window   WindowID
	Position f32.Point
	DX, DY   float32
}

// KeyPressed is sent when a key goes down. Repeat is set for
// auto-repeated presses.
type KeyPressed struct {
	Window    WindowID
	Name      key.Name
	Modifiers key.Modifiers
	Repeat    bool
}

// KeyReleased is sent when a key goes up.
type KeyReleased struct {
	Window    WindowID
	Name      key.Name
	Modifiers key.Modifiers
}

// TextInput carries text produced by the keyboard, after layout and
// dead key processing.
type TextInput struct {
	Window WindowID
	Text   string
}

// WindowResized reports a new client area size in logical units.
type WindowResized struct {
	Window WindowID
	Size   f32.Size
}

// WindowMoved reports a new window position in screen pixels.
type WindowMoved struct {
	Window WindowID
	X, Y   int
}

// WindowFocused is sent when a window becomes the key window.
type WindowFocused struct {
	Window WindowID
}

// WindowUnfocused is sent when a window loses keyboard focus.
type WindowUnfocused struct {
	Window WindowID
}

// WindowClosed is sent when the user asks to close a window.
type WindowClosed struct {
	Window WindowID
}

// Quit is sent when the platform asks the application to exit.
type Quit struct{}

// Wakeup is delivered when a backend's blocking wait was interrupted
// by a wake signal.
type Wakeup struct{}

// Target returns the window e is addressed to.
func Target(e Event) WindowID {
	switch e := e.(type) {
	case MousePressed:
		return e.Window
	case MouseReleased:
		return e.Window
	case MouseMoved:
		return e.Window
	case MouseEntered:
		return e.Window
	case MouseLeft:
		return e.Window
	case MouseWheel:
		return e.Window
	case KeyPressed:
		return e.Window
	case KeyReleased:
		return e.Window
	case TextInput:
		return e.Window
	case WindowResized:
		return e.Window
	case WindowMoved:
		return e.Window
	case WindowFocused:
		return e.Window
	case WindowUnfocused:
		return e.Window
	case WindowClosed:
		return e.Window
	}
	return 0
}

// Position returns the pointer position of e and whether e is a
// positioned pointer event, the kind that is routed by hit-testing.
func Position(e Event) (f32.Point, bool) {
	switch e := e.(type) {
	case MousePressed:
		return e.Position, true
	case MouseReleased:
		return e.Position, true
	case MouseMoved:
		return e.Position, true
	case MouseWheel:
		return e.Position, true
	}
	return f32.Point{}, false
}

// IsPointer reports whether e originates from a pointing device.
func IsPointer(e Event) bool {
	switch e.(type) {
	case MousePressed, MouseReleased, MouseMoved, MouseEntered, MouseLeft, MouseWheel:
		return true
	}
	return false
}

// IsKey reports whether e is a keyboard or text event, the kind that
// is routed to the focused widget.
func IsKey(e Event) bool {
	switch e.(type) {
	case KeyPressed, KeyReleased, TextInput:
		return true
	}
	return false
}

func (MousePressed) ImplementsEvent()    {}
func (MouseReleased) ImplementsEvent()   {}
func (MouseMoved) ImplementsEvent()      {}
func (MouseEntered) ImplementsEvent()    {}
func (MouseLeft) ImplementsEvent()       {}
func (MouseWheel) ImplementsEvent()      {}
func (KeyPressed) ImplementsEvent()      {}
func (KeyReleased) ImplementsEvent()     {}
func (TextInput) ImplementsEvent()       {}
func (WindowResized) ImplementsEvent()   {}
func (WindowMoved) ImplementsEvent()     {}
func (WindowFocused) ImplementsEvent()   {}
func (WindowUnfocused) ImplementsEvent() {}
func (WindowClosed) ImplementsEvent()    {}
func (Quit) ImplementsEvent()            {}
func (Wakeup) ImplementsEvent()          {}
