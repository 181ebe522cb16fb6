// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"cxui.org/f32"
	"cxui.org/io/event"
	"cxui.org/io/key"
	"cxui.org/io/pointer"
)

// inputState is the keyboard and pointer state seen by a Router.
type inputState struct {
	keys    map[key.Name]bool
	buttons pointer.Buttons
	mods    key.Modifiers
	pos     f32.Point
}

func (s *inputState) update(e event.Event) {
	switch e := e.(type) {
	case event.MousePressed:
		s.pos, s.mods = e.Position, e.Modifiers
		s.buttons |= e.Button
	case event.MouseReleased:
		s.pos, s.mods = e.Position, e.Modifiers
		s.buttons &^= e.Button
	case event.MouseMoved:
		s.pos = e.Position
	case event.MouseWheel:
		s.pos = e.Position
	case event.KeyPressed:
		if s.keys == nil {
			s.keys = make(map[key.Name]bool)
		}
		s.keys[e.Name] = true
		s.mods = e.Modifiers
	case event.KeyReleased:
		delete(s.keys, e.Name)
		s.mods = e.Modifiers
	case event.WindowUnfocused:
		// Releases are not reported to unfocused windows.
		clear(s.keys)
		s.buttons, s.mods = 0, 0
	}
}

// KeyPressed reports whether the named key is held down. Keys are
// released when the window loses the focus.
func (r *Router) KeyPressed(name key.Name) bool {
	return r.input.keys[name]
}

// ButtonsPressed returns the pointer buttons held down.
func (r *Router) ButtonsPressed() pointer.Buttons {
	return r.input.buttons
}

// MousePosition returns the last pointer position reported to the
// window, in logical coordinates.
func (r *Router) MousePosition() f32.Point {
	return r.input.pos
}

// Modifiers returns the modifier keys held at the last key or button
// event.
func (r *Router) Modifiers() key.Modifiers {
	return r.input.mods
}
