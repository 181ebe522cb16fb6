// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"cxui.org/f32"
	"cxui.org/io/event"
	"cxui.org/platform"
)

// translate normalizes a raw backend event of window id. It reports
// false for raw events without a public counterpart.
func translate(id event.WindowID, raw platform.RawEvent) (event.Event, bool) {
	pos := f32.Pt(raw.X, raw.Y)
	switch raw.Kind {
	case platform.RawMousePress:
		return event.MousePressed{Window: id, Button: raw.Button, Position: pos, Modifiers: raw.Mods}, true
	case platform.RawMouseRelease:
		return event.MouseReleased{Window: id, Button: raw.Button, Position: pos, Modifiers: raw.Mods}, true
	case platform.RawMouseMove:
		return event.MouseMoved{Window: id, Position: pos}, true
	case platform.RawMouseEnter:
		return event.MouseEntered{Window: id}, true
	case platform.RawMouseLeave:
		return event.MouseLeft{Window: id}, true
	case platform.RawWheel:
		return event.MouseWheel{Window: id, Position: pos, DX: raw.DX, DY: raw.DY}, true
	case platform.RawKeyPress:
		return event.KeyPressed{Window: id, Name: raw.Key, Modifiers: raw.Mods, Repeat: raw.Repeat}, true
	case platform.RawKeyRelease:
		return event.KeyReleased{Window: id, Name: raw.Key, Modifiers: raw.Mods}, true
	case platform.RawText:
		if raw.Text == "" {
			return nil, false
		}
		return event.TextInput{Window: id, Text: raw.Text}, true
	case platform.RawResize:
		return event.WindowResized{Window: id, Size: f32.Size{W: float32(raw.Width), H: float32(raw.Height)}}, true
	case platform.RawMove:
		return event.WindowMoved{Window: id, X: int(raw.X), Y: int(raw.Y)}, true
	case platform.RawFocus:
		return event.WindowFocused{Window: id}, true
	case platform.RawUnfocus:
		return event.WindowUnfocused{Window: id}, true
	case platform.RawClose:
		return event.WindowClosed{Window: id}, true
	case platform.RawQuit:
		return event.Quit{}, true
	case platform.RawWakeup:
		return event.Wakeup{}, true
	}
	return nil, false
}
