// SPDX-License-Identifier: Unlicense OR MIT

package widget

import (
	"cxui.org/errs"
	"cxui.org/io/event"
)

// Phase is the stage of event propagation.
type Phase uint8

const (
	// Capture runs from the root down to the parent of the target.
	Capture Phase = iota
	// Target delivers the event to the target itself.
	Target
	// Bubble runs from the parent of the target up to the root.
	Bubble
)

func (p Phase) String() string {
	switch p {
	case Capture:
		return "Capture"
	case Target:
		return "Target"
	case Bubble:
		return "Bubble"
	default:
		return "Phase(?)"
	}
}

// Context is passed to HandleEvent for every delivery of an event.
type Context struct {
	Phase  Phase
	Window event.WindowID
	// Target is the widget the event is addressed to.
	Target Widget

	// Focus and Unfocus are installed by the event router.
	Focus   func(w Widget) error
	Unfocus func()
}

// RequestFocus moves the keyboard focus of the window to w.
func (c *Context) RequestFocus(w Widget) error {
	if c == nil || c.Focus == nil {
		return errs.State("widget.RequestFocus", "no focus handler")
	}
	return c.Focus(w)
}

// ClearFocus removes the keyboard focus from the window.
func (c *Context) ClearFocus() {
	if c != nil && c.Unfocus != nil {
		c.Unfocus()
	}
}
