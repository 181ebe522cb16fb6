// SPDX-License-Identifier: Unlicense OR MIT

/*
Package router routes events through the widget tree of a window.

Pointer events are hit-tested against the tree: the target is the
topmost visible, enabled widget under the pointer, or the innermost
container if no child matches. Key and text events target the widget
holding the focus, or the root container when nothing is focused.

Each event then propagates in three phases. During capture the
ancestors of the target are offered the event from the root down;
the target handles it next; finally it bubbles from the parent of the
target up to the root. The first handler to consume the event stops
propagation. Events that are not consumed are dropped.
*/
package router

import (
	"cxui.org/errs"
	"cxui.org/io/event"
	"cxui.org/widget"
)

// Router dispatches the events of one window.
type Router struct {
	tree   *widget.Tree
	window event.WindowID

	pointer pointerQueue
	input   inputState
}

// New returns a router for the tree of the window with the given id.
func New(tree *widget.Tree, window event.WindowID) *Router {
	return &Router{tree: tree, window: window}
}

// Dispatch routes e and reports whether a widget consumed it. Window
// level events are not routed to widgets. Structural changes made by
// handlers take effect after Dispatch returns.
func (r *Router) Dispatch(e event.Event) bool {
	if r.tree.Destroyed() {
		return false
	}
	r.input.update(e)
	consumed := false
	r.tree.Pass(func() {
		switch {
		case event.IsPointer(e):
			consumed = r.pushPointer(e)
		case event.IsKey(e):
			consumed = r.pushKey(e)
		default:
			if _, ok := e.(event.WindowUnfocused); ok {
				r.pointer.reset()
			}
		}
	})
	return consumed
}

// RequestFocus moves the focus to w. See widget.Tree.SetFocus.
func (r *Router) RequestFocus(w widget.Widget) error {
	return r.tree.SetFocus(w)
}

// ClearFocus removes the focus from the window.
func (r *Router) ClearFocus() {
	r.tree.SetFocus(nil)
}

// Focused returns the focused widget, or nil.
func (r *Router) Focused() widget.Widget {
	return r.tree.Focused()
}

// Hovered returns the widget under the pointer, or nil.
func (r *Router) Hovered() widget.Widget {
	return r.tree.Hovered()
}

// propagate delivers e along path, which runs from the root to the
// target.
func (r *Router) propagate(path []widget.Widget, e event.Event) bool {
	if len(path) == 0 {
		return false
	}
	n := len(path) - 1
	ctx := &widget.Context{
		Window:  r.window,
		Target:  path[n],
		Focus:   r.RequestFocus,
		Unfocus: r.ClearFocus,
	}
	for _, w := range path[:n] {
		if deliver(ctx, widget.Capture, w, e) {
			return true
		}
	}
	if deliver(ctx, widget.Target, path[n], e) {
		return true
	}
	for i := n - 1; i >= 0; i-- {
		if deliver(ctx, widget.Bubble, path[i], e) {
			return true
		}
	}
	return false
}

// deliver calls w's handler unless w has become disabled, hidden or
// removed since the path was computed.
func deliver(ctx *widget.Context, phase widget.Phase, w widget.Widget, e event.Event) (consumed bool) {
	if !widget.Interactive(w) {
		return false
	}
	defer errs.Recover("router.Dispatch")
	ctx.Phase = phase
	return w.HandleEvent(ctx, e)
}
