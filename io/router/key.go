// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"cxui.org/io/event"
	"cxui.org/widget"
)

// pushKey routes a key or text event to the focused widget. Without a
// focused widget that can receive events, only the root sees it.
func (r *Router) pushKey(e event.Event) bool {
	if f := r.tree.Focused(); f != nil && widget.Interactive(f) {
		return r.propagate(widget.Path(f), e)
	}
	root := r.tree.Root()
	if !widget.Interactive(root) {
		return false
	}
	return r.propagate([]widget.Widget{root}, e)
}
