// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"cxui.org/f32"
	"cxui.org/io/event"
	"cxui.org/widget"
)

type pointerQueue struct {
	// grab is the target of the press in progress. It receives the
	// matching release even if the pointer moved away.
	grab widget.Widget
}

func (q *pointerQueue) reset() {
	q.grab = nil
}

func (r *Router) pushPointer(e event.Event) bool {
	switch e := e.(type) {
	case event.MouseEntered:
		return false
	case event.MouseLeft:
		r.tree.SetHover(nil)
		return false
	case event.MousePressed:
		path := r.HitTest(e.Position)
		if len(path) > 0 {
			r.pointer.grab = path[len(path)-1]
		}
		return r.propagate(path, e)
	case event.MouseReleased:
		path := r.grabPath()
		r.pointer.grab = nil
		if path == nil {
			path = r.HitTest(e.Position)
		}
		return r.propagate(path, e)
	case event.MouseMoved:
		path := r.HitTest(e.Position)
		r.setHover(path)
		return r.propagate(path, e)
	case event.MouseWheel:
		return r.propagate(r.HitTest(e.Position), e)
	}
	return false
}

// grabPath returns the path to the grabbing widget if it can still
// receive events.
func (r *Router) grabPath() []widget.Widget {
	g := r.pointer.grab
	if g == nil || !widget.Interactive(g) {
		return nil
	}
	path := widget.Path(g)
	if path[0] != widget.Widget(r.tree.Root()) {
		return nil
	}
	return path
}

func (r *Router) setHover(path []widget.Widget) {
	if len(path) == 0 {
		r.tree.SetHover(nil)
		return
	}
	r.tree.SetHover(path[len(path)-1])
}

// HitTest returns the path from the root to the widget under p, or nil
// if p is outside the root or the root cannot receive events. Children
// are tested in reverse order, so the last child painted wins.
func (r *Router) HitTest(p f32.Point) []widget.Widget {
	root := r.tree.Root()
	if !widget.Interactive(root) || !root.Bounds().Contains(p) {
		return nil
	}
	path := []widget.Widget{root}
	for c := root; ; {
		w := hitChild(c, p)
		if w == nil {
			return path
		}
		path = append(path, w)
		cc, ok := w.(*widget.Container)
		if !ok {
			return path
		}
		c = cc
	}
}

func hitChild(c *widget.Container, p f32.Point) widget.Widget {
	for i := c.Len() - 1; i >= 0; i-- {
		w := c.At(i)
		if w.Visible() && w.Enabled() && w.Bounds().Contains(p) {
			return w
		}
	}
	return nil
}
