// SPDX-License-Identifier: Unlicense OR MIT

package widget

import (
	"cxui.org/errs"
	"cxui.org/f32"
	"cxui.org/paint"
)

// Tree is the widget tree of one window. It owns the root container,
// runs layout and render passes over it and tracks the focused and
// hovered widgets.
type Tree struct {
	root      *Container
	size      f32.Size
	passes    int
	queue     []func()
	cancelled bool
	destroyed bool

	needsLayout bool
	needsRender bool

	focus Widget
	hover Widget
}

// NewTree returns a tree rooted at root, which must be a fresh
// container without a parent.
func NewTree(root *Container) (*Tree, error) {
	const op = "widget.NewTree"
	switch {
	case root == nil:
		return nil, errs.State(op, "nil root")
	case root.destroyed:
		return nil, errs.State(op, "root %v destroyed", root.ID())
	case root.parent != nil || root.owner != nil:
		return nil, errs.State(op, "root %v already attached", root.ID())
	}
	t := &Tree{root: root, needsLayout: true, needsRender: true}
	root.owner = t
	return t, nil
}

// Root returns the root container.
func (t *Tree) Root() *Container {
	return t.root
}

// Size returns the size passed to the last Layout.
func (t *Tree) Size() f32.Size {
	return t.size
}

// NeedsLayout reports whether a change since the last layout pass may
// have moved any widget.
func (t *Tree) NeedsLayout() bool {
	return t.needsLayout
}

// NeedsRender reports whether the tree changed since the last render
// pass.
func (t *Tree) NeedsRender() bool {
	return t.needsRender || t.needsLayout
}

// Invalidate schedules a layout and a render pass.
func (t *Tree) Invalidate() {
	t.invalidate(true)
}

func (t *Tree) invalidate(relayout bool) {
	if relayout {
		t.needsLayout = true
	}
	t.needsRender = true
}

// InPass reports whether a pass is running. Structural changes made
// during a pass are deferred until it completes.
func (t *Tree) InPass() bool {
	return t.passes > 0
}

// Pass runs fn as a pass over the tree. Structural changes requested
// by fn are applied in order once the outermost pass returns.
func (t *Tree) Pass(fn func()) {
	t.passes++
	defer func() {
		t.passes--
		if t.passes == 0 {
			t.cancelled = false
			t.flush()
		}
	}()
	fn()
}

// Defer runs fn after the current pass, or immediately when no pass is
// running.
func (t *Tree) Defer(fn func()) {
	if t.passes > 0 {
		t.queue = append(t.queue, fn)
		return
	}
	fn()
}

func (t *Tree) flush() {
	for len(t.queue) > 0 {
		fn := t.queue[0]
		t.queue[0] = nil
		t.queue = t.queue[1:]
		fn()
	}
	t.queue = nil
}

// Cancel aborts the running layout or render pass. The pass returns a
// KindState error at the next container it visits. Cancel has no
// effect outside a pass.
func (t *Tree) Cancel() {
	if t.passes > 0 {
		t.cancelled = true
	}
}

// Layout sets the root bounds to the given client size and arranges
// the whole tree.
func (t *Tree) Layout(size f32.Size) error {
	if t.destroyed {
		return errs.State("widget.Layout", "tree destroyed")
	}
	var err error
	t.Pass(func() {
		t.needsLayout = false
		t.needsRender = true
		t.size = size
		t.root.Place(f32.Rect{W: size.W, H: size.H})
		err = t.root.arrange(t)
	})
	if err != nil {
		t.needsLayout = true
	}
	return err
}

// Resize places the root over a client area of the given size and
// schedules a layout of its children.
func (t *Tree) Resize(size f32.Size) error {
	if t.destroyed {
		return errs.State("widget.Resize", "tree destroyed")
	}
	t.size = size
	t.root.Place(f32.Rect{W: size.W, H: size.H})
	t.needsLayout = true
	return nil
}

// Render draws the tree into c, which must be in a frame.
func (t *Tree) Render(c *paint.Canvas) error {
	if t.destroyed {
		return errs.State("widget.Render", "tree destroyed")
	}
	var err error
	t.Pass(func() {
		t.needsRender = false
		err = t.root.Render(c)
	})
	if err != nil {
		t.needsRender = true
	}
	return err
}

// Destroy cancels any running pass, discards pending changes and
// destroys every widget in the tree.
func (t *Tree) Destroy() {
	if t.destroyed {
		return
	}
	t.Cancel()
	t.queue = nil
	t.focus, t.hover = nil, nil
	t.destroyed = true
	destroy(t.root)
}

// Destroyed reports whether Destroy was called.
func (t *Tree) Destroyed() bool {
	return t.destroyed
}

// Focused returns the widget holding the keyboard focus, or nil.
func (t *Tree) Focused() Widget {
	return t.focus
}

// SetFocus moves the focus to w, clearing it from the previous holder
// first. A nil w clears the focus. w must be an interactive widget of
// this tree.
func (t *Tree) SetFocus(w Widget) error {
	const op = "widget.SetFocus"
	if w == nil {
		t.clearFocus()
		return nil
	}
	switch {
	case w.Destroyed():
		return errs.State(op, "widget %v destroyed", w.ID())
	case w.base().tree() != t:
		return errs.State(op, "widget %v is not in this tree", w.ID())
	case !Interactive(w):
		return errs.State(op, "widget %v is hidden or disabled", w.ID())
	}
	if t.focus == w {
		return nil
	}
	t.clearFocus()
	w.base().focused = true
	t.focus = w
	t.invalidate(false)
	return nil
}

func (t *Tree) clearFocus() {
	if t.focus == nil {
		return
	}
	t.focus.base().focused = false
	t.focus = nil
	t.invalidate(false)
}

// Hovered returns the widget under the pointer, or nil.
func (t *Tree) Hovered() Widget {
	return t.hover
}

// SetHover marks w as the widget under the pointer. A nil w clears the
// hover state.
func (t *Tree) SetHover(w Widget) {
	if t.hover == w {
		return
	}
	if t.hover != nil {
		t.hover.base().hovered = false
	}
	t.hover = w
	if w != nil {
		w.base().hovered = true
	}
	t.invalidate(false)
}

// forget drops focus and hover references into the subtree rooted at w.
func (t *Tree) forget(w Widget) {
	if contains(w, t.focus) {
		t.clearFocus()
	}
	if contains(w, t.hover) {
		t.SetHover(nil)
	}
}
