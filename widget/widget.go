// SPDX-License-Identifier: Unlicense OR MIT

/*
Package widget implements the retained widget tree of a window.

A window owns exactly one Tree, whose root is a Container. Containers
own their children exclusively: adding a widget to a Container
transfers ownership, removing it destroys it and its subtree. Child
order is significant; it is both the paint order and the order in
which events are captured and bubbled.

Widget state (bounds, visibility, enabled, focus and hover) lives in
Base and changes only through the methods of Base, Container and
Tree. Structural changes requested while the tree is in a layout,
render or dispatch pass are queued and applied in order when the
pass completes.

The tree is not safe for concurrent use. Work from other goroutines
must be posted to the UI goroutine through the application.
*/
package widget

import (
	"fmt"
	"sync/atomic"

	"cxui.org/errs"
	"cxui.org/f32"
	"cxui.org/io/event"
	"cxui.org/layout"
	"cxui.org/paint"
)

// ID identifies a widget. IDs are unique within the process and never
// reused.
type ID uint64

var lastID atomic.Uint64

func newID() ID {
	return ID(lastID.Add(1))
}

func (id ID) String() string {
	return fmt.Sprintf("#%d", uint64(id))
}

// Widget is the capability set shared by every element of a tree.
// Implementations embed Base, which provides all methods except
// NaturalSize, Render and HandleEvent.
type Widget interface {
	layout.Node

	ID() ID
	// SetBounds sets the bounds in logical window coordinates.
	SetBounds(r f32.Rect) error
	SetVisible(visible bool) error
	// Constraint bounds the size Flex and Grid containers give
	// the widget.
	Constraint() layout.Constraint
	SetConstraint(c layout.Constraint) error
	Enabled() bool
	SetEnabled(enabled bool) error
	Focused() bool
	Hovered() bool
	// Render draws the widget. It is the only path that mutates
	// pixels, and is called during a canvas frame.
	Render(c *paint.Canvas) error
	// HandleEvent processes e and reports whether it was consumed.
	// It is never called on a widget that is disabled or hidden, or
	// inside a disabled or hidden subtree.
	HandleEvent(ctx *Context, e event.Event) bool
	Parent() *Container
	Destroyed() bool

	base() *Base
}

// Base holds the state shared by all widgets. The zero value is a
// visible, enabled widget with empty bounds.
type Base struct {
	id        ID
	bounds    f32.Rect
	hidden    bool
	disabled  bool
	focused   bool
	hovered   bool
	destroyed bool
	z         int
	limits    layout.Constraint
	parent    *Container
	// owner is set on the root container of a Tree.
	owner *Tree
}

func (b *Base) base() *Base {
	return b
}

// ID returns the widget's identifier. The constructors in this
// package assign it immediately; a widget type embedding Base gets its
// ID on the first call, and at the latest when it is added to a
// container.
func (b *Base) ID() ID {
	if b.id == 0 {
		b.id = newID()
	}
	return b.id
}

func (b *Base) Bounds() f32.Rect {
	return b.bounds
}

// SetBounds sets the bounds of the widget. Flex and Grid containers
// overwrite the bounds of their children at the next layout; under
// Absolute they are kept as set. The bounds of a tree root follow
// the window and cannot be set.
func (b *Base) SetBounds(r f32.Rect) error {
	const op = "widget.SetBounds"
	if err := b.check(op); err != nil {
		return err
	}
	if !r.Valid() {
		return errs.State(op, "invalid bounds %v", r)
	}
	if b.owner != nil {
		return errs.State(op, "root bounds follow the window size")
	}
	b.bounds = r
	b.invalidate(true)
	return nil
}

// Place sets the bounds computed by the layout engine.
func (b *Base) Place(r f32.Rect) {
	b.bounds = r
}

func (b *Base) Visible() bool {
	return !b.hidden
}

// SetVisible shows or hides the widget. Hidden widgets and their
// descendants neither render, take part in layout nor receive
// events.
func (b *Base) SetVisible(visible bool) error {
	if err := b.check("widget.SetVisible"); err != nil {
		return err
	}
	if b.hidden != visible {
		return nil
	}
	b.hidden = !visible
	b.invalidate(true)
	return nil
}

func (b *Base) Constraint() layout.Constraint {
	return b.limits
}

// SetConstraint sets the minimum and maximum size the layout engine
// gives the widget. Absolute containers ignore it.
func (b *Base) SetConstraint(c layout.Constraint) error {
	if err := b.check("widget.SetConstraint"); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	b.limits = c
	b.invalidate(true)
	return nil
}

func (b *Base) Enabled() bool {
	return !b.disabled
}

// SetEnabled enables or disables the widget. Disabled widgets render
// but never receive events.
func (b *Base) SetEnabled(enabled bool) error {
	if err := b.check("widget.SetEnabled"); err != nil {
		return err
	}
	if b.disabled != enabled {
		return nil
	}
	b.disabled = !enabled
	b.invalidate(false)
	return nil
}

// Focused reports whether the widget holds the keyboard focus of its
// window.
func (b *Base) Focused() bool {
	return b.focused
}

// Hovered reports whether the pointer is over the widget.
func (b *Base) Hovered() bool {
	return b.hovered
}

// ZIndex returns the position of the widget among its siblings.
func (b *Base) ZIndex() int {
	return b.z
}

func (b *Base) Parent() *Container {
	return b.parent
}

func (b *Base) Destroyed() bool {
	return b.destroyed
}

func (b *Base) check(op string) error {
	if b.destroyed {
		return errs.State(op, "widget %v destroyed", b.ID())
	}
	return nil
}

// tree returns the tree the widget is attached to, or nil.
func (b *Base) tree() *Tree {
	for x := b; ; x = &x.parent.Base {
		if x.owner != nil {
			return x.owner
		}
		if x.parent == nil {
			return nil
		}
	}
}

func (b *Base) invalidate(relayout bool) {
	if t := b.tree(); t != nil {
		t.invalidate(relayout)
	}
}

// Path returns the chain of widgets from the root of w's tree down to
// w itself.
func Path(w Widget) []Widget {
	var path []Widget
	for {
		path = append(path, w)
		p := w.Parent()
		if p == nil {
			break
		}
		w = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Interactive reports whether w may receive events: it is attached to
// a tree, and neither it nor any ancestor is destroyed, hidden or
// disabled.
func Interactive(w Widget) bool {
	for b := w.base(); ; b = &b.parent.Base {
		if b.destroyed || b.hidden || b.disabled {
			return false
		}
		if b.parent == nil {
			return b.owner != nil
		}
	}
}

// contains reports whether w is anc or one of its descendants.
func contains(anc, w Widget) bool {
	if anc == nil || w == nil {
		return false
	}
	a := anc.base()
	for b := w.base(); b != nil; {
		if b == a {
			return true
		}
		if b.parent == nil {
			return false
		}
		b = &b.parent.Base
	}
	return false
}
