// SPDX-License-Identifier: Unlicense OR MIT

package widget

import (
	"slices"

	"cxui.org/errs"
	"cxui.org/f32"
	"cxui.org/io/event"
	"cxui.org/layout"
	"cxui.org/paint"
)

// ContainerStyle is the appearance of a Container. The zero value
// draws nothing.
type ContainerStyle struct {
	Background  paint.Color
	Border      paint.Color
	BorderWidth float32
	// Padding insets the area given to the children.
	Padding float32
}

// ContainerConfig configures a new Container.
type ContainerConfig struct {
	// Layout positions the children. Nil means layout.Absolute.
	Layout layout.Policy
	Style  ContainerStyle
	// OnCapture is offered events during the capture phase, before
	// any descendant sees them. Returning true consumes the event.
	OnCapture func(ctx *Context, e event.Event) bool
	// OnEvent handles events targeted at the container or bubbling
	// up from a descendant.
	OnEvent func(ctx *Context, e event.Event) bool
}

// Container is a widget that owns an ordered list of children and
// positions them with a layout policy.
type Container struct {
	Base
	policy    layout.Policy
	style     ContainerStyle
	onCapture func(ctx *Context, e event.Event) bool
	onEvent   func(ctx *Context, e event.Event) bool
	children  []Widget
}

// NewContainer returns an empty container. It fails with a
// KindLayoutConfig error if the policy or style is invalid.
func NewContainer(cfg ContainerConfig) (*Container, error) {
	p, err := validPolicy(cfg.Layout)
	if err != nil {
		return nil, err
	}
	if cfg.Style.Padding < 0 || cfg.Style.BorderWidth < 0 {
		return nil, errs.LayoutConfig("widget.NewContainer", "negative padding or border width")
	}
	c := &Container{
		policy:    p,
		style:     cfg.Style,
		onCapture: cfg.OnCapture,
		onEvent:   cfg.OnEvent,
	}
	c.ID()
	return c, nil
}

func validPolicy(p layout.Policy) (layout.Policy, error) {
	if p == nil {
		return layout.Absolute{}, nil
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Layout returns the layout policy.
func (c *Container) Layout() layout.Policy {
	return c.policy
}

// SetLayout replaces the layout policy. Invalid policies are rejected
// immediately with a KindLayoutConfig error.
func (c *Container) SetLayout(p layout.Policy) error {
	if err := c.check("widget.SetLayout"); err != nil {
		return err
	}
	p, err := validPolicy(p)
	if err != nil {
		return err
	}
	c.mutate(func() {
		if c.destroyed {
			return
		}
		c.policy = p
		c.invalidate(true)
	})
	return nil
}

// Style returns the container style.
func (c *Container) Style() ContainerStyle {
	return c.style
}

// Children returns a copy of the child list in order.
func (c *Container) Children() []Widget {
	return slices.Clone(c.children)
}

// Len returns the number of children.
func (c *Container) Len() int {
	return len(c.children)
}

// At returns the i'th child.
func (c *Container) At(i int) Widget {
	return c.children[i]
}

// Child returns the direct child with the given id, or nil.
func (c *Container) Child(id ID) Widget {
	if i := c.indexOf(id); i >= 0 {
		return c.children[i]
	}
	return nil
}

// Find returns the widget with the given id in the subtree rooted at
// c, including c itself, or nil.
func (c *Container) Find(id ID) Widget {
	if c.ID() == id {
		return c
	}
	for _, w := range c.children {
		if w.ID() == id {
			return w
		}
		if cc, ok := w.(*Container); ok {
			if f := cc.Find(id); f != nil {
				return f
			}
		}
	}
	return nil
}

func (c *Container) indexOf(id ID) int {
	return slices.IndexFunc(c.children, func(w Widget) bool { return w.ID() == id })
}

// AddChild appends w and transfers its ownership to c. w must not
// have a parent.
func (c *Container) AddChild(w Widget) error {
	const op = "widget.AddChild"
	if err := c.canAdopt(op, w); err != nil {
		return err
	}
	w.ID()
	c.mutate(func() {
		if err := c.canAdopt(op, w); err != nil {
			errs.Report(err)
			return
		}
		b := w.base()
		b.parent = c
		b.z = len(c.children)
		c.children = append(c.children, w)
		c.invalidate(true)
	})
	return nil
}

func (c *Container) canAdopt(op string, w Widget) *errs.Error {
	if c.destroyed {
		return errs.State(op, "container %v destroyed", c.ID())
	}
	if w == nil {
		return errs.State(op, "nil widget")
	}
	b := w.base()
	switch {
	case b.destroyed:
		return errs.State(op, "widget %v destroyed", w.ID())
	case b.parent != nil:
		return errs.State(op, "widget %v already has parent %v", w.ID(), b.parent.ID())
	case b.owner != nil:
		return errs.State(op, "widget %v is the root of a tree", w.ID())
	case contains(w, c):
		return errs.State(op, "widget %v is an ancestor of %v", w.ID(), c.ID())
	}
	return nil
}

// RemoveChild removes the child with the given id and destroys it
// together with its subtree.
func (c *Container) RemoveChild(id ID) error {
	const op = "widget.RemoveChild"
	if err := c.check(op); err != nil {
		return err
	}
	// During a pass the child may be the subject of a queued AddChild.
	if c.indexOf(id) < 0 && !c.inPass() {
		return errs.State(op, "%v is not a child of %v", id, c.ID())
	}
	c.mutate(func() {
		w := c.unlink(id)
		if w == nil {
			errs.Report(errs.State(op, "%v is not a child of %v", id, c.ID()))
			return
		}
		destroy(w)
	})
	return nil
}

// Detach removes the child with the given id without destroying it,
// and returns it. The caller may add it to another container.
func (c *Container) Detach(id ID) (Widget, error) {
	const op = "widget.Detach"
	if err := c.check(op); err != nil {
		return nil, err
	}
	i := c.indexOf(id)
	if i < 0 {
		return nil, errs.State(op, "%v is not a child of %v", id, c.ID())
	}
	w := c.children[i]
	c.mutate(func() { c.unlink(id) })
	return w, nil
}

func (c *Container) unlink(id ID) Widget {
	i := c.indexOf(id)
	if i < 0 {
		return nil
	}
	w := c.children[i]
	if t := c.tree(); t != nil {
		t.forget(w)
	}
	c.children = slices.Delete(c.children, i, i+1)
	for j := i; j < len(c.children); j++ {
		c.children[j].base().z = j
	}
	b := w.base()
	b.parent = nil
	b.z = 0
	c.invalidate(true)
	return w
}

func (c *Container) inPass() bool {
	t := c.tree()
	return t != nil && t.passes > 0
}

// mutate applies a structural change now, or after the current pass
// of the tree c belongs to.
func (c *Container) mutate(fn func()) {
	if t := c.tree(); t != nil {
		t.Defer(fn)
		return
	}
	fn()
}

func destroy(w Widget) {
	if c, ok := w.(*Container); ok {
		for _, ch := range c.children {
			ch.base().parent = nil
			destroy(ch)
		}
		c.children = nil
	}
	b := w.base()
	b.destroyed = true
	b.focused = false
	b.hovered = false
}

// NaturalSize is the natural size of the children under the layout
// policy, plus padding.
func (c *Container) NaturalSize() f32.Size {
	sz := layout.Measure(c.policy, c.nodes())
	p := 2 * c.style.Padding
	return f32.Size{W: sz.W + p, H: sz.H + p}
}

func (c *Container) nodes() []layout.Node {
	nodes := make([]layout.Node, len(c.children))
	for i, w := range c.children {
		nodes[i] = w
	}
	return nodes
}

// content returns the area available to the children.
func (c *Container) content() f32.Rect {
	return c.bounds.Inset(c.style.Padding)
}

// arrange lays out the subtree rooted at c within its bounds.
func (c *Container) arrange(t *Tree) error {
	if t.cancelled {
		return errCancelled("widget.Layout")
	}
	layout.Arrange(c.policy, c.content(), c.nodes())
	for _, w := range c.children {
		cc, ok := w.(*Container)
		if !ok || !cc.Visible() {
			continue
		}
		if err := cc.arrange(t); err != nil {
			return err
		}
	}
	return nil
}

// Render draws the container background and border, then its visible
// children in order, clipped to the container bounds.
func (c *Container) Render(cv *paint.Canvas) error {
	if c.hidden {
		return nil
	}
	if t := c.tree(); t != nil && t.cancelled {
		return errCancelled("widget.Render")
	}
	if c.style.Background.A != 0 {
		if err := cv.FillRect(c.bounds, c.style.Background); err != nil {
			return err
		}
	}
	if c.style.BorderWidth > 0 && c.style.Border.A != 0 {
		if err := cv.StrokeRect(c.bounds, c.style.Border, c.style.BorderWidth); err != nil {
			return err
		}
	}
	if len(c.children) == 0 {
		return nil
	}
	if err := cv.PushClip(c.bounds); err != nil {
		return err
	}
	for _, w := range c.children {
		if !w.Visible() {
			continue
		}
		if err := w.Render(cv); err != nil {
			cv.PopClip()
			return err
		}
	}
	return cv.PopClip()
}

// HandleEvent passes e to OnCapture during the capture phase and to
// OnEvent otherwise.
func (c *Container) HandleEvent(ctx *Context, e event.Event) bool {
	h := c.onEvent
	if ctx != nil && ctx.Phase == Capture {
		h = c.onCapture
	}
	if h == nil {
		return false
	}
	return h(ctx, e)
}

func errCancelled(op string) *errs.Error {
	return errs.State(op, "pass cancelled")
}
