// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd || openbsd

package platform

import (
	"errors"
	"fmt"
	"image"
	"unicode"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xprop"

	"cxui.org/errs"
	"cxui.org/io/key"
	"cxui.org/io/pointer"
)

const x11EventMask = xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskLeaveWindow |
	xproto.EventMaskExposure |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskFocusChange

// putImageHeader is the size of a PutImage request without pixel data.
const putImageHeader = 24

type x11Backend struct {
	xu     *xgbutil.XUtil
	screen *xproto.ScreenInfo

	wmProtocols xproto.Atom
	wmDelete    xproto.Atom
	wakeAtom    xproto.Atom
	// wakeWin is an unmapped window that receives wake messages.
	wakeWin xproto.Window

	next    Handle
	windows map[Handle]*x11Window
	byXID   map[xproto.Window]*x11Window
	// held tracks pressed keycodes to flag auto-repeat.
	held map[xproto.Keycode]bool
}

type x11Window struct {
	h       Handle
	id      xproto.Window
	gc      xproto.Gcontext
	x, y    int
	w, hgt  int
	surface *x11Surface
}

type x11Surface struct {
	backBuffer
	b   *x11Backend
	win *x11Window
	buf []byte
}

func newBackend() (Backend, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, errs.Platform("x11.Open", errs.ReasonDisplayUnavailable, err)
	}
	keybind.Initialize(xu)
	b := &x11Backend{
		xu:      xu,
		screen:  xu.Screen(),
		windows: make(map[Handle]*x11Window),
		byXID:   make(map[xproto.Window]*x11Window),
		held:    make(map[xproto.Keycode]bool),
	}
	for name, dst := range map[string]*xproto.Atom{
		"WM_PROTOCOLS":     &b.wmProtocols,
		"WM_DELETE_WINDOW": &b.wmDelete,
		"_CXUI_WAKEUP":     &b.wakeAtom,
	} {
		a, err := xprop.Atm(xu, name)
		if err != nil {
			xu.Conn().Close()
			return nil, errs.Platform("x11.Open", errs.ReasonDisplayUnavailable, err)
		}
		*dst = a
	}
	wid, err := xproto.NewWindowId(xu.Conn())
	if err != nil {
		xu.Conn().Close()
		return nil, errs.Platform("x11.Open", errs.ReasonResourceExhausted, err)
	}
	err = xproto.CreateWindowChecked(xu.Conn(), 0, wid, b.screen.Root,
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, 0, nil).Check()
	if err != nil {
		xu.Conn().Close()
		return nil, errs.Platform("x11.Open", errs.ReasonResourceExhausted, err)
	}
	b.wakeWin = wid
	return b, nil
}

func (b *x11Backend) Name() string { return "x11" }

func (b *x11Backend) conn() *xgb.Conn {
	return b.xu.Conn()
}

func (b *x11Backend) lookup(op string, h Handle) (*x11Window, error) {
	w, ok := b.windows[h]
	if !ok {
		return nil, errs.Platformf(op, errs.ReasonInvalidHandle, "unknown window %d", h)
	}
	return w, nil
}

func (b *x11Backend) CreateWindow(p Params) (Handle, error) {
	const op = "x11.CreateWindow"
	if err := p.Validate(); err != nil {
		return 0, err
	}
	conn := b.conn()
	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, errs.Platform(op, errs.ReasonResourceExhausted, err)
	}
	var x, y int
	if p.Position != nil {
		x, y = p.Position.X, p.Position.Y
	}
	err = xproto.CreateWindowChecked(conn,
		b.screen.RootDepth, wid, b.screen.Root,
		int16(x), int16(y), uint16(p.Width), uint16(p.Height), 0,
		xproto.WindowClassInputOutput, b.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		// Value list order follows the bit positions of the mask.
		[]uint32{b.screen.WhitePixel, x11EventMask},
	).Check()
	if err != nil {
		return 0, errs.Platform(op, errs.ReasonResourceExhausted, err)
	}
	// From here on every failure must destroy what was created.
	fail := func(gc xproto.Gcontext, err error) (Handle, error) {
		if gc != 0 {
			xproto.FreeGC(conn, gc)
		}
		xproto.DestroyWindow(conn, wid)
		return 0, errs.Platform(op, errs.ReasonResourceExhausted, err)
	}
	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return fail(0, err)
	}
	if err := xproto.CreateGCChecked(conn, gc, xproto.Drawable(wid), 0, nil).Check(); err != nil {
		return fail(0, err)
	}
	if err := icccm.WmProtocolsSet(b.xu, wid, []string{"WM_DELETE_WINDOW"}); err != nil {
		return fail(gc, err)
	}
	if err := b.setTitle(wid, p.Title); err != nil {
		return fail(gc, err)
	}
	hints := &icccm.NormalHints{}
	if p.Position != nil {
		hints.Flags |= icccm.SizeHintUSPosition
		hints.X, hints.Y = x, y
	}
	if !p.Resizable {
		hints.Flags |= icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize
		hints.MinWidth, hints.MaxWidth = uint(p.Width), uint(p.Width)
		hints.MinHeight, hints.MaxHeight = uint(p.Height), uint(p.Height)
	}
	if hints.Flags != 0 {
		if err := icccm.WmNormalHintsSet(b.xu, wid, hints); err != nil {
			return fail(gc, err)
		}
	}
	if !p.Decorations {
		// _MOTIF_WM_HINTS: flags=MWM_HINTS_DECORATIONS, decorations=0.
		if err := xprop.ChangeProp32(b.xu, wid, "_MOTIF_WM_HINTS", "_MOTIF_WM_HINTS", 2, 0, 0, 0, 0); err != nil {
			return fail(gc, err)
		}
	}
	var state []string
	if p.AlwaysOnTop {
		state = append(state, "_NET_WM_STATE_ABOVE")
	}
	if p.Fullscreen {
		state = append(state, "_NET_WM_STATE_FULLSCREEN")
	}
	// The window manager reads the initial state when the window is
	// mapped.
	if len(state) > 0 {
		if err := ewmh.WmStateSet(b.xu, wid, state); err != nil {
			return fail(gc, err)
		}
	}
	b.next++
	w := &x11Window{h: b.next, id: wid, gc: gc, x: x, y: y, w: p.Width, hgt: p.Height}
	b.windows[w.h] = w
	b.byXID[wid] = w
	return w.h, nil
}

func (b *x11Backend) setTitle(wid xproto.Window, title string) error {
	if err := ewmh.WmNameSet(b.xu, wid, title); err != nil {
		return err
	}
	return icccm.WmNameSet(b.xu, wid, title)
}

func (b *x11Backend) DestroyWindow(h Handle) error {
	w, err := b.lookup("x11.DestroyWindow", h)
	if err != nil {
		return err
	}
	if w.surface != nil {
		w.surface.img = nil
		w.surface.buf = nil
		w.surface = nil
	}
	xproto.FreeGC(b.conn(), w.gc)
	xproto.DestroyWindow(b.conn(), w.id)
	delete(b.windows, h)
	delete(b.byXID, w.id)
	return nil
}

func (b *x11Backend) Show(h Handle) error {
	w, err := b.lookup("x11.Show", h)
	if err != nil {
		return err
	}
	return b.check("x11.Show", xproto.MapWindowChecked(b.conn(), w.id).Check())
}

func (b *x11Backend) Hide(h Handle) error {
	w, err := b.lookup("x11.Hide", h)
	if err != nil {
		return err
	}
	return b.check("x11.Hide", xproto.UnmapWindowChecked(b.conn(), w.id).Check())
}

func (b *x11Backend) SetTitle(h Handle, title string) error {
	w, err := b.lookup("x11.SetTitle", h)
	if err != nil {
		return err
	}
	return b.check("x11.SetTitle", b.setTitle(w.id, title))
}

func (b *x11Backend) SetPosition(h Handle, x, y int) error {
	w, err := b.lookup("x11.SetPosition", h)
	if err != nil {
		return err
	}
	err = xproto.ConfigureWindowChecked(b.conn(), w.id,
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(int32(x)), uint32(int32(y))}).Check()
	if err == nil {
		w.x, w.y = x, y
	}
	return b.check("x11.SetPosition", err)
}

func (b *x11Backend) SetSize(h Handle, width, height int) error {
	w, err := b.lookup("x11.SetSize", h)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return errs.State("x11.SetSize", "invalid size %dx%d", width, height)
	}
	err = xproto.ConfigureWindowChecked(b.conn(), w.id,
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(width), uint32(height)}).Check()
	if err == nil {
		w.w, w.hgt = width, height
	}
	return b.check("x11.SetSize", err)
}

func (b *x11Backend) Size(h Handle) (int, int, error) {
	w, err := b.lookup("x11.Size", h)
	if err != nil {
		return 0, 0, err
	}
	return w.w, w.hgt, nil
}

// Scale is always 1: X11 has no per-window scale and logical units
// map onto pixels.
func (b *x11Backend) Scale(h Handle) float32 {
	return 1
}

func (b *x11Backend) AcquireSurface(h Handle) (Surface, error) {
	w, err := b.lookup("x11.AcquireSurface", h)
	if err != nil {
		return nil, err
	}
	if w.surface == nil {
		w.surface = &x11Surface{backBuffer: newBackBuffer(w.w, w.hgt), b: b, win: w}
	}
	return w.surface, nil
}

func (b *x11Backend) check(op string, err error) error {
	if err == nil {
		return nil
	}
	return errs.Platform(op, errs.ReasonInvalidHandle, err)
}

func (b *x11Backend) PollEvents() ([]RawEvent, error) {
	var out []RawEvent
	for {
		ev, xerr := b.conn().PollForEvent()
		if ev == nil && xerr == nil {
			return out, nil
		}
		if xerr != nil {
			// Errors of unchecked requests arrive asynchronously and
			// cannot be tied to a caller.
			errs.Report(errs.Platform("x11.PollEvents", errs.ReasonInvalidHandle, xerr))
			continue
		}
		out = b.translate(out, ev)
	}
}

func (b *x11Backend) WaitEvents() ([]RawEvent, error) {
	ev, xerr := b.conn().WaitForEvent()
	if ev == nil && xerr == nil {
		return nil, errs.Platform("x11.WaitEvents", errs.ReasonDisplayUnavailable,
			errors.New("connection to the X server closed"))
	}
	var out []RawEvent
	if xerr != nil {
		errs.Report(errs.Platform("x11.WaitEvents", errs.ReasonInvalidHandle, xerr))
	} else {
		out = b.translate(out, ev)
	}
	rest, err := b.PollEvents()
	return append(out, rest...), err
}

func (b *x11Backend) Wake() {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: b.wakeWin,
		Type:   b.wakeAtom,
		Data:   xproto.ClientMessageDataUnionData32New(make([]uint32, 5)),
	}
	xproto.SendEvent(b.conn(), false, b.wakeWin, xproto.EventMaskNoEvent, string(ev.Bytes()))
}

func (b *x11Backend) Close() error {
	for h := range b.windows {
		b.DestroyWindow(h)
	}
	xproto.DestroyWindow(b.conn(), b.wakeWin)
	b.conn().Close()
	return nil
}

func (b *x11Backend) translate(out []RawEvent, ev xgb.Event) []RawEvent {
	switch ev := ev.(type) {
	case xproto.ButtonPressEvent:
		w := b.byXID[ev.Event]
		if w == nil {
			break
		}
		re := RawEvent{Window: w.h, X: float32(ev.EventX), Y: float32(ev.EventY), Mods: x11Mods(ev.State)}
		switch ev.Detail {
		case 4, 5, 6, 7:
			re.Kind = RawWheel
			switch ev.Detail {
			case 4:
				re.DY = -1
			case 5:
				re.DY = 1
			case 6:
				re.DX = -1
			case 7:
				re.DX = 1
			}
		default:
			re.Kind = RawMousePress
			re.Button = x11Button(ev.Detail)
		}
		out = append(out, re)
	case xproto.ButtonReleaseEvent:
		w := b.byXID[ev.Event]
		if w == nil || (ev.Detail >= 4 && ev.Detail <= 7) {
			break
		}
		out = append(out, RawEvent{
			Kind: RawMouseRelease, Window: w.h,
			X: float32(ev.EventX), Y: float32(ev.EventY),
			Button: x11Button(ev.Detail), Mods: x11Mods(ev.State),
		})
	case xproto.MotionNotifyEvent:
		if w := b.byXID[ev.Event]; w != nil {
			out = append(out, RawEvent{Kind: RawMouseMove, Window: w.h, X: float32(ev.EventX), Y: float32(ev.EventY)})
		}
	case xproto.EnterNotifyEvent:
		if w := b.byXID[ev.Event]; w != nil {
			out = append(out, RawEvent{Kind: RawMouseEnter, Window: w.h, X: float32(ev.EventX), Y: float32(ev.EventY)})
		}
	case xproto.LeaveNotifyEvent:
		if w := b.byXID[ev.Event]; w != nil {
			out = append(out, RawEvent{Kind: RawMouseLeave, Window: w.h})
		}
	case xproto.KeyPressEvent:
		w := b.byXID[ev.Event]
		if w == nil {
			break
		}
		name, text := b.lookupKey(ev.State, ev.Detail)
		mods := x11Mods(ev.State)
		repeat := b.held[ev.Detail]
		b.held[ev.Detail] = true
		if name != "" {
			out = append(out, RawEvent{Kind: RawKeyPress, Window: w.h, Key: name, Mods: mods, Repeat: repeat})
		}
		if text != "" && !mods.Contain(key.ModCtrl) && !mods.Contain(key.ModAlt) {
			out = append(out, RawEvent{Kind: RawText, Window: w.h, Text: text})
		}
	case xproto.KeyReleaseEvent:
		w := b.byXID[ev.Event]
		if w == nil {
			break
		}
		delete(b.held, ev.Detail)
		if name, _ := b.lookupKey(ev.State, ev.Detail); name != "" {
			out = append(out, RawEvent{Kind: RawKeyRelease, Window: w.h, Key: name, Mods: x11Mods(ev.State)})
		}
	case xproto.ConfigureNotifyEvent:
		w := b.byXID[ev.Window]
		if w == nil {
			break
		}
		if int(ev.Width) != w.w || int(ev.Height) != w.hgt {
			w.w, w.hgt = int(ev.Width), int(ev.Height)
			out = append(out, RawEvent{Kind: RawResize, Window: w.h, Width: w.w, Height: w.hgt})
		}
		if int(ev.X) != w.x || int(ev.Y) != w.y {
			w.x, w.y = int(ev.X), int(ev.Y)
			out = append(out, RawEvent{Kind: RawMove, Window: w.h, X: float32(w.x), Y: float32(w.y)})
		}
	case xproto.ExposeEvent:
		if w := b.byXID[ev.Window]; w != nil && ev.Count == 0 {
			out = append(out, RawEvent{Kind: RawExpose, Window: w.h})
		}
	case xproto.FocusInEvent:
		if w := b.byXID[ev.Event]; w != nil {
			out = append(out, RawEvent{Kind: RawFocus, Window: w.h})
		}
	case xproto.FocusOutEvent:
		if w := b.byXID[ev.Event]; w != nil {
			out = append(out, RawEvent{Kind: RawUnfocus, Window: w.h})
		}
	case xproto.ClientMessageEvent:
		switch {
		case ev.Type == b.wakeAtom:
			out = append(out, RawEvent{Kind: RawWakeup})
		case ev.Type == b.wmProtocols && len(ev.Data.Data32) > 0 && xproto.Atom(ev.Data.Data32[0]) == b.wmDelete:
			if w := b.byXID[ev.Window]; w != nil {
				out = append(out, RawEvent{Kind: RawClose, Window: w.h})
			}
		}
	case xproto.MappingNotifyEvent:
		keybind.Initialize(b.xu)
	}
	return out
}

// lookupKey maps a keycode to a key name and the text it produces.
func (b *x11Backend) lookupKey(state uint16, code xproto.Keycode) (key.Name, string) {
	if n, ok := x11Names[keybind.LookupString(b.xu, 0, code)]; ok {
		return n, ""
	}
	base := x11Rune(keybind.KeysymGet(b.xu, code, 0))
	if base == 0 {
		return "", ""
	}
	col := byte(0)
	if state&xproto.ModMaskShift != 0 {
		col = 1
	}
	r := x11Rune(keybind.KeysymGet(b.xu, code, col))
	if r == 0 {
		r = base
	}
	if state&xproto.ModMaskLock != 0 {
		r = unicode.ToUpper(r)
	}
	return key.Name(string(unicode.ToUpper(base))), string(r)
}

// x11Rune converts a keysym to the character it produces, or 0.
func x11Rune(ks xproto.Keysym) rune {
	switch {
	case ks >= 0x20 && ks <= 0x7e, ks >= 0xa0 && ks <= 0xff:
		// Latin-1 keysyms equal their code points.
		return rune(ks)
	case ks >= 0x01000100 && ks <= 0x0110ffff:
		return rune(ks - 0x01000000)
	}
	return 0
}

var x11Names = map[string]key.Name{
	"Left":      key.NameLeftArrow,
	"Right":     key.NameRightArrow,
	"Up":        key.NameUpArrow,
	"Down":      key.NameDownArrow,
	"Return":    key.NameReturn,
	"KP_Enter":  key.NameEnter,
	"Escape":    key.NameEscape,
	"Home":      key.NameHome,
	"End":       key.NameEnd,
	"BackSpace": key.NameDeleteBackward,
	"Delete":    key.NameDeleteForward,
	"Prior":     key.NamePageUp,
	"Next":      key.NamePageDown,
	"Insert":    key.NameInsert,
	"Tab":       key.NameTab,
	"space":     key.NameSpace,
	"Control_L": key.NameCtrl,
	"Control_R": key.NameCtrl,
	"Shift_L":   key.NameShift,
	"Shift_R":   key.NameShift,
	"Alt_L":     key.NameAlt,
	"Alt_R":     key.NameAlt,
	"Super_L":   key.NameSuper,
	"Super_R":   key.NameSuper,
	"F1":        key.NameF1,
	"F2":        key.NameF2,
	"F3":        key.NameF3,
	"F4":        key.NameF4,
	"F5":        key.NameF5,
	"F6":        key.NameF6,
	"F7":        key.NameF7,
	"F8":        key.NameF8,
	"F9":        key.NameF9,
	"F10":       key.NameF10,
	"F11":       key.NameF11,
	"F12":       key.NameF12,
}

func x11Mods(state uint16) key.Modifiers {
	var m key.Modifiers
	if state&xproto.ModMaskShift != 0 {
		m |= key.ModShift
	}
	if state&xproto.ModMaskControl != 0 {
		m |= key.ModCtrl
	}
	if state&xproto.ModMask1 != 0 {
		m |= key.ModAlt
	}
	if state&xproto.ModMask4 != 0 {
		m |= key.ModSuper
	}
	return m
}

func x11Button(detail xproto.Button) pointer.Buttons {
	switch detail {
	case 1:
		return pointer.ButtonPrimary
	case 2:
		return pointer.ButtonTertiary
	case 3:
		return pointer.ButtonSecondary
	}
	return pointer.ButtonOther
}

func (s *x11Surface) Present(dirty image.Rectangle) error {
	const op = "x11.Present"
	if s.img == nil || s.win == nil {
		return errs.State(op, "surface released")
	}
	r := s.clipDirty(dirty)
	if r.Empty() {
		return nil
	}
	conn := s.b.conn()
	stride := r.Dx() * 4
	// Split the upload so every request stays below the server limit.
	maxBytes := int(xproto.Setup(conn).MaximumRequestLength)*4 - putImageHeader
	rows := max(maxBytes/stride, 1)
	if need := stride * min(rows, r.Dy()); len(s.buf) < need {
		s.buf = make([]byte, need)
	}
	for y := r.Min.Y; y < r.Max.Y; y += rows {
		n := min(rows, r.Max.Y-y)
		chunk := image.Rect(r.Min.X, y, r.Max.X, y+n)
		sub := s.img.SubImage(chunk).(*image.RGBA)
		rgbaToBGRA(s.buf, stride, sub, chunk)
		err := xproto.PutImageChecked(conn, xproto.ImageFormatZPixmap,
			xproto.Drawable(s.win.id), s.win.gc,
			uint16(chunk.Dx()), uint16(n), int16(chunk.Min.X), int16(chunk.Min.Y),
			0, s.b.screen.RootDepth, s.buf[:stride*n]).Check()
		if err != nil {
			return errs.Platform(op, errs.ReasonTransient, fmt.Errorf("put image: %w", err))
		}
	}
	return nil
}

func (s *x11Surface) Release() {
	s.img = nil
	s.buf = nil
	if s.win != nil && s.win.surface == s {
		s.win.surface = nil
	}
	s.win = nil
}
