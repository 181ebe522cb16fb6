// SPDX-License-Identifier: Unlicense OR MIT

package platform

import (
	"errors"
	"fmt"
	"image"
	"unicode/utf16"
	"unsafe"

	syscall "golang.org/x/sys/windows"

	"cxui.org/errs"
	"cxui.org/io/key"
	"cxui.org/io/pointer"
)

type rect struct {
	left, top, right, bottom int32
}

type point struct {
	x, y int32
}

type msg struct {
	hwnd     syscall.Handle
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       point
	lPrivate uint32
}

type wndClassEx struct {
	cbSize        uint32
	style         uint32
	lpfnWndProc   uintptr
	cnClsExtra    int32
	cbWndExtra    int32
	hInstance     syscall.Handle
	hIcon         syscall.Handle
	hCursor       syscall.Handle
	hbrBackground syscall.Handle
	lpszMenuName  *uint16
	lpszClassName *uint16
	hIconSm       syscall.Handle
}

type bitmapInfoHeader struct {
	biSize          uint32
	biWidth         int32
	biHeight        int32
	biPlanes        uint16
	biBitCount      uint16
	biCompression   uint32
	biSizeImage     uint32
	biXPelsPerMeter int32
	biYPelsPerMeter int32
	biClrUsed       uint32
	biClrImportant  uint32
}

type bitmapInfo struct {
	header bitmapInfoHeader
	colors [1]uint32
}

type trackMouseEvent struct {
	cbSize      uint32
	dwFlags     uint32
	hwndTrack   syscall.Handle
	dwHoverTime uint32
}

const (
	_CS_HREDRAW = 0x0002
	_CS_VREDRAW = 0x0001
	_CS_OWNDC   = 0x0020

	_CW_USEDEFAULT = -2147483648

	_IDC_ARROW = 32512

	_LOGPIXELSX = 88

	_BI_RGB         = 0
	_DIB_RGB_COLORS = 0
	_SRCCOPY        = 0x00CC0020

	_PM_REMOVE = 0x0001

	_SW_HIDE = 0
	_SW_SHOW = 5

	_SWP_NOSIZE     = 0x0001
	_SWP_NOMOVE     = 0x0002
	_SWP_NOZORDER   = 0x0004
	_SWP_NOACTIVATE = 0x0010

	_TME_LEAVE = 0x00000002

	_WHEEL_DELTA = 120

	_VK_BACK    = 0x08
	_VK_TAB     = 0x09
	_VK_RETURN  = 0x0d
	_VK_SHIFT   = 0x10
	_VK_CONTROL = 0x11
	_VK_MENU    = 0x12
	_VK_ESCAPE  = 0x1b
	_VK_SPACE   = 0x20
	_VK_PRIOR   = 0x21
	_VK_NEXT    = 0x22
	_VK_END     = 0x23
	_VK_HOME    = 0x24
	_VK_LEFT    = 0x25
	_VK_UP      = 0x26
	_VK_RIGHT   = 0x27
	_VK_DOWN    = 0x28
	_VK_INSERT  = 0x2d
	_VK_DELETE  = 0x2e
	_VK_LWIN    = 0x5b
	_VK_RWIN    = 0x5c
	_VK_F1      = 0x70
	_VK_F12     = 0x7b

	_WM_MOVE        = 0x0003
	_WM_SIZE        = 0x0005
	_WM_SETFOCUS    = 0x0007
	_WM_KILLFOCUS   = 0x0008
	_WM_PAINT       = 0x000F
	_WM_CLOSE       = 0x0010
	_WM_QUIT        = 0x0012
	_WM_KEYDOWN     = 0x0100
	_WM_KEYUP       = 0x0101
	_WM_CHAR        = 0x0102
	_WM_SYSKEYDOWN  = 0x0104
	_WM_SYSKEYUP    = 0x0105
	_WM_MOUSEMOVE   = 0x0200
	_WM_LBUTTONDOWN = 0x0201
	_WM_LBUTTONUP   = 0x0202
	_WM_RBUTTONDOWN = 0x0204
	_WM_RBUTTONUP   = 0x0205
	_WM_MBUTTONDOWN = 0x0207
	_WM_MBUTTONUP   = 0x0208
	_WM_MOUSEWHEEL  = 0x020A
	_WM_XBUTTONDOWN = 0x020B
	_WM_XBUTTONUP   = 0x020C
	_WM_MOUSEHWHEEL = 0x020E
	_WM_MOUSELEAVE  = 0x02A3
	_WM_DPICHANGED  = 0x02E0
	_WM_USER        = 0x0400

	_WS_CLIPCHILDREN     = 0x02000000
	_WS_CLIPSIBLINGS     = 0x04000000
	_WS_OVERLAPPED       = 0x00000000
	_WS_POPUP            = 0x80000000
	_WS_CAPTION          = 0x00C00000
	_WS_SYSMENU          = 0x00080000
	_WS_THICKFRAME       = 0x00040000
	_WS_MINIMIZEBOX      = 0x00020000
	_WS_MAXIMIZEBOX      = 0x00010000
	_WS_OVERLAPPEDWINDOW = _WS_OVERLAPPED | _WS_CAPTION | _WS_SYSMENU | _WS_THICKFRAME |
		_WS_MINIMIZEBOX | _WS_MAXIMIZEBOX

	_WS_EX_APPWINDOW  = 0x00040000
	_WS_EX_WINDOWEDGE = 0x00000100
	_WS_EX_TOPMOST    = 0x00000008

	_SM_CXSCREEN = 0
	_SM_CYSCREEN = 1
)

// _WM_WAKEUP is posted to the UI thread by Wake.
const _WM_WAKEUP = _WM_USER + 0

type win32Backend struct {
	hInst  syscall.Handle
	class  uint16
	thread uint32

	next    Handle
	windows map[Handle]*win32Window
	byHWND  map[syscall.Handle]*win32Window
	// pending collects events produced by windowProc during dispatch.
	pending []RawEvent
}

type win32Window struct {
	h      Handle
	hwnd   syscall.Handle
	hdc    syscall.Handle
	style  uint32
	exStyl uint32
	scale  float32
	// width and height are the client size in pixels.
	width, height int
	// tracking is set while TrackMouseEvent reports the pointer inside.
	tracking bool
	// surrogate holds the high half of a UTF-16 pair from WM_CHAR.
	surrogate uint16
	surface   *win32Surface
}

type win32Surface struct {
	backBuffer
	win *win32Window
	bgr []byte
}

// active is the running backend, used by windowProc.
var active *win32Backend

func newBackend() (Backend, error) {
	if active != nil {
		return nil, errs.State("win32.Open", "backend already open")
	}
	setProcessDPIAware()
	hInst, err := getModuleHandle()
	if err != nil {
		return nil, errs.Platform("win32.Open", errs.ReasonDisplayUnavailable, err)
	}
	curs, err := loadCursor(_IDC_ARROW)
	if err != nil {
		return nil, errs.Platform("win32.Open", errs.ReasonDisplayUnavailable, err)
	}
	wcls := wndClassEx{
		cbSize:        uint32(unsafe.Sizeof(wndClassEx{})),
		style:         _CS_HREDRAW | _CS_VREDRAW | _CS_OWNDC,
		lpfnWndProc:   syscall.NewCallback(windowProc),
		hInstance:     hInst,
		hCursor:       curs,
		lpszClassName: syscall.StringToUTF16Ptr("CxuiWindow"),
	}
	cls, err := registerClassEx(&wcls)
	if err != nil {
		return nil, errs.Platform("win32.Open", errs.ReasonResourceExhausted, err)
	}
	active = &win32Backend{
		hInst:   hInst,
		class:   cls,
		thread:  syscall.GetCurrentThreadId(),
		windows: make(map[Handle]*win32Window),
		byHWND:  make(map[syscall.Handle]*win32Window),
	}
	return active, nil
}

func (b *win32Backend) Name() string { return "win32" }

func (b *win32Backend) lookup(op string, h Handle) (*win32Window, error) {
	w, ok := b.windows[h]
	if !ok {
		return nil, errs.Platformf(op, errs.ReasonInvalidHandle, "unknown window %d", h)
	}
	return w, nil
}

// screenScale returns the device pixels per logical unit of the
// primary screen.
func screenScale() float32 {
	dc, err := getDC(0)
	if err != nil {
		return 1
	}
	defer releaseDC(0, dc)
	if dpi := getDeviceCaps(dc, _LOGPIXELSX); dpi > 0 {
		return float32(dpi) / 96
	}
	return 1
}

func (b *win32Backend) CreateWindow(p Params) (Handle, error) {
	const op = "win32.CreateWindow"
	if err := p.Validate(); err != nil {
		return 0, err
	}
	scale := screenScale()
	style := uint32(_WS_OVERLAPPEDWINDOW)
	switch {
	case !p.Decorations:
		style = _WS_POPUP
	case !p.Resizable:
		style &^= _WS_THICKFRAME | _WS_MAXIMIZEBOX
	}
	exStyle := uint32(_WS_EX_APPWINDOW | _WS_EX_WINDOWEDGE)
	if p.AlwaysOnTop {
		exStyle |= _WS_EX_TOPMOST
	}
	wr := rect{
		right:  int32(float32(p.Width)*scale + .5),
		bottom: int32(float32(p.Height)*scale + .5),
	}
	adjustWindowRectEx(&wr, style, 0, exStyle)
	x, y := int32(_CW_USEDEFAULT), int32(_CW_USEDEFAULT)
	if p.Position != nil {
		x = int32(float32(p.Position.X) * scale)
		y = int32(float32(p.Position.Y) * scale)
	}
	if p.Fullscreen {
		// A borderless popup covering the primary monitor.
		style = _WS_POPUP
		x, y = 0, 0
		wr = rect{right: getSystemMetrics(_SM_CXSCREEN), bottom: getSystemMetrics(_SM_CYSCREEN)}
	}
	hwnd, err := createWindowEx(exStyle, b.class, p.Title,
		style|_WS_CLIPSIBLINGS|_WS_CLIPCHILDREN,
		x, y, wr.right-wr.left, wr.bottom-wr.top,
		0, 0, b.hInst, 0)
	if err != nil {
		return 0, errs.Platform(op, errs.ReasonResourceExhausted, err)
	}
	hdc, err := getDC(hwnd)
	if err != nil {
		destroyWindow(hwnd)
		return 0, errs.Platform(op, errs.ReasonResourceExhausted, err)
	}
	if dpi := getDpiForWindow(hwnd); dpi > 0 {
		scale = float32(dpi) / 96
	}
	var cr rect
	getClientRect(hwnd, &cr)
	b.next++
	w := &win32Window{
		h:      b.next,
		hwnd:   hwnd,
		hdc:    hdc,
		style:  style,
		exStyl: exStyle,
		scale:  scale,
		width:  int(cr.right - cr.left),
		height: int(cr.bottom - cr.top),
	}
	b.windows[w.h] = w
	b.byHWND[hwnd] = w
	return w.h, nil
}

func (b *win32Backend) DestroyWindow(h Handle) error {
	w, err := b.lookup("win32.DestroyWindow", h)
	if err != nil {
		return err
	}
	if w.surface != nil {
		w.surface.Release()
	}
	releaseDC(w.hwnd, w.hdc)
	destroyWindow(w.hwnd)
	delete(b.windows, h)
	delete(b.byHWND, w.hwnd)
	return nil
}

func (b *win32Backend) Show(h Handle) error {
	w, err := b.lookup("win32.Show", h)
	if err != nil {
		return err
	}
	showWindow(w.hwnd, _SW_SHOW)
	setForegroundWindow(w.hwnd)
	setFocus(w.hwnd)
	return nil
}

func (b *win32Backend) Hide(h Handle) error {
	w, err := b.lookup("win32.Hide", h)
	if err != nil {
		return err
	}
	showWindow(w.hwnd, _SW_HIDE)
	return nil
}

func (b *win32Backend) SetTitle(h Handle, title string) error {
	w, err := b.lookup("win32.SetTitle", h)
	if err != nil {
		return err
	}
	if err := setWindowText(w.hwnd, title); err != nil {
		return errs.Platform("win32.SetTitle", errs.ReasonInvalidHandle, err)
	}
	return nil
}

func (b *win32Backend) SetPosition(h Handle, x, y int) error {
	w, err := b.lookup("win32.SetPosition", h)
	if err != nil {
		return err
	}
	px := int32(float32(x) * w.scale)
	py := int32(float32(y) * w.scale)
	if err := setWindowPos(w.hwnd, px, py, 0, 0, _SWP_NOSIZE|_SWP_NOZORDER|_SWP_NOACTIVATE); err != nil {
		return errs.Platform("win32.SetPosition", errs.ReasonInvalidHandle, err)
	}
	return nil
}

func (b *win32Backend) SetSize(h Handle, width, height int) error {
	w, err := b.lookup("win32.SetSize", h)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return errs.State("win32.SetSize", "invalid size %dx%d", width, height)
	}
	wr := rect{
		right:  int32(float32(width)*w.scale + .5),
		bottom: int32(float32(height)*w.scale + .5),
	}
	adjustWindowRectEx(&wr, w.style, 0, w.exStyl)
	if err := setWindowPos(w.hwnd, 0, 0, wr.right-wr.left, wr.bottom-wr.top, _SWP_NOMOVE|_SWP_NOZORDER|_SWP_NOACTIVATE); err != nil {
		return errs.Platform("win32.SetSize", errs.ReasonInvalidHandle, err)
	}
	return nil
}

func (b *win32Backend) Size(h Handle) (int, int, error) {
	w, err := b.lookup("win32.Size", h)
	if err != nil {
		return 0, 0, err
	}
	return w.logical(w.width), w.logical(w.height), nil
}

func (w *win32Window) logical(px int) int {
	return int(float32(px)/w.scale + .5)
}

func (b *win32Backend) Scale(h Handle) float32 {
	if w, ok := b.windows[h]; ok {
		return w.scale
	}
	return 1
}

func (b *win32Backend) AcquireSurface(h Handle) (Surface, error) {
	w, err := b.lookup("win32.AcquireSurface", h)
	if err != nil {
		return nil, err
	}
	if w.surface == nil {
		w.surface = &win32Surface{backBuffer: newBackBuffer(w.width, w.height), win: w}
	}
	return w.surface, nil
}

func (b *win32Backend) PollEvents() ([]RawEvent, error) {
	var m msg
	for peekMessage(&m, 0, 0, 0, _PM_REMOVE) {
		b.handle(&m)
	}
	return b.flush(), nil
}

// Adapted from https://blogs.msdn.microsoft.com/oldnewthing/20060126-00/?p=32513/
func (b *win32Backend) WaitEvents() ([]RawEvent, error) {
	var m msg
	switch getMessage(&m, 0, 0, 0) {
	case -1:
		return nil, errs.Platform("win32.WaitEvents", errs.ReasonDisplayUnavailable, errors.New("GetMessage failed"))
	case 0:
		b.pending = append(b.pending, RawEvent{Kind: RawQuit})
		return b.flush(), nil
	}
	b.handle(&m)
	return b.PollEvents()
}

func (b *win32Backend) handle(m *msg) {
	switch m.message {
	case _WM_WAKEUP:
		b.pending = append(b.pending, RawEvent{Kind: RawWakeup})
		return
	case _WM_QUIT:
		b.pending = append(b.pending, RawEvent{Kind: RawQuit})
		return
	}
	translateMessage(m)
	dispatchMessage(m)
}

func (b *win32Backend) flush() []RawEvent {
	evs := b.pending
	b.pending = nil
	return evs
}

func (b *win32Backend) Wake() {
	postThreadMessage(b.thread, _WM_WAKEUP, 0, 0)
}

func (b *win32Backend) Close() error {
	for h := range b.windows {
		b.DestroyWindow(h)
	}
	unregisterClass(b.class, b.hInst)
	active = nil
	return nil
}

func windowProc(hwnd syscall.Handle, msg uint32, wParam, lParam uintptr) uintptr {
	b := active
	if b == nil {
		return defWindowProc(hwnd, msg, wParam, lParam)
	}
	w := b.byHWND[hwnd]
	if w == nil {
		return defWindowProc(hwnd, msg, wParam, lParam)
	}
	emit := func(e RawEvent) {
		e.Window = w.h
		b.pending = append(b.pending, e)
	}
	switch msg {
	case _WM_CHAR:
		c := uint16(wParam)
		if utf16.IsSurrogate(rune(c)) {
			if w.surrogate == 0 {
				w.surrogate = c
				return 0
			}
			r := utf16.DecodeRune(rune(w.surrogate), rune(c))
			w.surrogate = 0
			emit(RawEvent{Kind: RawText, Text: string(r)})
			return 0
		}
		w.surrogate = 0
		if r := rune(c); r >= 0x20 && r != 0x7f {
			emit(RawEvent{Kind: RawText, Text: string(r)})
		}
		return 0
	case _WM_KEYDOWN, _WM_SYSKEYDOWN:
		if n, ok := convertKeyCode(wParam); ok {
			emit(RawEvent{Kind: RawKeyPress, Key: n, Mods: getModifiers(), Repeat: lParam&(1<<30) != 0})
		}
		if msg == _WM_SYSKEYDOWN {
			break
		}
		return 0
	case _WM_KEYUP, _WM_SYSKEYUP:
		if n, ok := convertKeyCode(wParam); ok {
			emit(RawEvent{Kind: RawKeyRelease, Key: n, Mods: getModifiers()})
		}
		if msg == _WM_SYSKEYUP {
			break
		}
		return 0
	case _WM_LBUTTONDOWN, _WM_RBUTTONDOWN, _WM_MBUTTONDOWN, _WM_XBUTTONDOWN:
		setCapture(hwnd)
		x, y := w.coords(lParam)
		emit(RawEvent{Kind: RawMousePress, X: x, Y: y, Button: buttonFor(msg), Mods: getModifiers()})
		return 0
	case _WM_LBUTTONUP, _WM_RBUTTONUP, _WM_MBUTTONUP, _WM_XBUTTONUP:
		releaseCapture()
		x, y := w.coords(lParam)
		emit(RawEvent{Kind: RawMouseRelease, X: x, Y: y, Button: buttonFor(msg), Mods: getModifiers()})
		return 0
	case _WM_MOUSEMOVE:
		x, y := w.coords(lParam)
		if !w.tracking {
			w.tracking = true
			trackMouse(hwnd)
			emit(RawEvent{Kind: RawMouseEnter, X: x, Y: y})
		}
		emit(RawEvent{Kind: RawMouseMove, X: x, Y: y})
		return 0
	case _WM_MOUSELEAVE:
		w.tracking = false
		emit(RawEvent{Kind: RawMouseLeave})
		return 0
	case _WM_MOUSEWHEEL, _WM_MOUSEHWHEEL:
		// The wheel coordinates are in screen coordinates, in contrast
		// to other mouse events.
		sx, sy := coordsFromlParam(lParam)
		np := point{x: int32(sx), y: int32(sy)}
		screenToClient(hwnd, &np)
		dist := float32(int16(wParam>>16)) / _WHEEL_DELTA
		e := RawEvent{Kind: RawWheel, X: float32(np.x) / w.scale, Y: float32(np.y) / w.scale}
		if msg == _WM_MOUSEWHEEL {
			e.DY = -dist
		} else {
			e.DX = dist
		}
		emit(e)
		return 0
	case _WM_SETFOCUS:
		emit(RawEvent{Kind: RawFocus})
	case _WM_KILLFOCUS:
		emit(RawEvent{Kind: RawUnfocus})
	case _WM_MOVE:
		x, y := coordsFromlParam(lParam)
		emit(RawEvent{Kind: RawMove, X: float32(x) / w.scale, Y: float32(y) / w.scale})
	case _WM_SIZE:
		width, height := int(lParam&0xffff), int((lParam>>16)&0xffff)
		if width == 0 || height == 0 || (width == w.width && height == w.height) {
			// Minimized, or unchanged.
			break
		}
		w.width, w.height = width, height
		emit(RawEvent{Kind: RawResize, Width: w.logical(width), Height: w.logical(height)})
	case _WM_DPICHANGED:
		w.scale = float32(wParam&0xffff) / 96
	case _WM_PAINT:
		validateRect(hwnd)
		emit(RawEvent{Kind: RawExpose})
		return 0
	case _WM_CLOSE:
		// The runtime decides whether the window is destroyed.
		emit(RawEvent{Kind: RawClose})
		return 0
	}
	return defWindowProc(hwnd, msg, wParam, lParam)
}

func (w *win32Window) coords(lParam uintptr) (float32, float32) {
	x, y := coordsFromlParam(lParam)
	return float32(x) / w.scale, float32(y) / w.scale
}

func coordsFromlParam(lParam uintptr) (int, int) {
	x := int(int16(lParam & 0xffff))
	y := int(int16((lParam >> 16) & 0xffff))
	return x, y
}

func buttonFor(msg uint32) pointer.Buttons {
	switch msg {
	case _WM_LBUTTONDOWN, _WM_LBUTTONUP:
		return pointer.ButtonPrimary
	case _WM_RBUTTONDOWN, _WM_RBUTTONUP:
		return pointer.ButtonSecondary
	case _WM_MBUTTONDOWN, _WM_MBUTTONUP:
		return pointer.ButtonTertiary
	}
	return pointer.ButtonOther
}

func getModifiers() key.Modifiers {
	var kmods key.Modifiers
	if keyDown(_VK_LWIN) || keyDown(_VK_RWIN) {
		kmods |= key.ModSuper
	}
	if keyDown(_VK_MENU) {
		kmods |= key.ModAlt
	}
	if keyDown(_VK_CONTROL) {
		kmods |= key.ModCtrl
	}
	if keyDown(_VK_SHIFT) {
		kmods |= key.ModShift
	}
	return kmods
}

func keyDown(vk int32) bool {
	// The high bit reports the key as down.
	return getKeyState(vk) < 0
}

func convertKeyCode(code uintptr) (key.Name, bool) {
	if '0' <= code && code <= '9' || 'A' <= code && code <= 'Z' {
		return key.Name(rune(code)), true
	}
	if _VK_F1 <= code && code <= _VK_F12 {
		return key.Name(fmt.Sprintf("F%d", code-_VK_F1+1)), true
	}
	var r key.Name
	switch code {
	case _VK_ESCAPE:
		r = key.NameEscape
	case _VK_LEFT:
		r = key.NameLeftArrow
	case _VK_RIGHT:
		r = key.NameRightArrow
	case _VK_RETURN:
		r = key.NameReturn
	case _VK_UP:
		r = key.NameUpArrow
	case _VK_DOWN:
		r = key.NameDownArrow
	case _VK_HOME:
		r = key.NameHome
	case _VK_END:
		r = key.NameEnd
	case _VK_BACK:
		r = key.NameDeleteBackward
	case _VK_DELETE:
		r = key.NameDeleteForward
	case _VK_PRIOR:
		r = key.NamePageUp
	case _VK_NEXT:
		r = key.NamePageDown
	case _VK_INSERT:
		r = key.NameInsert
	case _VK_TAB:
		r = key.NameTab
	case _VK_SPACE:
		r = key.NameSpace
	case _VK_SHIFT:
		r = key.NameShift
	case _VK_CONTROL:
		r = key.NameCtrl
	case _VK_MENU:
		r = key.NameAlt
	case _VK_LWIN, _VK_RWIN:
		r = key.NameSuper
	default:
		return "", false
	}
	return r, true
}

func (s *win32Surface) Present(dirty image.Rectangle) error {
	const op = "win32.Present"
	if s.img == nil || s.win == nil {
		return errs.State(op, "surface released")
	}
	if s.clipDirty(dirty).Empty() {
		return nil
	}
	// StretchDIBits copies whole rows of a top-down DIB; the full frame
	// is blitted regardless of the dirty region.
	r := s.img.Rect
	stride := r.Dx() * 4
	if len(s.bgr) != stride*r.Dy() {
		s.bgr = make([]byte, stride*r.Dy())
	}
	rgbaToBGRA(s.bgr, stride, s.img, r)
	bi := bitmapInfo{header: bitmapInfoHeader{
		biWidth:       int32(r.Dx()),
		biHeight:      -int32(r.Dy()),
		biPlanes:      1,
		biBitCount:    32,
		biCompression: _BI_RGB,
	}}
	bi.header.biSize = uint32(unsafe.Sizeof(bi.header))
	if err := stretchDIBits(s.win.hdc, r.Dx(), r.Dy(), s.bgr, &bi); err != nil {
		return errs.Platform(op, errs.ReasonTransient, err)
	}
	return nil
}

func (s *win32Surface) Release() {
	s.img = nil
	s.bgr = nil
	if s.win != nil && s.win.surface == s {
		s.win.surface = nil
	}
	s.win = nil
}

var (
	kernel32          = syscall.NewLazySystemDLL("kernel32.dll")
	_GetModuleHandleW = kernel32.NewProc("GetModuleHandleW")

	user32               = syscall.NewLazySystemDLL("user32.dll")
	_AdjustWindowRectEx  = user32.NewProc("AdjustWindowRectEx")
	_CreateWindowEx      = user32.NewProc("CreateWindowExW")
	_DefWindowProc       = user32.NewProc("DefWindowProcW")
	_DestroyWindow       = user32.NewProc("DestroyWindow")
	_DispatchMessage     = user32.NewProc("DispatchMessageW")
	_GetClientRect       = user32.NewProc("GetClientRect")
	_GetDC               = user32.NewProc("GetDC")
	_GetDpiForWindow     = user32.NewProc("GetDpiForWindow")
	_GetKeyState         = user32.NewProc("GetKeyState")
	_GetMessage          = user32.NewProc("GetMessageW")
	_GetSystemMetrics    = user32.NewProc("GetSystemMetrics")
	_LoadCursor          = user32.NewProc("LoadCursorW")
	_PeekMessage         = user32.NewProc("PeekMessageW")
	_PostThreadMessage   = user32.NewProc("PostThreadMessageW")
	_ReleaseCapture      = user32.NewProc("ReleaseCapture")
	_RegisterClassExW    = user32.NewProc("RegisterClassExW")
	_ReleaseDC           = user32.NewProc("ReleaseDC")
	_ScreenToClient      = user32.NewProc("ScreenToClient")
	_SetCapture          = user32.NewProc("SetCapture")
	_SetFocus            = user32.NewProc("SetFocus")
	_SetForegroundWindow = user32.NewProc("SetForegroundWindow")
	_SetProcessDPIAware  = user32.NewProc("SetProcessDPIAware")
	_SetWindowPos        = user32.NewProc("SetWindowPos")
	_SetWindowText       = user32.NewProc("SetWindowTextW")
	_ShowWindow          = user32.NewProc("ShowWindow")
	_TrackMouseEvent     = user32.NewProc("TrackMouseEvent")
	_TranslateMessage    = user32.NewProc("TranslateMessage")
	_UnregisterClass     = user32.NewProc("UnregisterClassW")
	_ValidateRect        = user32.NewProc("ValidateRect")

	gdi32          = syscall.NewLazySystemDLL("gdi32")
	_GetDeviceCaps = gdi32.NewProc("GetDeviceCaps")
	_StretchDIBits = gdi32.NewProc("StretchDIBits")
)

func getModuleHandle() (syscall.Handle, error) {
	h, _, err := _GetModuleHandleW.Call(uintptr(0))
	if h == 0 {
		return 0, fmt.Errorf("GetModuleHandleW failed: %v", err)
	}
	return syscall.Handle(h), nil
}

func adjustWindowRectEx(r *rect, dwStyle uint32, bMenu int, dwExStyle uint32) {
	_AdjustWindowRectEx.Call(uintptr(unsafe.Pointer(r)), uintptr(dwStyle), uintptr(bMenu), uintptr(dwExStyle))
}

func createWindowEx(dwExStyle uint32, lpClassName uint16, lpWindowName string, dwStyle uint32, x, y, w, h int32, hWndParent, hMenu, hInstance syscall.Handle, lpParam uintptr) (syscall.Handle, error) {
	title, err := syscall.UTF16PtrFromString(lpWindowName)
	if err != nil {
		return 0, err
	}
	hwnd, _, err := _CreateWindowEx.Call(
		uintptr(dwExStyle),
		uintptr(lpClassName),
		uintptr(unsafe.Pointer(title)),
		uintptr(dwStyle),
		uintptr(x), uintptr(y),
		uintptr(w), uintptr(h),
		uintptr(hWndParent),
		uintptr(hMenu),
		uintptr(hInstance),
		uintptr(lpParam))
	if hwnd == 0 {
		return 0, fmt.Errorf("CreateWindowEx failed: %v", err)
	}
	return syscall.Handle(hwnd), nil
}

func defWindowProc(hwnd syscall.Handle, msg uint32, wparam, lparam uintptr) uintptr {
	r, _, _ := _DefWindowProc.Call(uintptr(hwnd), uintptr(msg), wparam, lparam)
	return r
}

func destroyWindow(hwnd syscall.Handle) {
	_DestroyWindow.Call(uintptr(hwnd))
}

func dispatchMessage(m *msg) {
	_DispatchMessage.Call(uintptr(unsafe.Pointer(m)))
}

func getClientRect(hwnd syscall.Handle, r *rect) {
	_GetClientRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(r)))
}

func getDC(hwnd syscall.Handle) (syscall.Handle, error) {
	hdc, _, err := _GetDC.Call(uintptr(hwnd))
	if hdc == 0 {
		return 0, fmt.Errorf("GetDC failed: %v", err)
	}
	return syscall.Handle(hdc), nil
}

func getDeviceCaps(hdc syscall.Handle, index int32) int {
	c, _, _ := _GetDeviceCaps.Call(uintptr(hdc), uintptr(index))
	return int(c)
}

// getDpiForWindow returns 0 on systems older than Windows 10.
func getDpiForWindow(hwnd syscall.Handle) int {
	if _GetDpiForWindow.Find() != nil {
		return 0
	}
	r, _, _ := _GetDpiForWindow.Call(uintptr(hwnd))
	return int(r)
}

func getKeyState(nVirtKey int32) int16 {
	c, _, _ := _GetKeyState.Call(uintptr(nVirtKey))
	return int16(c)
}

func getSystemMetrics(nIndex int32) int32 {
	r, _, _ := _GetSystemMetrics.Call(uintptr(nIndex))
	return int32(r)
}

func getMessage(m *msg, hwnd syscall.Handle, wMsgFilterMin, wMsgFilterMax uint32) int32 {
	r, _, _ := _GetMessage.Call(uintptr(unsafe.Pointer(m)),
		uintptr(hwnd),
		uintptr(wMsgFilterMin),
		uintptr(wMsgFilterMax))
	return int32(r)
}

func loadCursor(curID uint16) (syscall.Handle, error) {
	h, _, err := _LoadCursor.Call(0, uintptr(curID))
	if h == 0 {
		return 0, fmt.Errorf("LoadCursorW failed: %v", err)
	}
	return syscall.Handle(h), nil
}

func peekMessage(m *msg, hwnd syscall.Handle, wMsgFilterMin, wMsgFilterMax, wRemoveMsg uint32) bool {
	r, _, _ := _PeekMessage.Call(uintptr(unsafe.Pointer(m)), uintptr(hwnd), uintptr(wMsgFilterMin), uintptr(wMsgFilterMax), uintptr(wRemoveMsg))
	return r != 0
}

func postThreadMessage(thread uint32, msg uint32, wParam, lParam uintptr) {
	_PostThreadMessage.Call(uintptr(thread), uintptr(msg), wParam, lParam)
}

func releaseCapture() bool {
	r, _, _ := _ReleaseCapture.Call()
	return r != 0
}

func registerClassEx(cls *wndClassEx) (uint16, error) {
	a, _, err := _RegisterClassExW.Call(uintptr(unsafe.Pointer(cls)))
	if a == 0 {
		return 0, fmt.Errorf("RegisterClassExW failed: %v", err)
	}
	return uint16(a), nil
}

func releaseDC(hwnd, hdc syscall.Handle) {
	_ReleaseDC.Call(uintptr(hwnd), uintptr(hdc))
}

func screenToClient(hwnd syscall.Handle, p *point) {
	_ScreenToClient.Call(uintptr(hwnd), uintptr(unsafe.Pointer(p)))
}

func setCapture(hwnd syscall.Handle) syscall.Handle {
	r, _, _ := _SetCapture.Call(uintptr(hwnd))
	return syscall.Handle(r)
}

func setFocus(hwnd syscall.Handle) {
	_SetFocus.Call(uintptr(hwnd))
}

func setForegroundWindow(hwnd syscall.Handle) {
	_SetForegroundWindow.Call(uintptr(hwnd))
}

func setProcessDPIAware() {
	_SetProcessDPIAware.Call()
}

func setWindowPos(hwnd syscall.Handle, x, y, w, h int32, flags uint32) error {
	r, _, err := _SetWindowPos.Call(uintptr(hwnd), 0, uintptr(x), uintptr(y), uintptr(w), uintptr(h), uintptr(flags))
	if r == 0 {
		return fmt.Errorf("SetWindowPos failed: %v", err)
	}
	return nil
}

func setWindowText(hwnd syscall.Handle, title string) error {
	p, err := syscall.UTF16PtrFromString(title)
	if err != nil {
		return err
	}
	r, _, err := _SetWindowText.Call(uintptr(hwnd), uintptr(unsafe.Pointer(p)))
	if r == 0 {
		return fmt.Errorf("SetWindowText failed: %v", err)
	}
	return nil
}

func showWindow(hwnd syscall.Handle, nCmdShow int32) {
	_ShowWindow.Call(uintptr(hwnd), uintptr(nCmdShow))
}

func stretchDIBits(hdc syscall.Handle, w, h int, bits []byte, bi *bitmapInfo) error {
	r, _, err := _StretchDIBits.Call(uintptr(hdc),
		0, 0, uintptr(w), uintptr(h),
		0, 0, uintptr(w), uintptr(h),
		uintptr(unsafe.Pointer(&bits[0])),
		uintptr(unsafe.Pointer(bi)),
		_DIB_RGB_COLORS, _SRCCOPY)
	if r == 0 {
		return fmt.Errorf("StretchDIBits failed: %v", err)
	}
	return nil
}

func trackMouse(hwnd syscall.Handle) {
	tme := trackMouseEvent{dwFlags: _TME_LEAVE, hwndTrack: hwnd}
	tme.cbSize = uint32(unsafe.Sizeof(tme))
	_TrackMouseEvent.Call(uintptr(unsafe.Pointer(&tme)))
}

func translateMessage(m *msg) {
	_TranslateMessage.Call(uintptr(unsafe.Pointer(m)))
}

func unregisterClass(cls uint16, hInst syscall.Handle) {
	_UnregisterClass.Call(uintptr(cls), uintptr(hInst))
}

func validateRect(hwnd syscall.Handle) {
	_ValidateRect.Call(uintptr(hwnd), 0)
}
