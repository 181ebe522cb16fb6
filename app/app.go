// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"errors"
	"log"
	"os"
	"runtime"
	"slices"
	"sync"
	"time"

	"cxui.org/errs"
	"cxui.org/io/event"
	"cxui.org/platform"
)

// Application owns the platform backend and the open windows. At most
// one Application exists at a time.
type Application struct {
	backend platform.Backend
	cfg     Config
	logger  *log.Logger

	windows map[platform.Handle]*Window
	// order lists the open windows in creation order.
	order  []*Window
	nextID event.WindowID
	// interval is the minimum time between frames of a window.
	interval time.Duration

	// mu guards posted, the only state shared with other goroutines.
	mu     sync.Mutex
	posted []func()

	quit    bool
	running bool
	closed  bool
}

// Option configures New.
type Option func(*options)

type options struct {
	backend platform.Backend
	cfg     *Config
	logger  *log.Logger
}

// WithBackend uses b instead of the backend of the running operating
// system.
func WithBackend(b platform.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = &cfg
	}
}

// WithLogger directs log output to l.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

var (
	liveMu sync.Mutex
	live   *Application
)

// New initializes the application and its platform backend. It fails
// with a KindState error while another Application is open.
func New(opts ...Option) (*Application, error) {
	liveMu.Lock()
	defer liveMu.Unlock()
	if live != nil {
		return nil, errs.State("app.New", "an application is already open")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	cfg := DefaultConfig()
	if o.cfg != nil {
		cfg = *o.cfg
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := o.logger
	if logger == nil {
		logger = log.New(os.Stderr, "cxui: ", log.LstdFlags)
	}
	b := o.backend
	if b == nil {
		var err error
		if b, err = platform.New(); err != nil {
			return nil, err
		}
	}
	errs.SetHandler(&errs.LogHandler{Logger: logger, Verbose: cfg.Verbose})
	a := &Application{
		backend: b,
		cfg:     cfg,
		logger:  logger,
		windows: make(map[platform.Handle]*Window),
	}
	if cfg.TargetFPS > 0 {
		a.interval = time.Second / time.Duration(cfg.TargetFPS)
	}
	live = a
	if cfg.Verbose {
		logger.Printf("using %s backend", b.Name())
	}
	return a, nil
}

// Config returns the configuration in effect.
func (a *Application) Config() Config {
	return a.cfg
}

// Windows returns the open windows in creation order.
func (a *Application) Windows() []*Window {
	return slices.Clone(a.order)
}

// Post schedules fn to run on the application goroutine during the
// next iteration of the event loop, and wakes the loop. It is safe
// to call from any goroutine. Functions posted after the application
// closed are discarded.
func (a *Application) Post(fn func()) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.posted = append(a.posted, fn)
	a.mu.Unlock()
	a.backend.Wake()
}

// Quit makes Run return after the current iteration. It is safe to
// call from any goroutine.
func (a *Application) Quit() {
	a.Post(func() { a.quit = true })
}

// Run processes events until Quit is called, the platform asks the
// application to quit, or the last window closes when
// Config.QuitOnLastWindowClosed is set. The application is closed
// when Run returns.
func (a *Application) Run() error {
	if a.closed {
		return errs.State("app.Run", "application closed")
	}
	if a.running {
		return errs.State("app.Run", "already running")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	a.running = true
	var err error
	for !a.quit && err == nil {
		err = a.step()
	}
	a.running = false
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	return err
}

// step runs one iteration of the event loop, blocking for events when
// there is nothing to do.
func (a *Application) step() error {
	evs, err := a.backend.PollEvents()
	if err != nil {
		return err
	}
	if len(evs) == 0 {
		switch block, delay := a.idle(time.Now()); {
		case block:
			if evs, err = a.backend.WaitEvents(); err != nil {
				return err
			}
		case delay > 0:
			// Only frames held back by TargetFPS are pending.
			time.Sleep(delay)
		}
	}
	a.drain()
	for _, raw := range evs {
		a.dispatch(raw)
	}
	return a.frames()
}

// idle reports whether the loop may block. Otherwise it returns how
// long the loop should wait for the next window frame to fall due,
// which is zero when work is ready now.
func (a *Application) idle(now time.Time) (bool, time.Duration) {
	if a.quit {
		return false, 0
	}
	a.mu.Lock()
	n := len(a.posted)
	a.mu.Unlock()
	if n > 0 {
		return false, 0
	}
	block, delay := true, time.Duration(0)
	for _, w := range a.order {
		if !w.needsFrame() {
			continue
		}
		d := w.timer.due(now, a.interval)
		if d <= 0 {
			return false, 0
		}
		if block || d < delay {
			delay = d
		}
		block = false
	}
	return block, delay
}

func (a *Application) drain() {
	a.mu.Lock()
	fns := a.posted
	a.posted = nil
	a.mu.Unlock()
	for _, fn := range fns {
		func() {
			defer errs.Recover("app.Post")
			fn()
		}()
	}
}

func (a *Application) dispatch(raw platform.RawEvent) {
	switch raw.Kind {
	case platform.RawQuit:
		a.quit = true
		return
	case platform.RawWakeup:
		return
	}
	if w, ok := a.windows[raw.Window]; ok {
		w.process(raw)
	}
}

// frames renders every window that needs it.
func (a *Application) frames() error {
	now := time.Now()
	for _, w := range slices.Clone(a.order) {
		if !w.needsFrame() || w.timer.due(now, a.interval) > 0 {
			continue
		}
		err := w.Frame()
		if err == nil || w.closed {
			continue
		}
		if err := a.frameError(w, err); err != nil {
			return err
		}
	}
	return nil
}

func (a *Application) frameError(w *Window, err error) error {
	if h := a.cfg.OnFrameError; h != nil {
		return h(w, err)
	}
	if errs.IsTransient(err) {
		a.logger.Printf("window %d: frame failed, retrying: %v", w.id, err)
		return nil
	}
	return err
}

func (a *Application) forget(w *Window) {
	delete(a.windows, w.handle)
	if i := slices.Index(a.order, w); i >= 0 {
		a.order = slices.Delete(a.order, i, i+1)
	}
	if len(a.order) == 0 && a.cfg.QuitOnLastWindowClosed && a.running {
		a.quit = true
	}
}

func (a *Application) logf(format string, args ...any) {
	if a.cfg.Verbose {
		a.logger.Printf(format, args...)
	}
}

// Close closes every window and the backend, and allows a new
// Application to be created. Close is called by Run on return.
func (a *Application) Close() error {
	if a.closed {
		return nil
	}
	var errList []error
	for _, w := range slices.Clone(a.order) {
		errList = append(errList, w.Close())
	}
	a.mu.Lock()
	a.closed = true
	a.posted = nil
	a.mu.Unlock()
	errList = append(errList, a.backend.Close())
	liveMu.Lock()
	if live == a {
		live = nil
	}
	liveMu.Unlock()
	return errors.Join(errList...)
}
