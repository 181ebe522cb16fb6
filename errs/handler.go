// SPDX-License-Identifier: Unlicense OR MIT

package errs

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"sync"
)

// Handler receives errors that cannot be returned to a caller, such
// as panics recovered from user callbacks.
type Handler interface {
	HandleError(err *Error)
}

// LogHandler is a Handler that writes errors to a log.Logger.
type LogHandler struct {
	// Logger receives the output. A nil Logger writes to stderr.
	Logger *log.Logger
	// Verbose includes stack traces of recovered panics.
	Verbose bool
}

var (
	handlerMu sync.RWMutex
	handler   Handler = &LogHandler{}
)

// HandleError logs err.
func (h *LogHandler) HandleError(err *Error) {
	if err == nil {
		return
	}
	l := h.Logger
	if l == nil {
		l = log.New(os.Stderr, "cxui: ", log.LstdFlags)
	}
	l.Print(err.Error())
	if h.Verbose {
		if p, ok := err.Err.(*PanicError); ok && p.Stack != "" {
			l.Printf("stack trace:\n%s", p.Stack)
		}
	}
}

// SetHandler configures the process wide handler. Pass nil to restore
// the default LogHandler.
func SetHandler(h Handler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		h = &LogHandler{}
	}
	handler = h
}

func currentHandler() Handler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return handler
}

// Report sends err to the current handler.
func Report(err *Error) {
	if err == nil {
		return
	}
	currentHandler().HandleError(err)
}

// PanicError wraps a value recovered from a panic.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Recover reports a panic in progress as a KindPanic error. It must be
// called directly by a deferred statement:
//
//	defer errs.Recover("widget.Button.OnClick")
func Recover(op string) {
	if r := recover(); r != nil {
		Report(&Error{
			Op:   op,
			Kind: KindPanic,
			Err:  &PanicError{Value: r, Stack: captureStack()},
		})
	}
}

func captureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return sb.String()
}
