// SPDX-License-Identifier: Unlicense OR MIT

// Package errs defines the structured errors reported by cxui.
//
// Every failure carries a Kind naming its category: platform
// failures (native resources, display connection), layout
// configuration errors (rejected when a policy is set) and state
// errors (programming mistakes such as drawing outside a frame or
// mutating a destroyed widget).
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies the category of an error.
type Kind uint8

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindPlatform indicates a native windowing or display failure.
	KindPlatform
	// KindLayoutConfig indicates invalid layout policy parameters.
	KindLayoutConfig
	// KindState indicates an operation issued in the wrong state.
	KindState
	// KindPanic indicates a recovered panic in a user callback.
	KindPanic
)

func (k Kind) String() string {
	switch k {
	case KindPlatform:
		return "platform"
	case KindLayoutConfig:
		return "layout config"
	case KindState:
		return "state"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Reason refines a KindPlatform error.
type Reason uint8

const (
	ReasonNone Reason = iota
	// ReasonDisplayUnavailable means the display server or
	// windowing subsystem could not be reached.
	ReasonDisplayUnavailable
	// ReasonInvalidHandle means a handle was unknown or already
	// destroyed.
	ReasonInvalidHandle
	// ReasonResourceExhausted means the native subsystem refused to
	// allocate a resource.
	ReasonResourceExhausted
	// ReasonUnsupported means the platform has no implementation.
	ReasonUnsupported
	// ReasonTransient marks a failure the caller may retry on the
	// next frame, such as a failed present.
	ReasonTransient
)

func (r Reason) String() string {
	switch r {
	case ReasonDisplayUnavailable:
		return "display unavailable"
	case ReasonInvalidHandle:
		return "invalid handle"
	case ReasonResourceExhausted:
		return "resource exhausted"
	case ReasonUnsupported:
		return "unsupported"
	case ReasonTransient:
		return "transient"
	default:
		return ""
	}
}

// Error is the structured error type returned by cxui packages.
type Error struct {
	// Op is the operation that failed (e.g., "x11.CreateWindow").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Reason refines platform errors.
	Reason Reason
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	if e.Reason != ReasonNone {
		return fmt.Sprintf("%s [%s: %s]: %v", e.Op, e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Platform returns a KindPlatform error.
func Platform(op string, reason Reason, err error) *Error {
	return &Error{Op: op, Kind: KindPlatform, Reason: reason, Err: err}
}

// Platformf is like Platform with a formatted message.
func Platformf(op string, reason Reason, format string, args ...any) *Error {
	return Platform(op, reason, fmt.Errorf(format, args...))
}

// LayoutConfig returns a KindLayoutConfig error.
func LayoutConfig(op, format string, args ...any) *Error {
	return &Error{Op: op, Kind: KindLayoutConfig, Err: fmt.Errorf(format, args...)}
}

// State returns a KindState error.
func State(op, format string, args ...any) *Error {
	return &Error{Op: op, Kind: KindState, Err: fmt.Errorf(format, args...)}
}

// IsKind reports whether err or any error it wraps is an *Error of
// kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == k
}

// ReasonOf returns the reason of the first *Error in err's chain.
func ReasonOf(err error) Reason {
	var e *Error
	if !errors.As(err, &e) {
		return ReasonNone
	}
	return e.Reason
}

// IsTransient reports whether err is a platform failure the caller
// may retry on a later frame.
func IsTransient(err error) bool {
	return IsKind(err, KindPlatform) && ReasonOf(err) == ReasonTransient
}
