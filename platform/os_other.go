// SPDX-License-Identifier: Unlicense OR MIT

//go:build !((linux && !android) || freebsd || openbsd || windows || (darwin && !ios && cgo))

package platform

import (
	"errors"
	"runtime"

	"cxui.org/errs"
)

func newBackend() (Backend, error) {
	return nil, errs.Platform("platform.New", errs.ReasonUnsupported,
		errors.New("no window system backend for "+runtime.GOOS))
}
