// SPDX-License-Identifier: Unlicense OR MIT

//go:build !((linux && !android) || freebsd || openbsd || windows || (darwin && !ios && cgo))

package platform

import (
	"testing"

	"cxui.org/errs"
)

func TestNewUnsupported(t *testing.T) {
	b, err := New()
	if b != nil || errs.ReasonOf(err) != errs.ReasonUnsupported {
		t.Fatalf("New() = %v, %v; want an unsupported platform error", b, err)
	}
}
