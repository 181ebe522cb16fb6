// SPDX-License-Identifier: Unlicense OR MIT

package platform

import (
	"image"
	"image/color"
	"testing"
)

func TestRGBAToBGRA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	src.SetRGBA(1, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetRGBA(3, 1, color.RGBA{R: 1, G: 2, B: 3, A: 4})

	stride := 4 * 4
	dst := make([]byte, stride*2)
	rgbaToBGRA(dst, stride, src, image.Rect(1, 0, 4, 2))

	if got, want := dst[4:8], []byte{30, 20, 10, 255}; string(got) != string(want) {
		t.Errorf("pixel (1,0) = %v, want %v", got, want)
	}
	if got, want := dst[stride+12:stride+16], []byte{3, 2, 1, 4}; string(got) != string(want) {
		t.Errorf("pixel (3,1) = %v, want %v", got, want)
	}
	for i := 0; i < 4; i++ {
		if dst[i] != 0 {
			t.Fatalf("pixel (0,0) outside the copied rectangle was written: %v", dst[:4])
		}
	}
}

func TestBackBufferResize(t *testing.T) {
	b := newBackBuffer(10, 10)
	img := b.Image()
	b.Resize(10, 10)
	if b.Image() != img {
		t.Error("Resize to the same size reallocated the buffer")
	}
	b.Resize(20, 5)
	if got := b.Image().Rect; got != image.Rect(0, 0, 20, 5) {
		t.Errorf("size after Resize = %v", got)
	}
	if got := b.clipDirty(image.Rectangle{}); got != b.Image().Rect {
		t.Errorf("empty dirty = %v, want full buffer", got)
	}
	if got := b.clipDirty(image.Rect(15, 0, 40, 40)); got != image.Rect(15, 0, 20, 5) {
		t.Errorf("clipped dirty = %v", got)
	}
}

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Errorf("default params rejected: %v", err)
	}
	p := DefaultParams()
	p.Height = 0
	if err := p.Validate(); err == nil {
		t.Error("zero height accepted")
	}
}
