// SPDX-License-Identifier: Unlicense OR MIT

package platform

import (
	"image"
)

// backBuffer is the RGBA back buffer shared by the native surfaces.
type backBuffer struct {
	img *image.RGBA
}

func newBackBuffer(width, height int) backBuffer {
	return backBuffer{img: image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))}
}

func (b *backBuffer) Image() *image.RGBA {
	return b.img
}

func (b *backBuffer) Resize(width, height int) {
	r := image.Rect(0, 0, max(width, 0), max(height, 0))
	if b.img != nil && b.img.Rect == r {
		return
	}
	b.img = image.NewRGBA(r)
}

// clipDirty clamps dirty to the back buffer bounds. An empty dirty
// rectangle means the whole buffer.
func (b *backBuffer) clipDirty(dirty image.Rectangle) image.Rectangle {
	if dirty.Empty() {
		return b.img.Rect
	}
	return dirty.Intersect(b.img.Rect)
}

// rgbaToBGRA copies the rect region of src into dst, swapping the red
// and blue channels. dst is laid out with dstStride bytes per row and
// the same origin as src.
func rgbaToBGRA(dst []byte, dstStride int, src *image.RGBA, rect image.Rectangle) {
	rect = rect.Intersect(src.Rect)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		so := src.PixOffset(rect.Min.X, y)
		do := (y-src.Rect.Min.Y)*dstStride + (rect.Min.X-src.Rect.Min.X)*4
		s := src.Pix[so : so+rect.Dx()*4]
		d := dst[do : do+rect.Dx()*4]
		for i := 0; i < len(s); i += 4 {
			d[i+0] = s[i+2]
			d[i+1] = s[i+1]
			d[i+2] = s[i+0]
			d[i+3] = s[i+3]
		}
	}
}
