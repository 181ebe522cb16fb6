// SPDX-License-Identifier: Unlicense OR MIT

package paint

import (
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"cxui.org/f32"
)

// DefaultTextSize is the text size in logical units used when none is
// configured.
const DefaultTextSize = 14

// faceCache holds one font.Face per pixel size. Faces are not safe for
// concurrent use, so every access holds mu.
type faceCache struct {
	mu    sync.Mutex
	font  *sfnt.Font
	faces map[int]font.Face
}

var (
	fontOnce sync.Once
	fontErr  error
	faces    faceCache
)

func loadFont() error {
	fontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			fontErr = err
			return
		}
		faces.font = f
		faces.faces = make(map[int]font.Face)
	})
	return fontErr
}

// face returns the face for size in pixels. The caller must hold
// faces.mu.
func (fc *faceCache) face(size float32) (font.Face, error) {
	if err := loadFont(); err != nil {
		return nil, err
	}
	// Sizes are quantized to 1/4 pixel to bound the cache.
	key := int(math.Round(float64(size) * 4))
	if f, ok := fc.faces[key]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(fc.font, &opentype.FaceOptions{
		Size:    float64(key) / 4,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	fc.faces[key] = f
	return f, nil
}

// MeasureText returns the size in logical units of text laid out on a
// single line at the given size.
func MeasureText(text string, size float32) f32.Size {
	if size <= 0 {
		size = DefaultTextSize
	}
	faces.mu.Lock()
	defer faces.mu.Unlock()
	face, err := faces.face(size)
	if err != nil {
		return f32.Size{}
	}
	m := face.Metrics()
	adv := font.MeasureString(face, text)
	return f32.Size{W: fixedToFloat(adv), H: fixedToFloat(m.Ascent + m.Descent)}
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

func floatToFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(float64(v) * 64))
}
