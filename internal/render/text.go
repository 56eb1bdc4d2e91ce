package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontBank caches monospace faces by pixel size.
type FontBank struct {
	mono  *opentype.Font
	cache map[int]font.Face
}

func NewFontBank() *FontBank {
	bank := &FontBank{cache: map[int]font.Face{}}
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return bank
	}
	bank.mono = f
	return bank
}

// Face returns a face of the given pixel size, falling back to a fixed bitmap
// face when the outline font is unavailable.
func (b *FontBank) Face(sizePx int) font.Face {
	if sizePx < 6 {
		sizePx = 6
	}
	if face, ok := b.cache[sizePx]; ok {
		return face
	}
	if b.mono == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(b.mono, &opentype.FaceOptions{
		Size:    float64(sizePx),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	b.cache[sizePx] = face
	return face
}

func (fb *FrameBuffer) DrawText(face font.Face, x, baseline int, s string, c color.RGBA) {
	if s == "" {
		return
	}
	d := font.Drawer{
		Dst:  fb.RGBA(),
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

func MeasureText(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// LineMetrics returns the ascent and total line height of face in pixels.
func LineMetrics(face font.Face) (ascent, height int) {
	m := face.Metrics()
	return m.Ascent.Ceil(), m.Height.Ceil()
}
