package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const dpi = 72

// FontCache hands out faces of one typeface by pixel size. It holds at most
// limit faces and never evicts; sizes past the limit get a fresh face each
// time.
type FontCache struct {
	font  *truetype.Font
	faces map[float64]font.Face
	limit int
}

func NewFontCache(ttf []byte, limit int) (*FontCache, error) {
	parsed, err := freetype.ParseFont(ttf)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	return &FontCache{font: parsed, faces: make(map[float64]font.Face), limit: limit}, nil
}

// NewDefaultFontCache uses the Go Regular typeface.
func NewDefaultFontCache() (*FontCache, error) { return NewFontCache(goregular.TTF, 8) }

// Len is the number of cached faces.
func (fc *FontCache) Len() int { return len(fc.faces) }

// face returns the face for size and whether the cache owns it.
func (fc *FontCache) face(size float64) (font.Face, bool) {
	if f, ok := fc.faces[size]; ok {
		return f, true
	}
	f := truetype.NewFace(fc.font, &truetype.Options{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if len(fc.faces) >= fc.limit {
		return f, false
	}
	fc.faces[size] = f
	return f, true
}

// Text renders s onto a new image sized to fit it. A nil bg leaves the
// background transparent.
func (fc *FontCache) Text(s string, size float64, fg, bg color.Color) *image.RGBA {
	face, owned := fc.face(size)
	if !owned {
		defer face.Close()
	}
	m := face.Metrics()
	w := font.MeasureString(face, s).Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if bg != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(0, m.Ascent.Ceil()),
	}
	d.DrawString(s)
	return img
}

func (fc *FontCache) Close() error {
	for size, f := range fc.faces {
		f.Close()
		delete(fc.faces, size)
	}
	return nil
}
