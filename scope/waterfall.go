package scope

import (
	"image"
	"image/color"

	"github.com/chzchzchz/rxscope/display"
	"github.com/chzchzchz/rxscope/spectrum"
)

// Waterfall is a scrolling history of color-mapped rows. The newest row is
// at the bottom; each push moves older rows up one and drops the top row.
type Waterfall struct {
	surf *display.Surface
	grad *spectrum.Gradient
	bg   color.RGBA
}

func NewWaterfall(w, h int, grad *spectrum.Gradient, bg color.RGBA) *Waterfall {
	wf := &Waterfall{surf: display.NewSurface(w, h), grad: grad, bg: bg}
	wf.Clear()
	return wf
}

func (wf *Waterfall) Bounds() image.Rectangle { return wf.surf.Bounds() }

// Clear fills the history with the background color.
func (wf *Waterfall) Clear() { wf.surf.Fill(wf.surf.Bounds(), wf.bg) }

// Push scrolls the history and writes row into the bottom line. Columns
// past the end of row are left as they scrolled in.
func (wf *Waterfall) Push(row []float64, sc spectrum.Scale) {
	wf.surf.Scroll(0, -1)
	b := wf.surf.Bounds()
	y := b.Max.Y - 1
	for x := b.Min.X; x < b.Max.X && x-b.Min.X < len(row); x++ {
		wf.surf.Set(x, y, wf.grad.At(sc.Clamped(row[x-b.Min.X])))
	}
}

// Render copies the newest at.Dy() rows into at.
func (wf *Waterfall) Render(dst display.Canvas, at image.Rectangle) {
	b := wf.surf.Bounds()
	h := at.Dy()
	if h > b.Dy() {
		h = b.Dy()
	}
	sr := image.Rect(b.Min.X, b.Max.Y-h, b.Min.X+at.Dx(), b.Max.Y)
	dst.Blit(wf.surf.Image(), sr, at.Min)
}

func (wf *Waterfall) At(x, y int) color.RGBA { return wf.surf.At(x, y) }
