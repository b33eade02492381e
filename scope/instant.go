package scope

import (
	"image"
	"image/color"
	"math"

	"github.com/chzchzchz/rxscope/display"
	"github.com/chzchzchz/rxscope/spectrum"
)

// RenderInstant draws row as a line graph filling c. Bin i sits at column i
// and height floor(norm*h) up from the bottom edge.
func RenderInstant(c display.Canvas, row []float64, sc spectrum.Scale, line, bg color.Color) {
	b := c.Bounds()
	c.Fill(b, bg)
	w, h := b.Dx(), b.Dy()
	if len(row) < w {
		w = len(row)
	}
	if w == 0 {
		return
	}
	pts := make([]image.Point, w)
	for i := range pts {
		// Held to [-1, 2] so off-canvas points stay within a canvas height.
		v := math.Max(-1, math.Min(2, sc.Normalize(row[i])))
		y := h - int(math.Floor(v*float64(h)))
		pts[i] = image.Pt(b.Min.X+i, b.Min.Y+y)
	}
	if w == 1 {
		display.Line(c, pts[0], pts[0], line)
		return
	}
	display.Polyline(c, pts, line)
}
