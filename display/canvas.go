// Package display is the pixel surface the views draw on, plus the small
// widget set (text, buttons, button grids) the views are built from.
package display

import (
	"image"
	"image/color"
	"image/draw"
)

// Canvas is a fixed-size pixel surface. Coordinates are absolute: a Sub
// canvas keeps the coordinates of its parent.
type Canvas interface {
	Bounds() image.Rectangle
	Fill(r image.Rectangle, c color.Color)
	Set(x, y int, c color.Color)
	// Blit copies sr of src so that sr.Min lands on dp.
	Blit(src image.Image, sr image.Rectangle, dp image.Point)
	// Scroll shifts the contents by (dx, dy). Uncovered pixels keep their
	// old values.
	Scroll(dx, dy int)
	Sub(r image.Rectangle) Canvas
}

// Surface is a Canvas backed by an RGBA image.
type Surface struct {
	img *image.RGBA
}

func NewSurface(w, h int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Image exposes the backing pixels, e.g. for uploading to a texture.
func (s *Surface) Image() *image.RGBA { return s.img }

func (s *Surface) Bounds() image.Rectangle { return s.img.Rect }

func (s *Surface) At(x, y int) color.RGBA { return s.img.RGBAAt(x, y) }

func (s *Surface) Fill(r image.Rectangle, c color.Color) {
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func (s *Surface) Set(x, y int, c color.Color) { s.img.Set(x, y, c) }

func (s *Surface) Blit(src image.Image, sr image.Rectangle, dp image.Point) {
	dr := image.Rectangle{Min: dp, Max: dp.Add(sr.Size())}
	draw.Draw(s.img, dr, src, sr.Min, draw.Over)
}

func (s *Surface) Scroll(dx, dy int) {
	b := s.img.Rect
	w, h := b.Dx(), b.Dy()
	if abs(dx) >= w || abs(dy) >= h || (dx == 0 && dy == 0) {
		return
	}
	n := (w - abs(dx)) * 4
	srcX, dstX := b.Min.X, b.Min.X+dx
	if dx < 0 {
		srcX, dstX = b.Min.X-dx, b.Min.X
	}
	move := func(y int) {
		d := s.img.PixOffset(dstX, b.Min.Y+y)
		o := s.img.PixOffset(srcX, b.Min.Y+y-dy)
		copy(s.img.Pix[d:d+n], s.img.Pix[o:o+n])
	}
	// Walk rows so a source row is read before it is overwritten.
	if dy > 0 {
		for y := h - 1; y >= dy; y-- {
			move(y)
		}
		return
	}
	for y := 0; y < h+dy; y++ {
		move(y)
	}
}

func (s *Surface) Sub(r image.Rectangle) Canvas {
	return &Surface{img: s.img.SubImage(r).(*image.RGBA)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
