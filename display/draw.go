package display

import (
	"image"
	"image/color"
)

// Alignment fractions for Align.
const (
	AlignLeft   = 0.0
	AlignTop    = 0.0
	AlignCenter = 0.5
	AlignRight  = 1.0
	AlignBottom = 1.0
)

// Align returns where to place child inside parent. h and v are fractions
// from AlignLeft/AlignTop to AlignRight/AlignBottom.
func Align(child, parent image.Rectangle, h, v float64, hpad, vpad int) image.Point {
	cw, ch := float64(child.Dx()), float64(child.Dy())
	pw, ph := float64(parent.Dx()), float64(parent.Dy())
	return image.Point{
		X: parent.Min.X + int(h*pw-h*cw) + hpad,
		Y: parent.Min.Y + int(v*ph-v*ch) + vpad,
	}
}

// Line draws a one pixel line from p0 to p1 inclusive. Pixels outside the
// canvas are dropped.
func Line(c Canvas, p0, p1 image.Point, col color.Color) {
	b := c.Bounds()
	dx, dy := abs(p1.X-p0.X), -abs(p1.Y-p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}
	err := dx + dy
	x, y := p0.X, p0.Y
	for {
		if (image.Point{x, y}).In(b) {
			c.Set(x, y, col)
		}
		if x == p1.X && y == p1.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// Polyline joins consecutive points.
func Polyline(c Canvas, pts []image.Point, col color.Color) {
	for i := 1; i < len(pts); i++ {
		Line(c, pts[i-1], pts[i], col)
	}
}

// StrokeRect draws a border of width px just inside r.
func StrokeRect(c Canvas, r image.Rectangle, col color.Color, px int) {
	if px <= 0 {
		return
	}
	c.Fill(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+px), col)
	c.Fill(image.Rect(r.Min.X, r.Max.Y-px, r.Max.X, r.Max.Y), col)
	c.Fill(image.Rect(r.Min.X, r.Min.Y, r.Min.X+px, r.Max.Y), col)
	c.Fill(image.Rect(r.Max.X-px, r.Min.Y, r.Max.X, r.Max.Y), col)
}
