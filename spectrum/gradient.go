package spectrum

import (
	"errors"
	"image/color"
	"math"
)

var ErrTooFewStops = errors.New("gradient needs at least two color stops")

// Gradient is a list of color stops evenly spaced over [0, 1].
type Gradient struct {
	stops []color.RGBA
	seg   float64
}

// DefaultGradient goes from blue to cyan to yellow to red.
var DefaultGradient = MustGradient(
	color.RGBA{0, 0, 255, 255},
	color.RGBA{0, 255, 255, 255},
	color.RGBA{255, 255, 0, 255},
	color.RGBA{255, 0, 0, 255},
)

func NewGradient(stops ...color.RGBA) (*Gradient, error) {
	if len(stops) < 2 {
		return nil, ErrTooFewStops
	}
	g := &Gradient{stops: make([]color.RGBA, len(stops))}
	copy(g.stops, stops)
	g.seg = 1.0 / float64(len(stops)-1)
	return g, nil
}

func MustGradient(stops ...color.RGBA) *Gradient {
	g, err := NewGradient(stops...)
	if err != nil {
		panic(err)
	}
	return g
}

// At returns the color for v, clamping v to [0, 1].
func (g *Gradient) At(v float64) color.RGBA {
	switch {
	case v >= 1:
		return g.stops[len(g.stops)-1]
	case !(v > 0):
		// Also catches NaN.
		return g.stops[0]
	}
	k := int(v / g.seg)
	if k >= len(g.stops)-1 {
		k = len(g.stops) - 2
	}
	// Rounding can land t a hair off a stop; snap it so stops come back exact.
	t := (v - float64(k)*g.seg) / g.seg
	switch {
	case t > 1-stopEps:
		t = 1
	case t < stopEps:
		t = 0
	}
	c0, c1 := g.stops[k], g.stops[k+1]
	return color.RGBA{
		lerp(t, c0.R, c1.R),
		lerp(t, c0.G, c1.G),
		lerp(t, c0.B, c1.B),
		255,
	}
}

const stopEps = 1e-9

func lerp(t float64, a, b uint8) uint8 {
	v := math.Floor(float64(a) + (float64(b)-float64(a))*t)
	return uint8(math.Max(0, math.Min(255, v)))
}
