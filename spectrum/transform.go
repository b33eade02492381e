package spectrum

import (
	"errors"
	"math"
)

var ErrInsufficientData = errors.New("insufficient samples for spectrum")

// Transform turns sample blocks into center-aligned dB rows of a fixed width.
type Transform struct {
	width int
	fft   FFT
	mags  []float64
}

// NewTransform builds a transform for rows of width bins. The FFT must take
// width+2 samples; the two extra bins carry the DC/mean artifacts.
func NewTransform(width int, fft FFT) *Transform {
	if fft.Len() != width+2 {
		panic("fft length must be width+2")
	}
	return &Transform{width: width, fft: fft, mags: make([]float64, width+2)}
}

// Width is the number of bins in each row.
func (t *Transform) Width() int { return t.width }

// BlockSize is the minimum number of samples Row accepts.
func (t *Transform) BlockSize() int { return t.width + 2 }

// Row computes the intensity row for samps. Bin Width()/2 is the tuner
// center frequency. A zero magnitude bin is -Inf.
func (t *Transform) Row(samps []complex64) ([]float64, error) {
	if len(samps) < t.BlockSize() || t.width == 0 {
		return nil, ErrInsufficientData
	}
	t.fft.Magnitudes(t.mags, samps)
	// Drop the first and last bins.
	bins := t.mags[1 : len(t.mags)-1]
	row := make([]float64, t.width)
	half := t.width / 2
	for i := range row {
		// fftshift: zero frequency moves to the middle.
		j := (i - half + t.width) % t.width
		row[i] = 20.0 * math.Log10(bins[j])
	}
	return row, nil
}
