package spectrum

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/runningwild/go-fftw/fftw32"
	"gonum.org/v1/gonum/dsp/fourier"
)

var ErrUnknownFFT = errors.New("unknown fft backend")

// FFT computes DFT magnitudes of a fixed-length block.
type FFT interface {
	// Len is the number of samples consumed per call.
	Len() int
	// Magnitudes writes |X[k]| for the first Len samples of samps into mags.
	Magnitudes(mags []float64, samps []complex64)
}

const (
	FFTW  = "fftw"
	Gonum = "gonum"
)

func NewFFT(kind string, n int) (FFT, error) {
	switch kind {
	case FFTW, "":
		return &fftwFFT{arr: &fftw32.Array{}, n: n}, nil
	case Gonum:
		return &gonumFFT{
			plan: fourier.NewCmplxFFT(n),
			seq:  make([]complex128, n),
			out:  make([]complex128, n),
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFFT, kind)
}

type fftwFFT struct {
	arr *fftw32.Array
	n   int
}

func (f *fftwFFT) Len() int { return f.n }

func (f *fftwFFT) Magnitudes(mags []float64, samps []complex64) {
	f.arr.Elems = samps[:f.n]
	for i, v := range fftw32.FFT(f.arr).Elems {
		mags[i] = cmplx.Abs(complex128(v))
	}
}

type gonumFFT struct {
	plan *fourier.CmplxFFT
	seq  []complex128
	out  []complex128
}

func (f *gonumFFT) Len() int { return len(f.seq) }

func (f *gonumFFT) Magnitudes(mags []float64, samps []complex64) {
	for i := range f.seq {
		f.seq[i] = complex128(samps[i])
	}
	f.out = f.plan.Coefficients(f.out, f.seq)
	for i, v := range f.out {
		mags[i] = cmplx.Abs(v)
	}
}
