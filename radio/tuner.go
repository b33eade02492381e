package radio

import (
	"context"
	"errors"
)

var ErrRateOutOfRange = errors.New("sample rate out of range")
var ErrFrequencyOutOfRange = errors.New("frequency out of range")
var ErrGainOutOfRange = errors.New("gain out of range")
var ErrBlockSize = errors.New("requested more samples than a block holds")
var ErrClosed = errors.New("tuner closed")

// Tuner is a radio front-end producing complex baseband sample blocks.
// Setters may fail on hardware I/O; the previous setting then stays in effect.
type Tuner interface {
	CenterHz() uint64
	SetCenterHz(hz uint64) error
	SampleRate() uint32
	SetSampleRate(rate uint32) error
	Gain() Gain
	SetGain(g Gain) error
	// ReadSamples returns the next n samples, blocking until they arrive or
	// ctx is done.
	ReadSamples(ctx context.Context, n int) ([]complex64, error)
	Close() error
}

// Band returns the tuned band of t.
func Band(t Tuner) HzBand {
	return HzBand{Center: t.CenterHz(), Width: uint64(t.SampleRate())}
}

const (
	minFreqHz = uint64(25000000)
	maxFreqHz = uint64(1750000000)
	maxGainDB = 49.6
)

func isValidFreq(hz uint64) bool { return hz >= minFreqHz && hz <= maxFreqHz }

// isValidRate matches the rates the RTL2832U can resample to.
func isValidRate(rate uint32) bool {
	return !((rate <= 225000) || (rate > 3200000) ||
		((rate > 300000) && (rate <= 900000)))
}

func isValidGain(g Gain) bool {
	return g.IsAuto() || (g.DB() >= 0 && g.DB() <= maxGainDB)
}
