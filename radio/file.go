package radio

import (
	"context"
	"errors"
	"io"
	"os"
)

// FileTuner replays a u8 I/Q recording in a loop. Tuning only relabels the
// recording, so setters record their value and never touch the samples.
type FileTuner struct {
	r      io.ReadSeeker
	iqr    *IQReader
	closer func() error

	center uint64
	rate   uint32
	gain   Gain
}

func NewFileTuner(r io.ReadSeeker, hzb HzBand) *FileTuner {
	return &FileTuner{
		r:      r,
		iqr:    NewIQReader(r),
		closer: func() error { return nil },
		center: hzb.Center,
		rate:   uint32(hzb.Width),
		gain:   AutoGain,
	}
}

func OpenFileTuner(path string, hzb HzBand) (*FileTuner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	ft := NewFileTuner(f, hzb)
	ft.closer = f.Close
	return ft, nil
}

func (ft *FileTuner) CenterHz() uint64   { return ft.center }
func (ft *FileTuner) SampleRate() uint32 { return ft.rate }
func (ft *FileTuner) Gain() Gain         { return ft.gain }

func (ft *FileTuner) SetCenterHz(hz uint64) error {
	if hz == 0 {
		return ErrFrequencyOutOfRange
	}
	ft.center = hz
	return nil
}

func (ft *FileTuner) SetSampleRate(rate uint32) error {
	if rate == 0 {
		return ErrRateOutOfRange
	}
	ft.rate = rate
	return nil
}

func (ft *FileTuner) SetGain(g Gain) error {
	if !isValidGain(g) {
		return ErrGainOutOfRange
	}
	ft.gain = g
	return nil
}

func (ft *FileTuner) ReadSamples(ctx context.Context, n int) ([]complex64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	samps := make([]complex64, n)
	err := ft.iqr.Read64(samps)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		// Rewind and try once more; a file shorter than n never succeeds.
		if _, err = ft.r.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		err = ft.iqr.Read64(samps)
	}
	if err != nil {
		return nil, err
	}
	return samps, nil
}

func (ft *FileTuner) Close() error { return ft.closer() }
