package scope

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chzchzchz/rxscope/radio"
	"github.com/chzchzchz/rxscope/spectrum"
)

type ModelConfig struct {
	Width  int
	Height int
	Tuner  radio.Tuner
	FFT    spectrum.FFT
	// SampleSize is how many samples are read per tick; at least Width+2.
	SampleSize int
	// ReadTimeout bounds a tick's wait for samples; zero waits on ctx alone.
	ReadTimeout time.Duration
	Logger      *slog.Logger
}

// Model is the tuner and intensity state behind the views. Frequencies are
// in MHz. Setters log and drop tuner errors, keeping the old setting.
type Model struct {
	Width  int
	Height int

	tuner       radio.Tuner
	xfm         *spectrum.Transform
	scaler      *spectrum.Scaler
	sampleSize  int
	readTimeout time.Duration
	log         *slog.Logger
}

func NewModel(cfg ModelConfig) (*Model, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("bad model size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FFT.Len() != cfg.Width+2 {
		return nil, fmt.Errorf("fft length %d does not match width %d", cfg.FFT.Len(), cfg.Width)
	}
	if cfg.SampleSize < cfg.Width+2 {
		return nil, fmt.Errorf("sample size %d below %d: %w",
			cfg.SampleSize, cfg.Width+2, spectrum.ErrInsufficientData)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Model{
		Width:       cfg.Width,
		Height:      cfg.Height,
		tuner:       cfg.Tuner,
		xfm:         spectrum.NewTransform(cfg.Width, cfg.FFT),
		scaler:      spectrum.NewScaler(),
		sampleSize:  cfg.SampleSize,
		readTimeout: cfg.ReadTimeout,
		log:         cfg.Logger,
	}, nil
}

func (m *Model) CenterMHz() float64 { return float64(m.tuner.CenterHz()) / 1e6 }

func (m *Model) SetCenterMHz(mhz float64) {
	if err := m.tuner.SetCenterHz(radio.MHzToHz(mhz)); err != nil {
		m.log.Warn("could not set center frequency", "mhz", mhz, "err", err)
		return
	}
	m.scaler.Reset()
}

func (m *Model) SampleRateMHz() float64 { return float64(m.tuner.SampleRate()) / 1e6 }

func (m *Model) SetSampleRateMHz(mhz float64) {
	if err := m.tuner.SetSampleRate(uint32(radio.MHzToHz(mhz))); err != nil {
		m.log.Warn("could not set sample rate", "mhz", mhz, "err", err)
		return
	}
	m.scaler.Reset()
}

func (m *Model) Gain() radio.Gain { return m.tuner.Gain() }

func (m *Model) SetGain(g radio.Gain) {
	if err := m.tuner.SetGain(g); err != nil {
		m.log.Warn("could not set gain", "gain", g, "err", err)
		return
	}
	m.scaler.Reset()
}

func (m *Model) MinBound() spectrum.Bound { return m.scaler.Min() }
func (m *Model) MaxBound() spectrum.Bound { return m.scaler.Max() }

func (m *Model) SetMinBound(b spectrum.Bound) { m.scaler.SetMin(b) }
func (m *Model) SetMaxBound(b spectrum.Bound) { m.scaler.SetMax(b) }

// Band is the tuned band in MHz.
func (m *Model) Band() radio.FreqBand { return radio.Band(m.tuner).ToMHz() }

// Scale is the calibration of the latest row, if any since the last reset.
func (m *Model) Scale() (spectrum.Scale, bool) { return m.scaler.Last() }

// Data acquires one sample block and returns its intensity row and scale.
// An error means the tick has no data and should be skipped.
func (m *Model) Data(ctx context.Context) ([]float64, spectrum.Scale, error) {
	if m.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.readTimeout)
		defer cancel()
	}
	samps, err := m.tuner.ReadSamples(ctx, m.sampleSize)
	if err != nil {
		return nil, spectrum.Scale{}, err
	}
	row, err := m.xfm.Row(samps)
	if err != nil {
		return nil, spectrum.Scale{}, err
	}
	return row, m.scaler.Update(row), nil
}
