// Package config loads the rxscope YAML configuration.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chzchzchz/rxscope/radio"
	"github.com/chzchzchz/rxscope/spectrum"
)

var ErrInvalid = errors.New("invalid configuration")

const (
	SourceRTLTCP = "rtl_tcp"
	SourceFile   = "file"
)

type Config struct {
	Display  Display  `yaml:"display"`
	Radio    Radio    `yaml:"radio"`
	Spectrum Spectrum `yaml:"spectrum"`
	Theme    Theme    `yaml:"theme"`
	LogLevel string   `yaml:"log_level"`
}

type Display struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	FPS        float64 `yaml:"fps"`
	// ClickDebounce drops clicks arriving sooner than this after the last.
	ClickDebounce time.Duration `yaml:"click_debounce"`
}

type Radio struct {
	// Source is rtl_tcp or file.
	Source  string `yaml:"source"`
	Address string `yaml:"address"`
	// Spawn starts rtl_tcp on Address instead of expecting one running.
	Spawn  bool   `yaml:"spawn"`
	Device string `yaml:"device"`
	PPM    int    `yaml:"ppm"`
	// File is a u8 I/Q recording replayed by the file source.
	File          string  `yaml:"file"`
	CenterMHz     float64 `yaml:"center_mhz"`
	SampleRateMHz float64 `yaml:"sample_rate_mhz"`
	// Gain is AUTO or a value in dB.
	Gain        string        `yaml:"gain"`
	SampleSize  int           `yaml:"sample_size"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

type Spectrum struct {
	// FFT is fftw or gonum.
	FFT string `yaml:"fft"`
	// Min and Max are AUTO or a value in dB.
	Min string `yaml:"min"`
	Max string `yaml:"max"`
}

// RGB is a color written as [r, g, b].
type RGB [3]uint8

func (c RGB) Color() color.RGBA { return color.RGBA{c[0], c[1], c[2], 255} }

type Theme struct {
	MainBG       RGB     `yaml:"main_bg"`
	InputBG      RGB     `yaml:"input_bg"`
	InputFG      RGB     `yaml:"input_fg"`
	CancelBG     RGB     `yaml:"cancel_bg"`
	AcceptBG     RGB     `yaml:"accept_bg"`
	ButtonBG     RGB     `yaml:"button_bg"`
	ButtonFG     RGB     `yaml:"button_fg"`
	ButtonBorder RGB     `yaml:"button_border"`
	InstantLine  RGB     `yaml:"instant_line"`
	Padding      int     `yaml:"padding"`
	BorderPx     int     `yaml:"border_px"`
	MainFont     float64 `yaml:"main_font"`
	NumFont      float64 `yaml:"num_font"`
	// FontCacheSize is how many font sizes are kept rendered.
	FontCacheSize int   `yaml:"font_cache_size"`
	Gradient      []RGB `yaml:"gradient"`
}

func Default() *Config {
	return &Config{
		Display: Display{
			Width:         320,
			Height:        240,
			FPS:           30,
			ClickDebounce: 400 * time.Millisecond,
		},
		Radio: Radio{
			Source:        SourceRTLTCP,
			Address:       "127.0.0.1:1234",
			Device:        "0",
			CenterMHz:     90.3,
			SampleRateMHz: 2.4,
			Gain:          radio.AutoText,
			SampleSize:    1024,
			ReadTimeout:   time.Second,
		},
		Spectrum: Spectrum{
			FFT: spectrum.FFTW,
			Min: spectrum.AutoText,
			Max: spectrum.AutoText,
		},
		Theme: Theme{
			MainBG:        RGB{0, 0, 0},
			InputBG:       RGB{60, 255, 255},
			InputFG:       RGB{0, 0, 0},
			CancelBG:      RGB{128, 45, 45},
			AcceptBG:      RGB{45, 128, 45},
			ButtonBG:      RGB{60, 60, 60},
			ButtonFG:      RGB{255, 255, 255},
			ButtonBorder:  RGB{200, 200, 200},
			InstantLine:   RGB{0, 255, 128},
			Padding:       2,
			BorderPx:      2,
			MainFont:      22,
			NumFont:       34,
			FontCacheSize: 8,
			Gradient: []RGB{
				{0, 0, 255},
				{0, 255, 255},
				{255, 255, 0},
				{255, 0, 0},
			},
		},
		LogLevel: "info",
	}
}

// Load reads path over the defaults. An empty path or a missing file gives
// the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	} else if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return c, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	d := c.Display
	if d.Width <= 0 || d.Height <= 0 {
		errs = append(errs, invalid("display size %dx%d", d.Width, d.Height))
	}
	if !(d.FPS > 0) {
		errs = append(errs, invalid("fps %v", d.FPS))
	}
	if c.Radio.SampleSize < d.Width+2 {
		errs = append(errs, invalid("sample_size %d below width+2 (%d)", c.Radio.SampleSize, d.Width+2))
	}
	switch c.Radio.Source {
	case SourceRTLTCP:
		if c.Radio.Address == "" {
			errs = append(errs, invalid("rtl_tcp source needs an address"))
		}
	case SourceFile:
		if c.Radio.File == "" {
			errs = append(errs, invalid("file source needs a file"))
		}
	default:
		errs = append(errs, invalid("unknown source %q", c.Radio.Source))
	}
	if _, err := c.Gain(); err != nil {
		errs = append(errs, invalid("%v", err))
	}
	switch c.Spectrum.FFT {
	case spectrum.FFTW, spectrum.Gonum:
	default:
		errs = append(errs, invalid("unknown fft %q", c.Spectrum.FFT))
	}
	if _, _, err := c.Bounds(); err != nil {
		errs = append(errs, invalid("%v", err))
	}
	if len(c.Theme.Gradient) < 2 {
		errs = append(errs, invalid("gradient has %d stops", len(c.Theme.Gradient)))
	}
	if !(c.Theme.MainFont > 0) || !(c.Theme.NumFont > 0) {
		errs = append(errs, invalid("font sizes %v/%v", c.Theme.MainFont, c.Theme.NumFont))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, invalid("%v", err))
	}
	return errors.Join(errs...)
}

func (c *Config) Gain() (radio.Gain, error) { return radio.ParseGain(c.Radio.Gain) }

// Bounds are the initial intensity bounds.
func (c *Config) Bounds() (lo, hi spectrum.Bound, err error) {
	if lo, err = spectrum.ParseBound(c.Spectrum.Min); err != nil {
		return lo, hi, err
	}
	hi, err = spectrum.ParseBound(c.Spectrum.Max)
	return lo, hi, err
}

func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.LogLevel))
	return l, err
}

// Band is the initial tuning.
func (c *Config) Band() radio.HzBand {
	return radio.FreqBand{Center: c.Radio.CenterMHz, Width: c.Radio.SampleRateMHz}.ToHzBand()
}

// Gradient builds the waterfall gradient.
func (c *Config) Gradient() (*spectrum.Gradient, error) {
	stops := make([]color.RGBA, len(c.Theme.Gradient))
	for i, s := range c.Theme.Gradient {
		stops[i] = s.Color()
	}
	return spectrum.NewGradient(stops...)
}
