package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/chzchzchz/rxscope/config"
	"github.com/chzchzchz/rxscope/display"
	"github.com/chzchzchz/rxscope/radio"
	"github.com/chzchzchz/rxscope/scope"
	"github.com/chzchzchz/rxscope/spectrum"
)

var (
	configPath string
	flagCfg    = config.Default()
)

var rootCmd = &cobra.Command{
	Use:          "rxscope [flags]",
	Short:        "A touchscreen spectrum analyzer for RTL-SDR receivers.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         func(cmd *cobra.Command, args []string) error { return run(cmd) },
}

func init() {
	// SDL wants its calls on the main thread.
	runtime.LockOSThread()

	f := rootCmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	f.StringVar(&flagCfg.LogLevel, "log-level", flagCfg.LogLevel, "debug, info, warn or error")

	// UI
	f.IntVarP(&flagCfg.Display.Width, "width", "w", flagCfg.Display.Width, "Window width / spectrum bins")
	f.IntVarP(&flagCfg.Display.Height, "height", "r", flagCfg.Display.Height, "Window height / waterfall rows")
	f.BoolVarP(&flagCfg.Display.Fullscreen, "fullscreen", "F", false, "Fill the display and hide the cursor")
	f.Float64Var(&flagCfg.Display.FPS, "fps", flagCfg.Display.FPS, "Frames per second")

	// Radio
	f.StringVar(&flagCfg.Radio.Source, "source", flagCfg.Radio.Source, "rtl_tcp or file")
	f.StringVarP(&flagCfg.Radio.Address, "address", "a", flagCfg.Radio.Address, "rtl_tcp host:port")
	f.BoolVar(&flagCfg.Radio.Spawn, "spawn", false, "Launch rtl_tcp on the address")
	f.StringVarP(&flagCfg.Radio.Device, "device", "d", flagCfg.Radio.Device, "Device index or serial for a spawned rtl_tcp")
	f.StringVar(&flagCfg.Radio.File, "file", "", "u8 I/Q recording for the file source")
	f.Float64VarP(&flagCfg.Radio.CenterMHz, "center-mhz", "f", flagCfg.Radio.CenterMHz, "Center frequency in MHz")
	f.Float64VarP(&flagCfg.Radio.SampleRateMHz, "sample-rate-mhz", "s", flagCfg.Radio.SampleRateMHz, "Sample rate in MHz")
	f.StringVarP(&flagCfg.Radio.Gain, "gain", "g", flagCfg.Radio.Gain, "Gain in dB or AUTO")

	// Spectrum
	f.StringVar(&flagCfg.Spectrum.FFT, "fft", flagCfg.Spectrum.FFT, "FFT backend: fftw or gonum")
}

// overrideFlags copies explicitly set flags over the file configuration.
func overrideFlags(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("log-level", func() { cfg.LogLevel = flagCfg.LogLevel })
	set("width", func() { cfg.Display.Width = flagCfg.Display.Width })
	set("height", func() { cfg.Display.Height = flagCfg.Display.Height })
	set("fullscreen", func() { cfg.Display.Fullscreen = flagCfg.Display.Fullscreen })
	set("fps", func() { cfg.Display.FPS = flagCfg.Display.FPS })
	set("source", func() { cfg.Radio.Source = flagCfg.Radio.Source })
	set("address", func() { cfg.Radio.Address = flagCfg.Radio.Address })
	set("spawn", func() { cfg.Radio.Spawn = flagCfg.Radio.Spawn })
	set("device", func() { cfg.Radio.Device = flagCfg.Radio.Device })
	set("file", func() { cfg.Radio.File = flagCfg.Radio.File })
	set("center-mhz", func() { cfg.Radio.CenterMHz = flagCfg.Radio.CenterMHz })
	set("sample-rate-mhz", func() { cfg.Radio.SampleRateMHz = flagCfg.Radio.SampleRateMHz })
	set("gain", func() { cfg.Radio.Gain = flagCfg.Radio.Gain })
	set("fft", func() { cfg.Spectrum.FFT = flagCfg.Spectrum.FFT })
}

func run(cmd *cobra.Command) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	overrideFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	var logLevel slog.LevelVar
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &logLevel}))
	level, _ := cfg.Level()
	logLevel.Set(level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tuner, err := openTuner(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer tuner.Close()

	fft, err := spectrum.NewFFT(cfg.Spectrum.FFT, cfg.Display.Width+2)
	if err != nil {
		return err
	}
	m, err := scope.NewModel(scope.ModelConfig{
		Width:       cfg.Display.Width,
		Height:      cfg.Display.Height,
		Tuner:       tuner,
		FFT:         fft,
		SampleSize:  cfg.Radio.SampleSize,
		ReadTimeout: cfg.Radio.ReadTimeout,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	lo, hi, _ := cfg.Bounds()
	m.SetMinBound(lo)
	m.SetMaxBound(hi)

	fonts, err := display.NewFontCache(goregular.TTF, cfg.Theme.FontCacheSize)
	if err != nil {
		return err
	}
	defer fonts.Close()
	th, err := newTheme(cfg, fonts)
	if err != nil {
		return err
	}

	sw, err := newScopeWindow(scope.NewController(m, th), cfg.Display, logger)
	if err != nil {
		return err
	}
	defer sw.Close()
	logger.Info("running", "band", m.Band(), "gain", m.Gain().String(), "fft", cfg.Spectrum.FFT)
	return sw.Run(ctx)
}

// openTuner opens the configured source and applies the initial tuning.
func openTuner(ctx context.Context, cfg *config.Config, logger *slog.Logger) (t radio.Tuner, err error) {
	band := cfg.Band()
	switch cfg.Radio.Source {
	case config.SourceFile:
		t, err = radio.OpenFileTuner(cfg.Radio.File, band)
	default:
		t, err = radio.NewRTLTuner(ctx, radio.RTLConfig{
			Addr:      cfg.Radio.Address,
			Spawn:     cfg.Radio.Spawn,
			Device:    cfg.Radio.Device,
			PPM:       cfg.Radio.PPM,
			BlockSize: cfg.Radio.SampleSize,
			Logger:    logger,
		})
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			t.Close()
		}
	}()
	gain, _ := cfg.Gain()
	if err = t.SetCenterHz(band.Center); err != nil {
		return nil, fmt.Errorf("tuning to %d Hz: %w", band.Center, err)
	}
	if err = t.SetSampleRate(uint32(band.Width)); err != nil {
		return nil, fmt.Errorf("setting sample rate %d: %w", band.Width, err)
	}
	if err = t.SetGain(gain); err != nil {
		return nil, fmt.Errorf("setting gain %v: %w", gain, err)
	}
	return t, nil
}

func newTheme(cfg *config.Config, fonts *display.FontCache) (*scope.Theme, error) {
	grad, err := cfg.Gradient()
	if err != nil {
		return nil, err
	}
	tc := cfg.Theme
	th := scope.DefaultTheme(fonts)
	th.MainBG = tc.MainBG.Color()
	th.InputBG = tc.InputBG.Color()
	th.InputFG = tc.InputFG.Color()
	th.CancelBG = tc.CancelBG.Color()
	th.AcceptBG = tc.AcceptBG.Color()
	th.ButtonBG = tc.ButtonBG.Color()
	th.ButtonFG = tc.ButtonFG.Color()
	th.ButtonBorder = tc.ButtonBorder.Color()
	th.InstantLine = tc.InstantLine.Color()
	th.Padding, th.BorderPx = tc.Padding, tc.BorderPx
	th.MainFont, th.NumFont = tc.MainFont, tc.NumFont
	th.Gradient = grad
	return th, nil
}

func main() {
	if err := sdl.Init(sdl.INIT_TIMER | sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		panic(err)
	}
	err := rootCmd.Execute()
	sdl.Quit()
	if err != nil {
		os.Exit(1)
	}
}
