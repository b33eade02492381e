package scope

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/chzchzchz/rxscope/display"
	"github.com/chzchzchz/rxscope/radio"
	"github.com/chzchzchz/rxscope/spectrum"
)

const (
	testW = 320
	testH = 240
)

type fakeTuner struct {
	center uint64
	rate   uint32
	gain   radio.Gain
	// readErr fails every read while set.
	readErr error
	phase   float64
}

func (ft *fakeTuner) CenterHz() uint64   { return ft.center }
func (ft *fakeTuner) SampleRate() uint32 { return ft.rate }
func (ft *fakeTuner) Gain() radio.Gain   { return ft.gain }

func (ft *fakeTuner) SetCenterHz(hz uint64) error {
	if hz == 0 || hz > 2e9 {
		return radio.ErrFrequencyOutOfRange
	}
	ft.center = hz
	return nil
}

func (ft *fakeTuner) SetSampleRate(rate uint32) error {
	if rate == 0 {
		return radio.ErrRateOutOfRange
	}
	ft.rate = rate
	return nil
}

func (ft *fakeTuner) SetGain(g radio.Gain) error {
	ft.gain = g
	return nil
}

// ReadSamples returns a tone plus a little offset so no bin is empty.
func (ft *fakeTuner) ReadSamples(ctx context.Context, n int) ([]complex64, error) {
	if ft.readErr != nil {
		return nil, ft.readErr
	}
	samps := make([]complex64, n)
	for i := range samps {
		ph := ft.phase + 2*math.Pi*float64(i)*37/float64(n)
		samps[i] = complex64(complex(0.5*math.Cos(ph)+0.01, 0.5*math.Sin(ph)))
	}
	ft.phase += 0.1
	return samps, nil
}

func (ft *fakeTuner) Close() error { return nil }

func newTestController(t *testing.T) (*Controller, *fakeTuner) {
	ft := &fakeTuner{center: 90300000, rate: 2400000, gain: radio.AutoGain}
	fft, err := spectrum.NewFFT(spectrum.Gonum, testW+2)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewModel(ModelConfig{
		Width:      testW,
		Height:     testH,
		Tuner:      ft,
		FFT:        fft,
		SampleSize: 1024,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatal(err)
	}
	fonts, err := display.NewDefaultFontCache()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { fonts.Close() })
	return NewController(m, DefaultTheme(fonts)), ft
}

// cell is the center of grid cell (col, row) on the 4x5 test grid.
func cell(col, row int) image.Point {
	cw, rh := testW/4, testH/5
	return image.Pt(col*cw+cw/2, row*rh+rh/2)
}

func TestNewModelChecks(t *testing.T) {
	fft, err := spectrum.NewFFT(spectrum.Gonum, 10)
	if err != nil {
		t.Fatal(err)
	}
	ft := &fakeTuner{}
	if _, err := NewModel(ModelConfig{Width: 9, Height: 5, Tuner: ft, FFT: fft, SampleSize: 100}); err == nil {
		t.Fatal("expected fft length mismatch")
	}
	_, err = NewModel(ModelConfig{Width: 8, Height: 5, Tuner: ft, FFT: fft, SampleSize: 9})
	if !errors.Is(err, spectrum.ErrInsufficientData) {
		t.Fatalf("expected insufficient data, got %v", err)
	}
	if _, err := NewModel(ModelConfig{Width: 8, Height: 5, Tuner: ft, FFT: fft, SampleSize: 10}); err != nil {
		t.Fatal(err)
	}
}

func TestModelSetters(t *testing.T) {
	ctl, ft := newTestController(t)
	m := ctl.m
	ctx := context.TODO()
	if _, _, err := m.Data(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Scale(); !ok {
		t.Fatal("expected a scale after reading data")
	}

	// Rejected settings keep the old value and the scale.
	m.SetCenterMHz(0)
	if ft.center != 90300000 {
		t.Fatalf("center changed to %d", ft.center)
	}
	if _, ok := m.Scale(); !ok {
		t.Fatal("failed set reset the scale")
	}

	m.SetCenterMHz(433.92)
	if ft.center != 433920000 || m.CenterMHz() != 433.92 {
		t.Fatalf("center not applied: %d", ft.center)
	}
	if _, ok := m.Scale(); ok {
		t.Fatal("tuning did not reset the scale")
	}

	m.SetSampleRateMHz(1.024)
	if ft.rate != 1024000 {
		t.Fatalf("rate not applied: %d", ft.rate)
	}
	m.SetGain(radio.ManualGain(19.7))
	if m.Gain() != radio.ManualGain(19.7) {
		t.Fatalf("gain not applied: %v", m.Gain())
	}
	m.SetMinBound(spectrum.ManualBound(-80))
	if m.MinBound().IsAuto() || m.MinBound().DB() != -80 {
		t.Fatalf("min not applied: %v", m.MinBound())
	}
	if b := m.Band(); math.Abs(b.BeginMHz()-433.408) > 1e-9 {
		t.Fatalf("bad band %+v", b)
	}
}

func TestModelData(t *testing.T) {
	ctl, ft := newTestController(t)
	row, sc, err := ctl.m.Data(context.TODO())
	if err != nil {
		t.Fatal(err)
	}
	if len(row) != testW {
		t.Fatalf("row has %d bins", len(row))
	}
	if !(sc.Max > sc.Min) || sc.Degenerate {
		t.Fatalf("bad auto scale %+v", sc)
	}
	ft.readErr = context.DeadlineExceeded
	if _, _, err := ctl.m.Data(context.TODO()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestControllerSingleLevelBack(t *testing.T) {
	ctl, _ := newTestController(t)
	if ctl.Current() != View(ctl.Instant()) {
		t.Fatal("expected to start on instant view")
	}
	ctl.ChangeToInstant()
	ctl.ChangeToWaterfall()
	ctl.MessageDialog("hello", nil)
	if _, ok := ctl.Current().(*MessageDialog); !ok {
		t.Fatalf("expected message dialog, got %T", ctl.Current())
	}
	ctl.Click(cell(0, 4))
	if ctl.Current() != View(ctl.Waterfall()) {
		t.Fatalf("cancel went to %T, expected waterfall", ctl.Current())
	}
}

func TestControllerToggleMain(t *testing.T) {
	ctl, _ := newTestController(t)
	ctl.Click(cell(1, 0))
	if ctl.Current() != View(ctl.Waterfall()) {
		t.Fatalf("switch mode went to %T", ctl.Current())
	}
	ctl.ChangeToSettings()
	ctl.ChangeToMain()
	if ctl.Current() != View(ctl.Waterfall()) {
		t.Fatal("main view not remembered")
	}
	ctl.ToggleMain()
	if ctl.Current() != View(ctl.Instant()) {
		t.Fatal("toggle did not return to instant")
	}
}

func TestControllerPreviousNil(t *testing.T) {
	ctl, _ := newTestController(t)
	ctl.prev = nil
	ctl.changeToPrevious()
	if ctl.Current() == nil {
		t.Fatal("returning to a missing view cleared the current view")
	}
}

func TestSettingsFresh(t *testing.T) {
	ctl, _ := newTestController(t)
	ctl.ChangeToSettings()
	s1 := ctl.Current().(*SettingsList)
	ctl.m.SetCenterMHz(100)
	ctl.ChangeToSettings()
	s2 := ctl.Current().(*SettingsList)
	if s1 == s2 {
		t.Fatal("settings list reused")
	}
	want := []string{
		"CENTER FREQ: 100.00 MHz",
		"SAMPLE RATE: 2.40 MHz",
		"GAIN: AUTO dB",
		"MIN: AUTO dB",
		"MAX: AUTO dB",
		"BACK",
	}
	got := s2.Labels()
	if len(got) != len(want) {
		t.Fatalf("got labels %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d: got %q, expected %q", i, got[i], want[i])
		}
	}
	if s1.Labels()[0] != "CENTER FREQ: 90.30 MHz" {
		t.Fatalf("old list changed: %q", s1.Labels()[0])
	}
	ctl.Click(cell(0, 4))
	if ctl.Current() != View(ctl.Instant()) {
		t.Fatalf("BACK went to %T", ctl.Current())
	}
}

func TestSettingsAccept(t *testing.T) {
	ctl, ft := newTestController(t)
	ctl.ChangeToWaterfall()
	ctx := context.TODO()
	surf := display.NewSurface(testW, testH)
	ctl.Render(ctx, surf)

	ctl.ChangeToSettings()
	ctl.Click(cell(1, 0))
	d, ok := ctl.Current().(*NumberDialog)
	if !ok {
		t.Fatalf("expected number dialog, got %T", ctl.Current())
	}
	if d.Value() != "90.30" {
		t.Fatalf("initial value %q", d.Value())
	}
	d.Clear()
	for _, k := range []string{"1", "0", "0", ".", "5"} {
		if k == "." {
			d.Decimal()
			continue
		}
		d.Digit(k)
	}
	ctl.Click(cell(3, 4))
	if ft.center != 100500000 {
		t.Fatalf("center not applied: %d", ft.center)
	}
	s, ok := ctl.Current().(*SettingsList)
	if !ok {
		t.Fatalf("expected settings after accept, got %T", ctl.Current())
	}
	if s.Labels()[0] != "CENTER FREQ: 100.50 MHz" {
		t.Fatalf("stale label %q", s.Labels()[0])
	}
	bg := ctl.th.MainBG
	for y := 0; y < testH; y += 10 {
		if c := ctl.Waterfall().wf.At(5, y); c != bg {
			t.Fatalf("waterfall not cleared at row %d: %v", y, c)
		}
	}
}

func TestSettingsRejectsBadInput(t *testing.T) {
	ctl, _ := newTestController(t)
	ctl.ChangeToSettings()
	ctl.Click(cell(1, 3))
	d := ctl.Current().(*NumberDialog)
	if d.Value() != "AUTO" {
		t.Fatalf("initial value %q", d.Value())
	}
	d.Digit("5")
	d.Negate()
	d.Delete()
	if d.Value() != "-" {
		t.Fatalf("value %q", d.Value())
	}
	d.Accept()
	if ctl.Current() != View(d) {
		t.Fatalf("bad input left the dialog for %T", ctl.Current())
	}
	if !ctl.m.MinBound().IsAuto() {
		t.Fatal("bad input changed the min bound")
	}
	d.Cancel()
	if _, ok := ctl.Current().(*SettingsList); !ok {
		t.Fatalf("cancel went to %T", ctl.Current())
	}
}

func TestNumberDialogEditing(t *testing.T) {
	ctl, _ := newTestController(t)
	tests := []struct {
		initial string
		keys    string
		want    string
	}{
		{"0", "12", "12"},
		{"0", "1.2.3", "1.23"},
		{"AUTO", "7", "7"},
		{"AUTO", ".", "0."},
		{"AUTO", "<", "AUTO"},
		{"AUTO", "-", "AUTO"},
		{"5", "<", "0"},
		{"12", "<", "1"},
		{"12", "-", "-12"},
		{"-12", "-", "12"},
		{"12", "c", "0"},
		{"12", "a", "AUTO"},
		{"", "3", "3"},
	}
	for _, tt := range tests {
		d := NewNumberDialog(ctl.m, ctl.th, "X:", "dB", tt.initial, nil, nil,
			NumberOptions{HasAuto: true, AllowNegative: true})
		for _, k := range tt.keys {
			switch k {
			case '.':
				d.Decimal()
			case '<':
				d.Delete()
			case '-':
				d.Negate()
			case 'c':
				d.Clear()
			case 'a':
				d.Auto()
			default:
				d.Digit(string(k))
			}
		}
		if d.Value() != tt.want {
			t.Errorf("%q + %q = %q, expected %q", tt.initial, tt.keys, d.Value(), tt.want)
		}
		// Handlers are optional.
		d.Accept()
		d.Cancel()
	}
}

func TestNumberDialogKeys(t *testing.T) {
	ctl, _ := newTestController(t)
	accepted := ""
	d := NewNumberDialog(ctl.m, ctl.th, "GAIN:", "dB", "0", func(v string) { accepted = v }, nil, NumberOptions{})
	d.Click(cell(1, 1))
	d.Click(cell(2, 4))
	d.Click(cell(0, 3))
	d.Click(cell(3, 2)) // no AUTO key
	d.Click(cell(3, 4))
	if accepted != "2.7" {
		t.Fatalf("accepted %q", accepted)
	}
	d.Click(cell(3, 1))
	if d.Value() != "0" {
		t.Fatalf("CLEAR left %q", d.Value())
	}
	d.Render(context.TODO(), display.NewSurface(testW, testH))
}

func TestOverlayToggle(t *testing.T) {
	ctl, _ := newTestController(t)
	v := ctl.Instant()
	ctl.Click(cell(2, 2))
	if v.Overlay() {
		t.Fatal("plot click did not hide the overlay")
	}
	// Buttons still work with the overlay hidden.
	ctl.Click(cell(0, 0))
	if _, ok := ctl.Current().(*SettingsList); !ok {
		t.Fatalf("CONFIG went to %T", ctl.Current())
	}
	ctl.ChangeToMain()
	ctl.Click(cell(2, 3))
	if !v.Overlay() {
		t.Fatal("second plot click did not restore the overlay")
	}
}

func TestQuitFlow(t *testing.T) {
	ctl, _ := newTestController(t)
	ctl.Click(cell(3, 0))
	if _, ok := ctl.Current().(*MessageDialog); !ok {
		t.Fatalf("QUIT went to %T", ctl.Current())
	}
	ctl.Click(cell(0, 4))
	if ctl.Done() || ctl.Current() != View(ctl.Instant()) {
		t.Fatal("cancel did not return to the spectrogram")
	}
	ctl.Quit()
	ctl.Click(cell(3, 4))
	if !ctl.Done() {
		t.Fatal("OK did not finish")
	}
}

func TestQuitOnlyFromMain(t *testing.T) {
	ctl, _ := newTestController(t)
	ctl.ChangeToSettings()
	ctl.Click(cell(1, 0))
	d, ok := ctl.Current().(*NumberDialog)
	if !ok {
		t.Fatalf("expected number dialog, got %T", ctl.Current())
	}
	ctl.Quit()
	if ctl.Current() != View(d) {
		t.Fatalf("quit replaced the number dialog with %T", ctl.Current())
	}
	d.Cancel()
	if _, ok := ctl.Current().(*SettingsList); !ok {
		t.Fatalf("cancel went to %T, expected settings", ctl.Current())
	}

	ctl.ChangeToMain()
	ctl.Quit()
	ctl.Quit()
	ctl.Click(cell(0, 4))
	if ctl.Done() || ctl.Current() != View(ctl.Instant()) {
		t.Fatalf("one cancel left %T showing", ctl.Current())
	}
}

func TestRenderViews(t *testing.T) {
	ctl, ft := newTestController(t)
	ctx := context.TODO()
	surf := display.NewSurface(testW, testH)
	ctl.Render(ctx, surf)
	// Overlay border of the CONFIG button.
	if c := surf.At(2, 2); c != ctl.th.ButtonBorder {
		t.Fatalf("overlay not drawn: %v", c)
	}

	ctl.ChangeToWaterfall()
	ctl.Render(ctx, surf)
	before := ctl.Waterfall().wf.At(100, testH-1)
	if before == ctl.th.MainBG {
		t.Fatal("waterfall row not pushed")
	}
	// A tick without data leaves the history alone.
	ft.readErr = context.DeadlineExceeded
	ctl.Render(ctx, surf)
	if ctl.Waterfall().wf.At(100, testH-2) != ctl.th.MainBG {
		t.Fatal("skipped tick scrolled the waterfall")
	}
	ctl.ChangeToInstant()
	ctl.Render(ctx, surf)

	ctl.ChangeToSettings()
	ctl.Render(ctx, surf)
	ctl.MessageDialog("hi", nil)
	ctl.Render(ctx, surf)
}

func grayGradient() *spectrum.Gradient {
	return spectrum.MustGradient(color.RGBA{0, 0, 0, 255}, color.RGBA{255, 255, 255, 255})
}

func TestWaterfallOrder(t *testing.T) {
	bg := color.RGBA{1, 2, 3, 255}
	wf := NewWaterfall(3, 4, grayGradient(), bg)
	sc := spectrum.Scale{Min: 0, Max: 5, Range: 5}
	for k := 0; k < 6; k++ {
		wf.Push([]float64{float64(k), float64(k), float64(k)}, sc)
	}
	// Rows 2..5 remain, oldest at the top.
	for y := 0; y < 4; y++ {
		want := uint8(51 * (y + 2))
		if got := wf.At(1, y).R; got != want {
			t.Errorf("row %d: got %d, expected %d", y, got, want)
		}
	}

	dst := display.NewSurface(3, 2)
	wf.Render(dst, dst.Bounds())
	if dst.At(0, 0).R != 204 || dst.At(0, 1).R != 255 {
		t.Fatalf("render copied wrong rows: %v %v", dst.At(0, 0), dst.At(0, 1))
	}

	wf.Clear()
	for y := 0; y < 4; y++ {
		if wf.At(2, y) != bg {
			t.Fatalf("row %d not cleared", y)
		}
	}
}

func TestWaterfallClampsAndSkipsEmpty(t *testing.T) {
	wf := NewWaterfall(3, 2, grayGradient(), color.RGBA{})
	sc := spectrum.Scale{Min: -80, Max: -40, Range: 40}
	wf.Push([]float64{-100, math.Inf(-1), 0}, sc)
	if wf.At(0, 1).R != 0 || wf.At(1, 1).R != 0 || wf.At(2, 1).R != 255 {
		t.Fatalf("unexpected colors %v %v %v", wf.At(0, 1), wf.At(1, 1), wf.At(2, 1))
	}
}

func TestRenderInstant(t *testing.T) {
	line := color.RGBA{0, 255, 128, 255}
	bg := color.RGBA{0, 0, 0, 255}
	s := display.NewSurface(4, 10)
	sc := spectrum.Scale{Min: -80, Max: -40, Range: 40}
	RenderInstant(s, []float64{-80, -40, -60, -80}, sc, line, bg)
	if s.At(1, 0) != line || s.At(2, 5) != line {
		t.Fatal("plot points missing")
	}
	if s.At(3, 0) != bg || s.At(0, 0) != bg {
		t.Fatal("background overwritten")
	}

	// Same input, same pixels.
	s2 := display.NewSurface(4, 10)
	RenderInstant(s2, []float64{-80, -40, -60, -80}, sc, line, bg)
	for i := range s.Image().Pix {
		if s.Image().Pix[i] != s2.Image().Pix[i] {
			t.Fatal("render not deterministic")
		}
	}

	RenderInstant(s, nil, sc, line, bg)
	if s.At(1, 0) != bg {
		t.Fatal("empty row not cleared")
	}
}

func TestRenderInstantFarPoints(t *testing.T) {
	line := color.RGBA{0, 255, 128, 255}
	bg := color.RGBA{0, 0, 0, 255}
	sc := spectrum.Scale{Min: -80, Max: -40, Range: 40}
	var prev *display.Surface
	for _, far := range []float64{1e9, math.Inf(1), 1e300} {
		s := display.NewSurface(2, 10)
		RenderInstant(s, []float64{-60, far}, sc, line, bg)
		// The segment leaves through the top edge above the first bin.
		for y := 0; y <= 5; y++ {
			if s.At(0, y) != line {
				t.Fatalf("far=%v: column 0 row %d not drawn", far, y)
			}
		}
		if prev != nil {
			for i := range s.Image().Pix {
				if s.Image().Pix[i] != prev.Image().Pix[i] {
					t.Fatalf("far=%v drew differently from a smaller overshoot", far)
				}
			}
		}
		prev = s
	}
}

func TestFreqLabel(t *testing.T) {
	if got := freqLabel(89.1); got != "89.10 MHz" {
		t.Fatalf("got %q", got)
	}
	if got := freqLabel(1090); got != "1.09 GHz" {
		t.Fatalf("got %q", got)
	}
}

func TestDebouncer(t *testing.T) {
	d := Debouncer{Interval: 400 * time.Millisecond}
	t0 := time.Unix(1000, 0)
	steps := []struct {
		at   time.Duration
		want bool
	}{
		{0, true},
		{100 * time.Millisecond, false},
		{399 * time.Millisecond, false},
		{400 * time.Millisecond, true},
		{500 * time.Millisecond, false},
		{2 * time.Second, true},
	}
	for _, s := range steps {
		if got := d.Allow(t0.Add(s.at)); got != s.want {
			t.Errorf("at %v: got %v, expected %v", s.at, got, s.want)
		}
	}
}
