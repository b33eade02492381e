// Package scope is the spectrum analyzer application: the model over the
// tuner, the spectrogram, settings and dialog views, and the controller that
// moves between them.
package scope

import (
	"context"
	"fmt"
	"image"

	"github.com/dustin/go-humanize"

	"github.com/chzchzchz/rxscope/display"
	"github.com/chzchzchz/rxscope/spectrum"
)

// View is one screen. Render draws the whole of c; Click receives points in
// canvas coordinates.
type View interface {
	Render(ctx context.Context, c display.Canvas)
	Click(p image.Point)
}

// spectrogram is the shared frame of the instant and waterfall views: an
// overlay with buttons and axis labels around the plot, or the plot alone.
type spectrogram struct {
	m       *Model
	ctl     *Controller
	th      *Theme
	buttons *display.ButtonGrid
	overlay bool
	plot    func(ctx context.Context, c display.Canvas)
}

func newSpectrogram(ctl *Controller) *spectrogram {
	s := &spectrogram{
		m:       ctl.m,
		ctl:     ctl,
		th:      ctl.th,
		buttons: ctl.th.grid(ctl.m.Width, ctl.m.Height),
		overlay: true,
	}
	s.buttons.Add(0, 0, "CONFIG", func(*display.Button) { ctl.ChangeToSettings() })
	s.buttons.Add(1, 0, "SWITCH MODE", func(*display.Button) { ctl.ToggleMain() }, display.ColSpan(2))
	s.buttons.Add(3, 0, "QUIT", func(*display.Button) { ctl.Quit() }, display.Background(ctl.th.CancelBG))
	return s
}

// Overlay reports whether the buttons and labels are shown.
func (s *spectrogram) Overlay() bool { return s.overlay }

func (s *spectrogram) Click(p image.Point) {
	rs := s.buttons.RowSize
	if p.Y > rs && p.Y < 4*rs {
		s.overlay = !s.overlay
		return
	}
	s.buttons.Click(p)
}

func (s *spectrogram) Render(ctx context.Context, c display.Canvas) {
	b := c.Bounds()
	c.Fill(b, s.th.MainBG)
	if !s.overlay {
		s.plot(ctx, c)
		return
	}
	rs := s.buttons.RowSize
	plotRect := image.Rect(b.Min.X, b.Min.Y+rs, b.Max.X, b.Max.Y-rs)
	s.plot(ctx, c.Sub(plotRect))

	for _, x := range []int{b.Min.X, b.Min.X + b.Dx()/2, b.Max.X - 1} {
		s.hash(c, x, b.Max.Y-rs+2, 5)
	}

	band := s.m.Band()
	bottom := image.Rect(b.Min.X, b.Max.Y-rs, b.Max.X, b.Max.Y)
	s.text(c, freqLabel(band.BeginMHz()), bottom, display.AlignLeft, display.AlignCenter)
	s.text(c, freqLabel(band.Center), bottom, display.AlignCenter, display.AlignCenter)
	s.text(c, freqLabel(band.EndMHz()), bottom, display.AlignRight, display.AlignCenter)

	if sc, ok := s.m.Scale(); ok {
		s.text(c, fmt.Sprintf("%0.0f dB", sc.Min), plotRect, display.AlignLeft, display.AlignBottom)
		s.text(c, fmt.Sprintf("%0.0f dB", sc.Max), plotRect, display.AlignLeft, display.AlignTop)
	}
	s.buttons.Render(c)
}

// hash draws a triangle marker with a tail pointing down from (x, y).
func (s *spectrogram) hash(c display.Canvas, x, y, size int) {
	display.Polyline(c, []image.Point{
		{x, y},
		{x - size, y + size},
		{x + size, y + size},
		{x, y},
		{x, y + 2*size},
	}, s.th.ButtonFG)
}

func (s *spectrogram) text(c display.Canvas, str string, r image.Rectangle, h, v float64) {
	img := s.th.label(str, s.th.MainFont, s.th.ButtonFG)
	c.Blit(img, img.Bounds(), display.Align(img.Bounds(), r, h, v, 0, 0))
}

func freqLabel(mhz float64) string {
	v, prefix := humanize.ComputeSI(mhz * 1e6)
	return fmt.Sprintf("%0.2f %sHz", v, prefix)
}

// InstantSpectrogram plots the latest row as a line graph.
type InstantSpectrogram struct {
	*spectrogram
	row []float64
	sc  spectrum.Scale
}

func newInstantSpectrogram(ctl *Controller) *InstantSpectrogram {
	v := &InstantSpectrogram{spectrogram: newSpectrogram(ctl)}
	v.plot = v.renderPlot
	return v
}

func (v *InstantSpectrogram) renderPlot(ctx context.Context, c display.Canvas) {
	row, sc, err := v.m.Data(ctx)
	if err != nil {
		// Keep showing the previous row.
		v.m.log.Debug("skipping tick", "err", err)
	} else {
		v.row, v.sc = row, sc
	}
	RenderInstant(c, v.row, v.sc, v.th.InstantLine, v.th.MainBG)
}

// WaterfallSpectrogram plots a scrolling history of rows.
type WaterfallSpectrogram struct {
	*spectrogram
	wf *Waterfall
}

func newWaterfallSpectrogram(ctl *Controller) *WaterfallSpectrogram {
	v := &WaterfallSpectrogram{
		spectrogram: newSpectrogram(ctl),
		wf:          NewWaterfall(ctl.m.Width, ctl.m.Height, ctl.th.Gradient, ctl.th.MainBG),
	}
	v.plot = v.renderPlot
	return v
}

// Clear drops the history, e.g. after a tuning change.
func (v *WaterfallSpectrogram) Clear() { v.wf.Clear() }

func (v *WaterfallSpectrogram) renderPlot(ctx context.Context, c display.Canvas) {
	if row, sc, err := v.m.Data(ctx); err != nil {
		v.m.log.Debug("skipping tick", "err", err)
	} else {
		v.wf.Push(row, sc)
	}
	v.wf.Render(c, c.Bounds())
}
