package scope

import (
	"context"
	"image"

	"github.com/chzchzchz/rxscope/display"
)

// Controller owns the views and moves between them. It remembers one
// previous view, so going back never goes further than one step.
type Controller struct {
	m  *Model
	th *Theme

	instant   *InstantSpectrogram
	waterfall *WaterfallSpectrogram

	current View
	prev    View
	main    View
	done    bool
}

// NewController starts on the instant spectrogram.
func NewController(m *Model, th *Theme) *Controller {
	ctl := &Controller{m: m, th: th}
	ctl.instant = newInstantSpectrogram(ctl)
	ctl.waterfall = newWaterfallSpectrogram(ctl)
	ctl.ChangeToInstant()
	return ctl
}

func (ctl *Controller) Current() View { return ctl.current }

func (ctl *Controller) Instant() *InstantSpectrogram { return ctl.instant }

func (ctl *Controller) Waterfall() *WaterfallSpectrogram { return ctl.waterfall }

func (ctl *Controller) ChangeView(v View) {
	ctl.prev, ctl.current = ctl.current, v
}

// changeToPrevious is the cancel handler of dialogs.
func (ctl *Controller) changeToPrevious() {
	if ctl.prev == nil {
		return
	}
	ctl.ChangeView(ctl.prev)
}

func (ctl *Controller) ChangeToMain() { ctl.ChangeView(ctl.main) }

// ToggleMain switches between the instant and waterfall views.
func (ctl *Controller) ToggleMain() {
	if ctl.main == View(ctl.waterfall) {
		ctl.ChangeToInstant()
		return
	}
	ctl.ChangeToWaterfall()
}

func (ctl *Controller) ChangeToInstant() {
	ctl.main = ctl.instant
	ctl.ChangeView(ctl.instant)
}

func (ctl *Controller) ChangeToWaterfall() {
	ctl.main = ctl.waterfall
	ctl.ChangeView(ctl.waterfall)
}

// ChangeToSettings opens a new settings list showing current values.
func (ctl *Controller) ChangeToSettings() {
	ctl.ChangeView(newSettingsList(ctl))
}

// MessageDialog shows text; canceling returns to the previous view.
func (ctl *Controller) MessageDialog(text string, accept func()) {
	ctl.ChangeView(NewMessageDialog(ctl.m, ctl.th, text, accept, ctl.changeToPrevious))
}

// NumberDialog asks for a value; canceling returns to the previous view.
func (ctl *Controller) NumberDialog(label, unit, initial string, accept func(string), opts NumberOptions) {
	ctl.ChangeView(NewNumberDialog(ctl.m, ctl.th, label, unit, initial, accept, ctl.changeToPrevious, opts))
}

// Quit asks for confirmation before marking the controller done.
// It does nothing unless a spectrogram is showing.
func (ctl *Controller) Quit() {
	if ctl.current != ctl.main {
		return
	}
	ctl.MessageDialog("QUIT: Are you sure?", func() { ctl.done = true })
}

// Done reports whether quitting was confirmed.
func (ctl *Controller) Done() bool { return ctl.done }

func (ctl *Controller) Render(ctx context.Context, c display.Canvas) {
	ctl.current.Render(ctx, c)
}

// Click goes to the current view only.
func (ctl *Controller) Click(p image.Point) { ctl.current.Click(p) }
