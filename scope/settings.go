package scope

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/chzchzchz/rxscope/display"
	"github.com/chzchzchz/rxscope/radio"
	"github.com/chzchzchz/rxscope/spectrum"
)

const autoText = spectrum.AutoText

// SettingsList shows the tuning and scale settings as of its creation.
// Accepting a new value opens a fresh list.
type SettingsList struct {
	m       *Model
	ctl     *Controller
	th      *Theme
	buttons *display.ButtonGrid
}

func newSettingsList(ctl *Controller) *SettingsList {
	s := &SettingsList{m: ctl.m, ctl: ctl, th: ctl.th, buttons: ctl.th.grid(ctl.m.Width, ctl.m.Height)}
	m, g := s.m, s.buttons
	g.Add(0, 0, fmt.Sprintf("CENTER FREQ: %0.2f MHz", m.CenterMHz()), s.centerClick, display.ColSpan(4))
	g.Add(0, 1, fmt.Sprintf("SAMPLE RATE: %0.2f MHz", m.SampleRateMHz()), s.rateClick, display.ColSpan(4))
	g.Add(0, 2, fmt.Sprintf("GAIN: %s dB", m.Gain()), s.gainClick, display.ColSpan(4))
	g.Add(0, 3, fmt.Sprintf("MIN: %s dB", m.MinBound()), s.minClick, display.ColSpan(2))
	g.Add(2, 3, fmt.Sprintf("MAX: %s dB", m.MaxBound()), s.maxClick, display.ColSpan(2))
	g.Add(0, 4, "BACK", func(*display.Button) { ctl.ChangeToMain() })
	return s
}

// Labels are the button texts, top to bottom.
func (s *SettingsList) Labels() []string {
	var ls []string
	for _, b := range s.buttons.Buttons() {
		ls = append(ls, b.Text)
	}
	return ls
}

func (s *SettingsList) Render(_ context.Context, c display.Canvas) {
	c.Fill(c.Bounds(), s.th.MainBG)
	s.buttons.Render(c)
}

func (s *SettingsList) Click(p image.Point) { s.buttons.Click(p) }

// applied finishes an accepted edit: stale history goes and the list is
// rebuilt with the new values.
func (s *SettingsList) applied() {
	s.ctl.waterfall.Clear()
	s.ctl.ChangeToSettings()
}

func (s *SettingsList) centerClick(*display.Button) {
	s.ctl.NumberDialog("FREQUENCY:", "MHz", fmt.Sprintf("%0.2f", s.m.CenterMHz()),
		s.floatAccept("center frequency", s.m.SetCenterMHz), NumberOptions{})
}

func (s *SettingsList) rateClick(*display.Button) {
	s.ctl.NumberDialog("SAMPLE RATE:", "MHz", fmt.Sprintf("%0.2f", s.m.SampleRateMHz()),
		s.floatAccept("sample rate", s.m.SetSampleRateMHz), NumberOptions{})
}

func (s *SettingsList) gainClick(*display.Button) {
	s.ctl.NumberDialog("GAIN:", "dB", s.m.Gain().String(), func(v string) {
		g, err := radio.ParseGain(v)
		if err != nil {
			s.m.log.Warn("ignoring gain", "value", v, "err", err)
			return
		}
		s.m.SetGain(g)
		s.applied()
	}, NumberOptions{HasAuto: true})
}

func (s *SettingsList) minClick(*display.Button) {
	s.ctl.NumberDialog("MIN:", "dB", s.m.MinBound().String(),
		s.boundAccept("min intensity", s.m.SetMinBound), NumberOptions{HasAuto: true, AllowNegative: true})
}

func (s *SettingsList) maxClick(*display.Button) {
	s.ctl.NumberDialog("MAX:", "dB", s.m.MaxBound().String(),
		s.boundAccept("max intensity", s.m.SetMaxBound), NumberOptions{HasAuto: true, AllowNegative: true})
}

func (s *SettingsList) floatAccept(what string, set func(float64)) func(string) {
	return func(v string) {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			s.m.log.Warn("ignoring "+what, "value", v, "err", err)
			return
		}
		set(f)
		s.applied()
	}
}

func (s *SettingsList) boundAccept(what string, set func(spectrum.Bound)) func(string) {
	return func(v string) {
		b, err := spectrum.ParseBound(v)
		if err != nil {
			s.m.log.Warn("ignoring "+what, "value", v, "err", err)
			return
		}
		set(b)
		s.applied()
	}
}
