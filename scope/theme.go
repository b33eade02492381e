package scope

import (
	"image"
	"image/color"

	"github.com/chzchzchz/rxscope/display"
	"github.com/chzchzchz/rxscope/spectrum"
)

// Theme holds the colors, font sizes and fonts shared by every view.
type Theme struct {
	MainBG       color.RGBA
	InputBG      color.RGBA
	InputFG      color.RGBA
	CancelBG     color.RGBA
	AcceptBG     color.RGBA
	ButtonBG     color.RGBA
	ButtonFG     color.RGBA
	ButtonBorder color.RGBA
	InstantLine  color.RGBA

	Padding  int
	BorderPx int
	MainFont float64
	NumFont  float64

	Gradient *spectrum.Gradient
	Fonts    *display.FontCache
}

func DefaultTheme(fonts *display.FontCache) *Theme {
	return &Theme{
		MainBG:       color.RGBA{0, 0, 0, 255},
		InputBG:      color.RGBA{60, 255, 255, 255},
		InputFG:      color.RGBA{0, 0, 0, 255},
		CancelBG:     color.RGBA{128, 45, 45, 255},
		AcceptBG:     color.RGBA{45, 128, 45, 255},
		ButtonBG:     color.RGBA{60, 60, 60, 255},
		ButtonFG:     color.RGBA{255, 255, 255, 255},
		ButtonBorder: color.RGBA{200, 200, 200, 255},
		InstantLine:  color.RGBA{0, 255, 128, 255},
		Padding:      2,
		BorderPx:     2,
		MainFont:     22,
		NumFont:      34,
		Gradient:     spectrum.DefaultGradient,
		Fonts:        fonts,
	}
}

// ButtonStyle is the starting style for a button; grids copy it per button.
func (th *Theme) ButtonStyle() display.Style {
	return display.Style{
		FG:       th.ButtonFG,
		BG:       th.ButtonBG,
		Border:   th.ButtonBorder,
		Padding:  th.Padding,
		BorderPx: th.BorderPx,
		FontSize: th.MainFont,
	}
}

func (th *Theme) grid(w, h int) *display.ButtonGrid {
	return display.NewButtonGrid(th.Fonts, th.ButtonStyle(), w, h, 4, 5)
}

// label renders s with a transparent background.
func (th *Theme) label(s string, size float64, fg color.Color) *image.RGBA {
	return th.Fonts.Text(s, size, fg, nil)
}
