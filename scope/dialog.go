package scope

import (
	"context"
	"image"
	"strings"

	"github.com/chzchzchz/rxscope/display"
)

// MessageDialog shows centered text with OK and, given a cancel handler,
// CANCEL.
type MessageDialog struct {
	th      *Theme
	buttons *display.ButtonGrid
	label   *image.RGBA
	Text    string
}

func NewMessageDialog(m *Model, th *Theme, text string, accept, cancel func()) *MessageDialog {
	d := &MessageDialog{th: th, buttons: th.grid(m.Width, m.Height), Text: text}
	d.buttons.Add(3, 4, "OK", func(*display.Button) {
		if accept != nil {
			accept()
		}
	}, display.Background(th.AcceptBG))
	if cancel != nil {
		d.buttons.Add(0, 4, "CANCEL", func(*display.Button) { cancel() }, display.Background(th.CancelBG))
	}
	d.label = th.Fonts.Text(text, th.NumFont, th.ButtonFG, th.MainBG)
	return d
}

func (d *MessageDialog) Render(_ context.Context, c display.Canvas) {
	b := c.Bounds()
	c.Fill(b, d.th.MainBG)
	d.buttons.Render(c)
	lb := d.label.Bounds()
	c.Blit(d.label, lb, display.Align(lb, b, display.AlignCenter, display.AlignCenter, 0, 0))
}

func (d *MessageDialog) Click(p image.Point) { d.buttons.Click(p) }

type NumberOptions struct {
	// HasAuto adds an AUTO key.
	HasAuto bool
	// AllowNegative swaps CLEAR for a +/- key.
	AllowNegative bool
}

// NumberDialog is a keypad for entering a decimal value or AUTO. The value
// is kept as typed and handed to accept as a string.
type NumberDialog struct {
	th      *Theme
	buttons *display.ButtonGrid
	label   *image.RGBA
	input   image.Rectangle
	unit    string
	value   string
	accept  func(string)
	cancel  func()
}

func NewNumberDialog(m *Model, th *Theme, label, unit, initial string, accept func(string), cancel func(), opts NumberOptions) *NumberDialog {
	if initial == "" {
		initial = "0"
	}
	d := &NumberDialog{
		th:      th,
		buttons: th.grid(m.Width, m.Height),
		unit:    unit,
		value:   initial,
		accept:  accept,
		cancel:  cancel,
	}
	g := d.buttons
	digit := display.FontSize(th.NumFont)
	for i, key := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"} {
		g.Add(i%3, 1+i/3, key, d.numberClick, digit)
	}
	g.Add(1, 4, "0", d.numberClick, digit)
	g.Add(2, 4, ".", func(*display.Button) { d.Decimal() }, digit)
	g.Add(0, 4, "DELETE", func(*display.Button) { d.Delete() })
	if opts.AllowNegative {
		g.Add(3, 1, "+/-", func(*display.Button) { d.Negate() })
	} else {
		g.Add(3, 1, "CLEAR", func(*display.Button) { d.Clear() })
	}
	g.Add(3, 3, "CANCEL", func(*display.Button) { d.Cancel() }, display.Background(th.CancelBG))
	g.Add(3, 4, "ACCEPT", func(*display.Button) { d.Accept() }, display.Background(th.AcceptBG))
	if opts.HasAuto {
		g.Add(3, 2, "AUTO", func(*display.Button) { d.Auto() })
	}
	d.input = image.Rect(0, 0, m.Width, g.RowSize)
	d.label = th.Fonts.Text(label, th.MainFont, th.InputFG, th.InputBG)
	return d
}

// Value is the text entered so far.
func (d *NumberDialog) Value() string { return d.value }

func (d *NumberDialog) Render(_ context.Context, c display.Canvas) {
	b := c.Bounds()
	c.Fill(b, d.th.MainBG)
	in := d.input.Add(b.Min)
	c.Fill(in, d.th.InputBG)
	lb := d.label.Bounds()
	c.Blit(d.label, lb, display.Align(lb, in, display.AlignLeft, display.AlignCenter, 10, 0))
	val := d.th.Fonts.Text(d.value+" "+d.unit, d.th.NumFont, d.th.InputFG, d.th.InputBG)
	vb := val.Bounds()
	c.Blit(val, vb, display.Align(vb, in, display.AlignRight, display.AlignCenter, -10, 0))
	d.buttons.Render(c)
}

func (d *NumberDialog) Click(p image.Point) { d.buttons.Click(p) }

func (d *NumberDialog) numberClick(b *display.Button) { d.Digit(b.Text) }

// Digit appends a digit, replacing a lone "0" or AUTO.
func (d *NumberDialog) Digit(s string) {
	if d.value == "0" || d.value == autoText {
		d.value = s
		return
	}
	d.value += s
}

// Decimal adds a decimal point if there is none yet. From AUTO it starts "0.".
func (d *NumberDialog) Decimal() {
	switch {
	case d.value == autoText:
		d.value = "0."
	case !strings.Contains(d.value, "."):
		d.value += "."
	}
}

// Delete drops the last character; a single character becomes "0". AUTO is
// left alone.
func (d *NumberDialog) Delete() {
	switch {
	case d.value == autoText:
	case len(d.value) > 1:
		d.value = d.value[:len(d.value)-1]
	default:
		d.value = "0"
	}
}

func (d *NumberDialog) Clear() { d.value = "0" }

func (d *NumberDialog) Auto() { d.value = autoText }

// Negate toggles a leading minus sign unless the value is AUTO.
func (d *NumberDialog) Negate() {
	switch {
	case d.value == autoText:
	case strings.HasPrefix(d.value, "-"):
		d.value = d.value[1:]
	default:
		d.value = "-" + d.value
	}
}

func (d *NumberDialog) Accept() {
	if d.accept != nil {
		d.accept(d.value)
	}
}

func (d *NumberDialog) Cancel() {
	if d.cancel != nil {
		d.cancel()
	}
}
