package display

import (
	"image"
	"image/color"
)

// Style is the look of a button. Each button keeps its own copy.
type Style struct {
	FG       color.RGBA
	BG       color.RGBA
	Border   color.RGBA
	Padding  int
	BorderPx int
	FontSize float64
}

type Button struct {
	Text  string
	Rect  image.Rectangle
	style Style
	click func(*Button)

	label    *image.RGBA
	labelPos image.Point
}

// NewButton lays out a button in r less the style padding, pre-rendering the
// label so drawing is a fill and a blit.
func NewButton(fonts *FontCache, r image.Rectangle, text string, st Style, click func(*Button)) *Button {
	b := &Button{
		Text:  text,
		Rect:  r.Inset(st.Padding),
		style: st,
		click: click,
	}
	b.label = fonts.Text(text, st.FontSize, st.FG, st.BG)
	b.labelPos = Align(b.label.Bounds(), b.Rect, AlignCenter, AlignCenter, 0, 0)
	return b
}

func (b *Button) Style() Style { return b.style }

func (b *Button) Render(c Canvas) {
	c.Fill(b.Rect, b.style.BG)
	StrokeRect(c, b.Rect, b.style.Border, b.style.BorderPx)
	c.Blit(b.label, b.label.Bounds(), b.labelPos)
}

// Contains includes the right and bottom edges.
func (b *Button) Contains(p image.Point) bool {
	return p.X >= b.Rect.Min.X && p.X <= b.Rect.Max.X &&
		p.Y >= b.Rect.Min.Y && p.Y <= b.Rect.Max.Y
}

// Click fires the handler if p is on the button.
func (b *Button) Click(p image.Point) bool {
	if b.click == nil || !b.Contains(p) {
		return false
	}
	b.click(b)
	return true
}

type buttonOpts struct {
	colspan int
	style   Style
}

type ButtonOption func(*buttonOpts)

func ColSpan(n int) ButtonOption { return func(o *buttonOpts) { o.colspan = n } }

func FontSize(size float64) ButtonOption {
	return func(o *buttonOpts) { o.style.FontSize = size }
}

func Background(c color.RGBA) ButtonOption {
	return func(o *buttonOpts) { o.style.BG = c }
}

// ButtonGrid places buttons on a grid of equal cells.
type ButtonGrid struct {
	ColSize int
	RowSize int

	fonts   *FontCache
	style   Style
	buttons []*Button
}

func NewButtonGrid(fonts *FontCache, st Style, width, height, cols, rows int) *ButtonGrid {
	return &ButtonGrid{
		ColSize: width / cols,
		RowSize: height / rows,
		fonts:   fonts,
		style:   st,
	}
}

// Add places a button with its top left cell at (col, row).
func (g *ButtonGrid) Add(col, row int, text string, click func(*Button), opts ...ButtonOption) *Button {
	o := buttonOpts{colspan: 1, style: g.style}
	for _, opt := range opts {
		opt(&o)
	}
	r := image.Rect(
		col*g.ColSize,
		row*g.RowSize,
		(col+o.colspan)*g.ColSize,
		(row+1)*g.RowSize)
	b := NewButton(g.fonts, r, text, o.style, click)
	g.buttons = append(g.buttons, b)
	return b
}

func (g *ButtonGrid) Buttons() []*Button { return g.buttons }

// Find returns the first button labeled text.
func (g *ButtonGrid) Find(text string) *Button {
	for _, b := range g.buttons {
		if b.Text == text {
			return b
		}
	}
	return nil
}

func (g *ButtonGrid) Render(c Canvas) {
	for _, b := range g.buttons {
		b.Render(c)
	}
}

// Click delivers p to the first button under it.
func (g *ButtonGrid) Click(p image.Point) bool {
	for _, b := range g.buttons {
		if b.Click(p) {
			return true
		}
	}
	return false
}
