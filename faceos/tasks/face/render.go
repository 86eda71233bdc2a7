package face

import (
	"image/color"

	"tzface/faceos/zones"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	ellipsis  = "..."
	marginX   = 2
	timeProbe = "00:00"
)

var (
	black = color.RGBA{A: 0xFF}
	white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Largest first. proggy is the last resort for very small panels.
var (
	nameFonts = []tinyfont.Fonter{
		&freesans.Regular18pt7b,
		&freesans.Regular12pt7b,
		&freesans.Regular9pt7b,
		&proggy.TinySZ8pt7b,
	}
	timeFonts = []tinyfont.Fonter{
		&freesans.Bold24pt7b,
		&freesans.Bold18pt7b,
		&freesans.Bold12pt7b,
		&freesans.Bold9pt7b,
		&proggy.TinySZ8pt7b,
	}
)

// rect is a pixel area; y grows downwards.
type rect struct {
	x, y, w, h int
}

type panelLayout struct {
	bg   rect
	name rect
	time rect

	nameFont tinyfont.Fonter
	nameText string
}

// textBox is the ink extent of a string relative to its baseline.
type textBox struct {
	width  int
	top    int
	bottom int
}

func (b textBox) height() int { return b.bottom - b.top }

func measure(f tinyfont.Fonter, s string) textBox {
	_, outbox := tinyfont.LineWidth(f, s)
	box := textBox{width: int(outbox)}
	first := true
	for _, r := range s {
		info := f.GetGlyph(r).Info()
		if info.Height == 0 {
			continue
		}
		top := int(info.YOffset)
		bottom := top + int(info.Height)
		if first || top < box.top {
			box.top = top
		}
		if first || bottom > box.bottom {
			box.bottom = bottom
		}
		first = false
	}
	return box
}

// pickFont returns the first font in fonts (largest first) that fits s
// inside w x h. When s is too wide for every font that is short enough,
// the tallest such font is returned with fits=false.
func pickFont(fonts []tinyfont.Fonter, s string, w, h int) (f tinyfont.Fonter, fits bool) {
	var tallest tinyfont.Fonter
	for _, cand := range fonts {
		box := measure(cand, s)
		if box.height() > h {
			continue
		}
		if box.width <= w {
			return cand, true
		}
		if tallest == nil {
			tallest = cand
		}
	}
	if tallest == nil {
		tallest = fonts[len(fonts)-1]
	}
	return tallest, false
}

// truncate shortens s until it fits w, ending it with an ellipsis.
func truncate(f tinyfont.Fonter, s string, w int) string {
	if measure(f, s).width <= w {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		cand := string(runes[:n]) + ellipsis
		if measure(f, cand).width <= w {
			return cand
		}
	}
	if measure(f, ellipsis).width <= w {
		return ellipsis
	}
	return ""
}

// layoutPanels splits the screen into one horizontal band per zone:
// the name takes the top third, the time the rest.
func layoutPanels(w, h int, names [zones.Count]string) ([zones.Count]panelLayout, tinyfont.Fonter) {
	var out [zones.Count]panelLayout
	panelH := h / zones.Count
	nameH := panelH / 3
	innerW := w - 2*marginX

	for i := range out {
		y := i * panelH
		p := &out[i]
		p.bg = rect{x: 0, y: y, w: w, h: panelH}
		p.name = rect{x: marginX, y: y, w: innerW, h: nameH}
		p.time = rect{x: marginX, y: y + nameH, w: innerW, h: panelH - nameH}

		font, fits := pickFont(nameFonts, names[i], innerW, nameH)
		p.nameFont = font
		p.nameText = names[i]
		if !fits {
			p.nameText = truncate(font, names[i], innerW)
		}
	}

	timeFont, _ := pickFont(timeFonts, timeProbe, innerW, panelH-nameH)
	return out, timeFont
}

func panelColors(night bool) (fg, bg color.RGBA) {
	if night {
		return white, black
	}
	return black, white
}

func drawCentered(d *fbDisplay, f tinyfont.Fonter, s string, area rect, fg color.RGBA) {
	if s == "" {
		return
	}
	box := measure(f, s)
	x := area.x + (area.w-box.width)/2
	baseline := area.y + (area.h-box.height())/2 - box.top
	tinyfont.WriteLine(d, f, int16(x), int16(baseline), s, fg)
}

func (t *Task) drawPanel(i int) {
	p := &t.panels[i]
	z := t.table[i]
	fg, bg := panelColors(z.Night)

	_ = t.d.FillRectangle(int16(p.bg.x), int16(p.bg.y), int16(p.bg.w), int16(p.bg.h), bg)
	drawCentered(t.d, p.nameFont, p.nameText, p.name, fg)
	drawCentered(t.d, t.timeFont, z.Time, p.time, fg)
}
