package face

import (
	"image/color"
	"strings"
	"testing"

	"tzface/faceos/zones"
	"tzface/hal"

	"tinygo.org/x/tinyfont/freesans"
)

type testFB struct {
	w, h     int
	buf      []byte
	presents int
}

func newTestFB(w, h int) *testFB {
	return &testFB{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *testFB) Width() int              { return f.w }
func (f *testFB) Height() int             { return f.h }
func (f *testFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *testFB) StrideBytes() int        { return f.w * 2 }
func (f *testFB) Buffer() []byte          { return f.buf }
func (f *testFB) Present() error          { f.presents++; return nil }

func (f *testFB) ClearRGB(r, g, b uint8) {
	p := rgb565(color.RGBA{R: r, G: g, B: b})
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = byte(p)
		f.buf[i+1] = byte(p >> 8)
	}
}

func (f *testFB) pixel(x, y int) uint16 {
	off := y*f.StrideBytes() + x*2
	return uint16(f.buf[off]) | uint16(f.buf[off+1])<<8
}

// countColor counts pixels of colour c inside r.
func (f *testFB) countColor(r rect, c color.RGBA) int {
	want := rgb565(c)
	n := 0
	for y := r.y; y < r.y+r.h; y++ {
		for x := r.x; x < r.x+r.w; x++ {
			if f.pixel(x, y) == want {
				n++
			}
		}
	}
	return n
}

func TestFillRectangleClips(t *testing.T) {
	fb := newTestFB(4, 4)
	d := &fbDisplay{fb: fb}
	if err := d.FillRectangle(-2, 2, 10, 10, white); err != nil {
		t.Fatalf("FillRectangle: %v", err)
	}
	if got := fb.countColor(rect{w: 4, h: 4}, white); got != 8 {
		t.Fatalf("white pixels=%d want 8", got)
	}
	if fb.pixel(0, 1) != 0 {
		t.Fatalf("row above the rectangle was painted")
	}
}

func TestSetPixelOutOfBounds(t *testing.T) {
	fb := newTestFB(2, 2)
	d := &fbDisplay{fb: fb}
	d.SetPixel(-1, 0, white)
	d.SetPixel(2, 0, white)
	d.SetPixel(0, 5, white)
	if got := fb.countColor(rect{w: 2, h: 2}, white); got != 0 {
		t.Fatalf("painted %d pixels", got)
	}
	d.SetPixel(1, 1, white)
	if fb.pixel(1, 1) != 0xFFFF {
		t.Fatalf("pixel=%#x", fb.pixel(1, 1))
	}
}

func TestTruncate(t *testing.T) {
	f := &freesans.Regular12pt7b
	full := "Los Angeles International"
	w := measure(f, "Los An").width + measure(f, ellipsis).width

	got := truncate(f, full, w)
	if !strings.HasSuffix(got, ellipsis) {
		t.Fatalf("truncate=%q, want trailing ellipsis", got)
	}
	if measure(f, got).width > w {
		t.Fatalf("truncate=%q is wider than %d", got, w)
	}
	if !strings.HasPrefix(full, strings.TrimSuffix(got, ellipsis)) {
		t.Fatalf("truncate=%q is not a prefix", got)
	}

	if got := truncate(f, "Oslo", 1000); got != "Oslo" {
		t.Fatalf("fitting name changed: %q", got)
	}
	if got := truncate(f, full, 1); got != "" {
		t.Fatalf("nothing should fit in 1px, got %q", got)
	}
}

func TestPickFontPrefersLargest(t *testing.T) {
	f, fits := pickFont(timeFonts, timeProbe, 1000, 1000)
	if !fits || f != timeFonts[0] {
		t.Fatalf("expected the largest font to fit")
	}

	small := measure(&freesans.Bold12pt7b, timeProbe)
	f, fits = pickFont(timeFonts, timeProbe, small.width, small.height())
	if !fits {
		t.Fatalf("Bold12 area should fit")
	}
	if got := measure(f, timeProbe); got.width > small.width || got.height() > small.height() {
		t.Fatalf("picked font overflows: %+v", got)
	}

	_, fits = pickFont(nameFonts, strings.Repeat("W", 200), 50, 1000)
	if fits {
		t.Fatalf("200 W's cannot fit in 50px")
	}
}

func TestLayoutPanels(t *testing.T) {
	names := [zones.Count]string{"New York", "London", "Mumbai", "Singapore"}
	panels, timeFont := layoutPanels(240, 320, names)
	if timeFont == nil {
		t.Fatalf("nil time font")
	}
	for i, p := range panels {
		if p.bg.y != i*80 || p.bg.h != 80 || p.bg.w != 240 {
			t.Fatalf("panel %d bg=%+v", i, p.bg)
		}
		if p.name.h+p.time.h != p.bg.h {
			t.Fatalf("panel %d split %d+%d", i, p.name.h, p.time.h)
		}
		if p.time.y != p.name.y+p.name.h {
			t.Fatalf("panel %d time area does not follow name", i)
		}
		if p.nameText != names[i] {
			t.Fatalf("panel %d name=%q", i, p.nameText)
		}
		if box := measure(p.nameFont, p.nameText); box.width > p.name.w || box.height() > p.name.h {
			t.Fatalf("panel %d name overflows: %+v in %+v", i, box, p.name)
		}
	}
}

func TestLayoutTruncatesLongNames(t *testing.T) {
	names := [zones.Count]string{"Llanfairpwllgwyngyll", "A", "B", "C"}
	panels, _ := layoutPanels(60, 160, names)
	p := panels[0]
	if !strings.HasSuffix(p.nameText, ellipsis) {
		t.Fatalf("name=%q, want ellipsis", p.nameText)
	}
	if box := measure(p.nameFont, p.nameText); box.width > p.name.w {
		t.Fatalf("name %q still too wide: %d > %d", p.nameText, box.width, p.name.w)
	}
}
