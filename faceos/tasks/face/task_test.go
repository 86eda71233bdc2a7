package face

import (
	"strings"
	"sync"
	"testing"
	"time"

	"tzface/faceos/kernel"
	"tzface/faceos/proto"
	ticksvc "tzface/faceos/services/tick"
	"tzface/faceos/zones"
	"tzface/hal"
)

type testDisplay struct{ fb hal.Framebuffer }

func (d testDisplay) Framebuffer() hal.Framebuffer { return d.fb }

type testKeyboard struct{ ch chan hal.KeyEvent }

func (k testKeyboard) Events() <-chan hal.KeyEvent { return k.ch }

type testInput struct{ kbd testKeyboard }

func (in testInput) Keyboard() hal.Keyboard { return in.kbd }

type fakeRTC struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeRTC) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeRTC) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type redraw struct {
	index int
	zone  zones.Zone
}

type recorder struct {
	ticks   chan zones.Table
	redrawn chan redraw
}

func newRecorder() *recorder {
	return &recorder{ticks: make(chan zones.Table, 16), redrawn: make(chan redraw, 64)}
}

func (r *recorder) MinuteTick(table zones.Table) { r.ticks <- table }
func (r *recorder) PanelRedrawn(index int, zone zones.Zone) {
	r.redrawn <- redraw{index: index, zone: zone}
}

// frame waits for one full redraw of all panels.
func (r *recorder) frame(t *testing.T) [zones.Count]zones.Zone {
	t.Helper()
	var out [zones.Count]zones.Zone
	for i := 0; i < zones.Count; i++ {
		select {
		case rd := <-r.redrawn:
			out[rd.index] = rd.zone
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for panel redraw %d", i)
		}
	}
	return out
}

type faceHarness struct {
	k    *kernel.Kernel
	rtc  *fakeRTC
	fb   *testFB
	keys chan hal.KeyEvent
	rec  *recorder
	seq  uint64
}

func startFace(t *testing.T, now time.Time, opts Options) *faceHarness {
	t.Helper()
	h := &faceHarness{
		k:    kernel.New(),
		rtc:  &fakeRTC{now: now},
		fb:   newTestFB(120, 160),
		keys: make(chan hal.KeyEvent, 4),
		rec:  newRecorder(),
	}
	opts.Observer = h.rec

	tickEP := h.k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	if _, err := h.k.AddTask(ticksvc.New(h.rtc, tickEP.Restrict(kernel.RightRecv))); err != nil {
		t.Fatalf("AddTask(tick) error = %v", err)
	}
	faceEP := h.k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	task := New(testDisplay{fb: h.fb}, testInput{kbd: testKeyboard{ch: h.keys}}, faceEP, tickEP.Restrict(kernel.RightSend), kernel.Capability{}, opts)
	if _, err := h.k.AddTask(task); err != nil {
		t.Fatalf("AddTask(face) error = %v", err)
	}
	return h
}

func (h *faceHarness) advance(now time.Time) {
	h.rtc.Set(now)
	h.seq++
	h.k.TickTo(h.seq)
}

func TestStartupDrawsAllPanels(t *testing.T) {
	cet := time.FixedZone("CET", 60*60)
	h := startFace(t, time.Date(2024, 3, 1, 12, 0, 0, 0, cet), Options{})

	got := h.rec.frame(t)
	want := [zones.Count]struct {
		time  string
		night bool
	}{
		{"06:00", true},
		{"11:00", false},
		{"16:30", false},
		{"19:00", true},
	}
	for i, w := range want {
		if got[i].Time != w.time || got[i].Night != w.night {
			t.Fatalf("panel %d = %s night=%v, want %s night=%v", i, got[i].Time, got[i].Night, w.time, w.night)
		}
	}

	select {
	case table := <-h.rec.ticks:
		if table[0].Name != "New York" {
			t.Fatalf("observer table[0]=%q", table[0].Name)
		}
	case <-time.After(time.Second):
		t.Fatal("observer missed the startup tick")
	}

	const panelH = 40
	for i, w := range want {
		bg := rect{x: 0, y: i * panelH, w: h.fb.w, h: panelH}
		fg, bgColor := panelColors(w.night)
		if px := h.fb.pixel(0, bg.y); px != rgb565(bgColor) {
			t.Fatalf("panel %d background=%#x", i, px)
		}
		if n := h.fb.countColor(bg, fg); n == 0 {
			t.Fatalf("panel %d has no text pixels", i)
		}
	}
}

func TestMinuteTickRecomputes(t *testing.T) {
	start := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	h := startFace(t, start, Options{})
	first := h.rec.frame(t)
	if first[1].Time != "23:59" {
		t.Fatalf("London=%s", first[1].Time)
	}

	h.advance(start.Add(30 * time.Second))
	h.advance(start.Add(time.Minute))
	next := h.rec.frame(t)
	want := []string{"19:00", "00:00", "05:30", "08:00"}
	for i, w := range want {
		if next[i].Time != w {
			t.Fatalf("panel %d = %s, want %s", i, next[i].Time, w)
		}
	}
	if !next[1].Night {
		t.Fatalf("London at midnight should be night")
	}

	select {
	case rd := <-h.rec.redrawn:
		t.Fatalf("unexpected extra redraw of panel %d", rd.index)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEnterTogglesStyle(t *testing.T) {
	h := startFace(t, time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC), Options{})
	before := h.rec.frame(t)
	if before[0].Time != "15:00" || before[1].Time != "20:00" {
		t.Fatalf("24h frame = %s %s", before[0].Time, before[1].Time)
	}

	h.keys <- hal.KeyEvent{Code: hal.KeyEnter, Press: true}
	after := h.rec.frame(t)
	if after[0].Time != "03:00" || after[1].Time != "08:00" {
		t.Fatalf("12h frame = %s %s", after[0].Time, after[1].Time)
	}
	if after[0].Night != before[0].Night || after[1].Night != before[1].Night {
		t.Fatalf("style change altered night flags")
	}

	// Releases and other keys are ignored.
	h.keys <- hal.KeyEvent{Code: hal.KeyEnter, Press: false}
	h.keys <- hal.KeyEvent{Code: hal.KeyUp, Press: true}
	select {
	case rd := <-h.rec.redrawn:
		t.Fatalf("unexpected redraw of panel %d", rd.index)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCustomLocationsAndRule(t *testing.T) {
	locs := [zones.Count]zones.Location{
		{Name: "Auckland", OffsetMinutes: 13 * 60},
		{Name: "Anchorage", OffsetMinutes: -9 * 60},
		{Name: "Kathmandu", OffsetMinutes: 5*60 + 45},
		{Name: "Reykjavik", OffsetMinutes: 0},
	}
	rule := zones.NightRule{DawnHour: 6, DuskHour: 20}
	h := startFace(t, time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC), Options{
		Locations: &locs,
		NightRule: &rule,
		Style:     zones.Style12h,
	})

	got := h.rec.frame(t)
	want := []struct {
		time  string
		night bool
	}{
		{"06:00", false}, // 18:00
		{"08:00", false}, // 20:00, dusk hour is still day
		{"10:45", false},
		{"05:00", true},
	}
	for i, w := range want {
		if got[i].Time != w.time || got[i].Night != w.night {
			t.Fatalf("panel %d = %s night=%v, want %s night=%v", i, got[i].Time, got[i].Night, w.time, w.night)
		}
	}
}

func TestTickLine(t *testing.T) {
	table := zones.NewTable(zones.Defaults()).Update(zones.WallClock{Hour: 12}, 60, zones.Style24h, zones.DefaultNightRule)
	line := tickLine(proto.TickTime{Hour: 12, UTCOffsetMinutes: 60}, table)
	want := "tick 12:00 +60 New York=06:00* London=11:00 Mumbai=16:30 Singapore=19:00*"
	if line != want {
		t.Fatalf("tickLine=%q\nwant      %q", line, want)
	}
	if len(line) > kernel.MaxMessageBytes {
		t.Fatalf("tick line exceeds a message")
	}
	if neg := tickLine(proto.TickTime{Hour: 1, UTCOffsetMinutes: -300}, table); !strings.HasPrefix(neg, "tick 01:00 -300 ") {
		t.Fatalf("negative offset line=%q", neg)
	}
}
