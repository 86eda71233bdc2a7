// Package face is the four-zone world clock face. It keeps the zone table,
// recomputes it on every minute tick and redraws the panels that changed.
package face

import (
	"strconv"
	"strings"

	loggerclient "tzface/faceos/client/logger"
	tickclient "tzface/faceos/client/tick"
	"tzface/faceos/kernel"
	"tzface/faceos/proto"
	"tzface/faceos/zones"
	"tzface/hal"

	"tinygo.org/x/tinyfont"
)

const logRetries = 8

// Observer is told about ticks and redraws. Calls come from the face
// task's goroutine.
type Observer interface {
	MinuteTick(table zones.Table)
	PanelRedrawn(index int, zone zones.Zone)
}

// Options configures the face. The zero value shows the default cities in
// 24-hour style with the default night rule.
type Options struct {
	Locations *[zones.Count]zones.Location
	Style     zones.Style
	NightRule *zones.NightRule
	Observer  Observer
}

type Task struct {
	disp    hal.Display
	in      hal.Input
	ep      kernel.Capability
	tickCap kernel.Capability
	logCap  kernel.Capability

	table    zones.Table
	style    zones.Style
	rule     zones.NightRule
	observer Observer

	last    proto.TickTime
	hasTick bool
	dirty   [zones.Count]bool

	fb       hal.Framebuffer
	d        *fbDisplay
	panels   [zones.Count]panelLayout
	timeFont tinyfont.Fonter
}

// New returns the face task. ep must carry both send and receive rights:
// it is the task's own inbox and is handed to the tick service as the
// reply address.
func New(disp hal.Display, in hal.Input, ep, tickCap, logCap kernel.Capability, opts Options) *Task {
	locs := zones.Defaults()
	if opts.Locations != nil {
		locs = *opts.Locations
	}
	rule := zones.DefaultNightRule
	if opts.NightRule != nil {
		rule = *opts.NightRule
	}
	return &Task{
		disp:     disp,
		in:       in,
		ep:       ep,
		tickCap:  tickCap,
		logCap:   logCap,
		table:    zones.NewTable(locs),
		style:    opts.Style,
		rule:     rule,
		observer: opts.Observer,
	}
}

func (t *Task) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(t.ep)
	if !ok || t.disp == nil {
		return
	}
	t.fb = t.disp.Framebuffer()
	if t.fb == nil || t.fb.Format() != hal.PixelFormatRGB565 || t.fb.Buffer() == nil {
		_ = loggerclient.Logf(ctx, t.logCap, logRetries, "face: no usable framebuffer")
		return
	}
	t.d = &fbDisplay{fb: t.fb}

	var names [zones.Count]string
	for i, z := range t.table {
		names[i] = z.Name
	}
	t.panels, t.timeFont = layoutPanels(t.fb.Width(), t.fb.Height(), names)
	t.fb.ClearRGB(0, 0, 0)

	if err := tickclient.Subscribe(ctx, t.tickCap, t.ep, proto.UnitMinute); err != nil {
		_ = loggerclient.Logf(ctx, t.logCap, logRetries, "face: %v", err)
		return
	}

	var keys <-chan hal.KeyEvent
	if t.in != nil {
		if kbd := t.in.Keyboard(); kbd != nil {
			keys = kbd.Events()
		}
	}

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			t.handleMessage(ctx, msg)
		case ev, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			t.handleKey(ctx, ev)
		}
	}
}

func (t *Task) handleMessage(ctx *kernel.Context, msg kernel.Message) {
	switch proto.Kind(msg.Kind) {
	case proto.MsgTick, proto.MsgError:
		tt, err := tickclient.Decode(msg)
		if err != nil {
			_ = loggerclient.Logf(ctx, t.logCap, logRetries, "face: %v", err)
			return
		}
		t.onTick(ctx, tt)
	}
}

func (t *Task) handleKey(ctx *kernel.Context, ev hal.KeyEvent) {
	if !ev.Press || ev.Code != hal.KeyEnter {
		return
	}
	t.style = t.style.Toggle()
	_ = loggerclient.Logf(ctx, t.logCap, logRetries, "face: style %s", t.style)
	if !t.hasTick {
		return
	}
	t.recompute()
	t.redraw(ctx)
}

// onTick recomputes every zone from the new local time and redraws.
func (t *Task) onTick(ctx *kernel.Context, tt proto.TickTime) {
	t.last = tt
	t.hasTick = true
	t.recompute()
	if t.observer != nil {
		t.observer.MinuteTick(t.table)
	}
	_ = loggerclient.Logf(ctx, t.logCap, logRetries, "%s", tickLine(tt, t.table))
	t.redraw(ctx)
}

func (t *Task) recompute() {
	local := zones.WallClock{Hour: int(t.last.Hour), Minute: int(t.last.Minute)}
	t.table = t.table.Update(local, int(t.last.UTCOffsetMinutes), t.style, t.rule)
	for i := range t.dirty {
		t.dirty[i] = true
	}
}

func (t *Task) redraw(ctx *kernel.Context) {
	drawn := false
	for i := range t.dirty {
		if !t.dirty[i] {
			continue
		}
		t.drawPanel(i)
		t.dirty[i] = false
		drawn = true
		if t.observer != nil {
			t.observer.PanelRedrawn(i, t.table[i])
		}
	}
	if !drawn {
		return
	}
	if err := t.d.Display(); err != nil {
		_ = loggerclient.Logf(ctx, t.logCap, logRetries, "face: present: %v", err)
	}
}

// tickLine is the per-minute log line, e.g.
// "tick 12:00 +60 New York=06:00* London=11:00 ...", where * marks night.
func tickLine(tt proto.TickTime, table zones.Table) string {
	var b strings.Builder
	b.WriteString("tick ")
	b.WriteString(zones.Format(zones.WallClock{Hour: int(tt.Hour), Minute: int(tt.Minute)}, zones.Style24h))
	b.WriteByte(' ')
	if tt.UTCOffsetMinutes >= 0 {
		b.WriteByte('+')
	}
	b.WriteString(strconv.Itoa(int(tt.UTCOffsetMinutes)))
	for _, z := range table {
		b.WriteByte(' ')
		b.WriteString(z.Name)
		b.WriteByte('=')
		b.WriteString(z.Time)
		if z.Night {
			b.WriteByte('*')
		}
	}
	return b.String()
}
