// Package zones holds the timezone clock table: a fixed set of named
// locations whose displayed time and day/night flag are recomputed from the
// local wall clock once per minute.
package zones

// Count is the number of locations on the face.
const Count = 4

// MinutesPerDay bounds the minute-of-day arithmetic.
const MinutesPerDay = 24 * 60

// Offsets accepted for a location, in minutes relative to UTC.
const (
	MinOffsetMinutes = -12 * 60
	MaxOffsetMinutes = 14 * 60
)

// Style selects the hour convention used when formatting.
type Style uint8

const (
	Style24h Style = iota
	Style12h
)

func (s Style) String() string {
	switch s {
	case Style24h:
		return "24h"
	case Style12h:
		return "12h"
	default:
		return "unknown"
	}
}

// Toggle returns the other style.
func (s Style) Toggle() Style {
	if s == Style12h {
		return Style24h
	}
	return Style12h
}

// Location is a named place with a fixed UTC offset.
type Location struct {
	Name          string
	OffsetMinutes int
}

// Defaults returns the stock four cities.
func Defaults() [Count]Location {
	return [Count]Location{
		{Name: "New York", OffsetMinutes: -5 * 60},
		{Name: "London", OffsetMinutes: 0},
		{Name: "Mumbai", OffsetMinutes: 5*60 + 30},
		{Name: "Singapore", OffsetMinutes: 8 * 60},
	}
}

// WallClock is a broken-down hour and minute.
type WallClock struct {
	Hour   int
	Minute int
}

// Convert shifts local, observed at localOffset minutes from UTC, into the
// zone at targetOffset. The result is normalized into [0,23]:[0,59]. The date
// never moves: crossing midnight only wraps the hour.
func Convert(local WallClock, localOffset, targetOffset int) WallClock {
	mod := (local.Hour*60 + local.Minute + targetOffset - localOffset) % MinutesPerDay
	if mod < 0 {
		mod += MinutesPerDay
	}
	return WallClock{Hour: mod / 60, Minute: mod % 60}
}

// FormattedLen is the length of every string produced by Format.
const FormattedLen = len("HH:MM")

// Format renders wc as zero-padded HH:MM. Style12h maps hours onto 01..12.
func Format(wc WallClock, style Style) string {
	h := wc.Hour
	if style == Style12h {
		h %= 12
		if h == 0 {
			h = 12
		}
	}
	var buf [FormattedLen]byte
	buf[0] = '0' + byte(h/10)
	buf[1] = '0' + byte(h%10)
	buf[2] = ':'
	buf[3] = '0' + byte(wc.Minute/10)
	buf[4] = '0' + byte(wc.Minute%10)
	return string(buf[:])
}

// NightRule classifies an hour as day or night. Day is the inclusive range
// [DawnHour, DuskHour]; every other hour is night.
type NightRule struct {
	DawnHour int
	DuskHour int
}

// DefaultNightRule is night from 19:00 through 06:59, so the shading never
// contradicts a 12-hour reading.
var DefaultNightRule = NightRule{DawnHour: 7, DuskHour: 18}

// IsNight reports whether hour falls outside the day range.
func (r NightRule) IsNight(hour int) bool {
	return hour > r.DuskHour || hour < r.DawnHour
}

// Zone is one row of the table.
type Zone struct {
	Name          string
	OffsetMinutes int

	// Time and Night are derived from the local clock by Table.Update.
	Time  string
	Night bool
}

// Table is the fixed set of zones shown on the face.
type Table [Count]Zone

// NewTable builds a table from locations. Derived fields are empty until the
// first Update.
func NewTable(locs [Count]Location) Table {
	var t Table
	for i, l := range locs {
		t[i] = Zone{Name: l.Name, OffsetMinutes: l.OffsetMinutes}
	}
	return t
}

// Update recomputes every zone from the local wall clock and returns the new
// table. Names and offsets are carried over unchanged.
func (t Table) Update(local WallClock, localOffset int, style Style, rule NightRule) Table {
	for i := range t {
		wc := Convert(local, localOffset, t[i].OffsetMinutes)
		t[i].Time = Format(wc, style)
		t[i].Night = rule.IsNight(wc.Hour)
	}
	return t
}

// Locations returns the static part of the table.
func (t Table) Locations() [Count]Location {
	var locs [Count]Location
	for i, z := range t {
		locs[i] = Location{Name: z.Name, OffsetMinutes: z.OffsetMinutes}
	}
	return locs
}
