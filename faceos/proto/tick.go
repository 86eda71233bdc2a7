package proto

import (
	"encoding/binary"
	"time"
)

// Units is a bitmask of calendar units that changed since the previous tick.
type Units uint8

const (
	UnitMinute Units = 1 << iota
	UnitHour
	UnitDay
)

// UnitsAll is reported on the first tick after subscribing.
const UnitsAll = UnitMinute | UnitHour | UnitDay

// TickTime is a broken-down local time as delivered to tick subscribers.
type TickTime struct {
	Year    uint16
	Month   uint8
	Day     uint8
	Hour    uint8
	Minute  uint8
	Second  uint8
	Weekday uint8

	// UTCOffsetMinutes is the local zone's offset from UTC.
	UTCOffsetMinutes int16

	Units Units
}

// TickTimeFrom breaks t down in its own location.
func TickTimeFrom(t time.Time, units Units) TickTime {
	_, off := t.Zone()
	return TickTime{
		Year:             uint16(t.Year()),
		Month:            uint8(t.Month()),
		Day:              uint8(t.Day()),
		Hour:             uint8(t.Hour()),
		Minute:           uint8(t.Minute()),
		Second:           uint8(t.Second()),
		Weekday:          uint8(t.Weekday()),
		UTCOffsetMinutes: int16(off / 60),
		Units:            units,
	}
}

// ChangedUnits compares two minute-resolution readings.
func ChangedUnits(prev, next TickTime) Units {
	var u Units
	if prev.Minute != next.Minute || prev.Hour != next.Hour ||
		prev.Day != next.Day || prev.Month != next.Month || prev.Year != next.Year {
		u |= UnitMinute
	}
	if prev.Hour != next.Hour || prev.Day != next.Day || prev.Month != next.Month || prev.Year != next.Year {
		u |= UnitHour
	}
	if prev.Day != next.Day || prev.Month != next.Month || prev.Year != next.Year {
		u |= UnitDay
	}
	return u
}

const tickPayloadLen = 12

// TickPayload encodes a MsgTick payload.
//
// Layout (little-endian):
//   - u16: year
//   - u8: month, day, hour, minute, second, weekday
//   - i16: UTC offset in minutes
//   - u8: changed units
//   - u8: reserved
func TickPayload(tt TickTime) []byte {
	buf := make([]byte, tickPayloadLen)
	binary.LittleEndian.PutUint16(buf[0:2], tt.Year)
	buf[2] = tt.Month
	buf[3] = tt.Day
	buf[4] = tt.Hour
	buf[5] = tt.Minute
	buf[6] = tt.Second
	buf[7] = tt.Weekday
	binary.LittleEndian.PutUint16(buf[8:10], uint16(tt.UTCOffsetMinutes))
	buf[10] = uint8(tt.Units)
	return buf
}

// DecodeTickPayload decodes a TickPayload.
func DecodeTickPayload(payload []byte) (TickTime, bool) {
	if len(payload) < tickPayloadLen {
		return TickTime{}, false
	}
	tt := TickTime{
		Year:             binary.LittleEndian.Uint16(payload[0:2]),
		Month:            payload[2],
		Day:              payload[3],
		Hour:             payload[4],
		Minute:           payload[5],
		Second:           payload[6],
		Weekday:          payload[7],
		UTCOffsetMinutes: int16(binary.LittleEndian.Uint16(payload[8:10])),
		Units:            Units(payload[10]),
	}
	if tt.Hour > 23 || tt.Minute > 59 {
		return TickTime{}, false
	}
	return tt, true
}

// TickSubscribePayload encodes a MsgTickSubscribe payload.
//
// Layout:
//   - u8: unit mask the subscriber wants to be woken for
func TickSubscribePayload(units Units) []byte {
	return []byte{uint8(units)}
}

// DecodeTickSubscribePayload decodes a TickSubscribePayload.
func DecodeTickSubscribePayload(payload []byte) (Units, bool) {
	if len(payload) < 1 || payload[0] == 0 {
		return 0, false
	}
	return Units(payload[0]), true
}
