package hal

import (
	"testing"
	"time"
)

type fixedRTC time.Time

func (r fixedRTC) Now() time.Time { return time.Time(r) }

func TestWithOffset(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		offset   int
		wantHour int
		wantMin  int
		wantName string
	}{
		{offset: 0, wantHour: 12, wantMin: 0, wantName: "UTC+00:00"},
		{offset: 60, wantHour: 13, wantMin: 0, wantName: "UTC+01:00"},
		{offset: -300, wantHour: 7, wantMin: 0, wantName: "UTC-05:00"},
		{offset: 330, wantHour: 17, wantMin: 30, wantName: "UTC+05:30"},
	}
	for _, tc := range cases {
		now := WithOffset(fixedRTC(at), tc.offset).Now()
		if now.Hour() != tc.wantHour || now.Minute() != tc.wantMin {
			t.Fatalf("offset %d: got %02d:%02d want %02d:%02d", tc.offset, now.Hour(), now.Minute(), tc.wantHour, tc.wantMin)
		}
		if name, off := now.Zone(); name != tc.wantName || off != tc.offset*60 {
			t.Fatalf("offset %d: zone=%q/%d", tc.offset, name, off)
		}
		if !now.Equal(at) {
			t.Fatalf("offset %d: instant changed", tc.offset)
		}
	}
}

func TestParseSyncLine(t *testing.T) {
	cases := []struct {
		line   string
		unix   int64
		offset int
		ok     bool
	}{
		{line: "T1700000000", unix: 1700000000, ok: true},
		{line: "T1700000000 330\r\n", unix: 1700000000, offset: 330, ok: true},
		{line: "  T0 -300 ", unix: 0, offset: -300, ok: true},
		{line: "T", ok: false},
		{line: "1700000000", ok: false},
		{line: "Tabc", ok: false},
		{line: "T-5", ok: false},
		{line: "T10 900", ok: false},
		{line: "T10 60 extra", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			unix, offset, ok := parseSyncLine(tc.line)
			if ok != tc.ok {
				t.Fatalf("ok=%v want %v", ok, tc.ok)
			}
			if ok && (unix != tc.unix || offset != tc.offset) {
				t.Fatalf("got (%d,%d) want (%d,%d)", unix, offset, tc.unix, tc.offset)
			}
		})
	}
}

func TestSyncRTCApply(t *testing.T) {
	boot := time.Unix(0, 0)
	r := newSyncRTC(func() time.Time { return boot })

	if got := r.Now(); !got.Equal(boot) {
		t.Fatalf("before sync: %v", got)
	}
	if err := r.Apply("nonsense"); err == nil {
		t.Fatalf("expected error for bad line")
	}
	if err := r.Apply("T1700000000 60"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got := r.Now()
	if got.Unix() != 1700000000 {
		t.Fatalf("unix=%d", got.Unix())
	}
	if _, off := got.Zone(); off != 3600 {
		t.Fatalf("zone offset=%d", off)
	}
}
