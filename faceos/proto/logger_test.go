package proto

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestLogLinePayload(t *testing.T) {
	tests := []struct {
		name string
		line string
		want int
	}{
		{"short", "tick 12:00", 10},
		{"exact", strings.Repeat("a", MaxLogLine), MaxLogLine},
		{"long", strings.Repeat("a", MaxLogLine+5), MaxLogLine},
		// "é" is two bytes; byte 128 would split the last one.
		{"rune boundary", "a" + strings.Repeat("é", 64), MaxLogLine - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogLinePayload(tt.line)
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			if !utf8.Valid(got) {
				t.Fatalf("payload is not valid UTF-8: %q", got)
			}
		})
	}
}

func TestErrorPayloadRoundTrip(t *testing.T) {
	code, ref, detail, ok := DecodeErrorPayload(ErrorPayload(ErrOverflow, MsgTickSubscribe, []byte("full")))
	if !ok || code != ErrOverflow || ref != MsgTickSubscribe || string(detail) != "full" {
		t.Fatalf("decoded %v %v %q %v", code, ref, detail, ok)
	}
	if _, _, _, ok := DecodeErrorPayload([]byte{1, 2, 3}); ok {
		t.Fatal("short payload decoded")
	}
}
