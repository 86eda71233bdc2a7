package hal

import (
	"errors"
	"testing"
)

func TestBlitBands(t *testing.T) {
	const w, h = 3, 5
	buf := make([]byte, w*h*2)
	for i := range buf {
		buf[i] = byte(i)
	}

	type band struct{ y, rows int }
	var bands []band
	var out []byte
	err := blitBands(make([]byte, 2*w*2), buf, w, h, func(y, rows int, px []byte) error {
		bands = append(bands, band{y, rows})
		out = append(out, px...)
		return nil
	})
	if err != nil {
		t.Fatalf("blitBands error = %v", err)
	}

	want := []band{{0, 2}, {2, 2}, {4, 1}}
	if len(bands) != len(want) {
		t.Fatalf("bands = %v, want %v", bands, want)
	}
	for i := range want {
		if bands[i] != want[i] {
			t.Fatalf("bands = %v, want %v", bands, want)
		}
	}
	for i := 0; i < len(buf); i += 2 {
		if out[i] != buf[i+1] || out[i+1] != buf[i] {
			t.Fatalf("pixel at byte %d not swapped: %v", i, out[i:i+2])
		}
	}
}

func TestBlitBandsErrors(t *testing.T) {
	send := func(int, int, []byte) error { return nil }
	if err := blitBands(make([]byte, 2), make([]byte, 8), 2, 2, send); !errors.Is(err, errBlitBuffer) {
		t.Fatalf("scratch smaller than a row: err = %v", err)
	}
	if err := blitBands(make([]byte, 8), make([]byte, 6), 2, 2, send); !errors.Is(err, errBlitBuffer) {
		t.Fatalf("short frame: err = %v", err)
	}

	boom := errors.New("spi")
	err := blitBands(make([]byte, 4), make([]byte, 8), 2, 2, func(int, int, []byte) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("send error not returned: %v", err)
	}
}
