//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

type tinyGoDisplay struct {
	fb Framebuffer
}

func (d tinyGoDisplay) Framebuffer() Framebuffer { return d.fb }

type tinyGoInput struct {
	kbd Keyboard
}

func (in tinyGoInput) Keyboard() Keyboard { return in.kbd }

type tinyGoTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoTime() *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(1 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoTime) Ticks() <-chan uint64 { return t.ch }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func newConsoleUART() *machine.UART {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	return uart
}

// startUARTSync reads "T<unix> [offset]" lines from the console and
// sets rtc from them. Other input is ignored.
func startUARTSync(uart *machine.UART, rtc *syncRTC, log Logger) {
	go func() {
		var line [32]byte
		n := 0
		for {
			if uart.Buffered() == 0 {
				time.Sleep(10 * time.Millisecond)
				continue
			}
			c, err := uart.ReadByte()
			if err != nil {
				continue
			}
			if c != '\n' && c != '\r' {
				if n < len(line) {
					line[n] = c
					n++
				}
				continue
			}
			if n == 0 {
				continue
			}
			if err := rtc.Apply(string(line[:n])); err == nil {
				log.WriteLineString("rtc: synced " + rtc.Now().Format("2006-01-02 15:04 MST"))
			}
			n = 0
		}
	}()
}

type ramFramebuffer struct {
	w      int
	h      int
	stride int
	buf    []byte
	flush  func(buf []byte, w, h int) error
}

func newRAMFramebuffer(w, h int, flush func(buf []byte, w, h int) error) *ramFramebuffer {
	return &ramFramebuffer{w: w, h: h, stride: w * 2, buf: make([]byte, w*h*2), flush: flush}
}

func (f *ramFramebuffer) Width() int          { return f.w }
func (f *ramFramebuffer) Height() int         { return f.h }
func (f *ramFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *ramFramebuffer) StrideBytes() int    { return f.stride }
func (f *ramFramebuffer) Buffer() []byte      { return f.buf }

func (f *ramFramebuffer) ClearRGB(r, g, b uint8) {
	pixel := RGB565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

func (f *ramFramebuffer) Present() error {
	if f.flush == nil {
		return ErrNotImplemented
	}
	return f.flush(f.buf, f.w, f.h)
}

type stubKeyboard struct{}

func (k *stubKeyboard) Events() <-chan KeyEvent { return nil }

type tinyGoHAL struct {
	logger *uartLogger
	fb     Framebuffer
	kbd    Keyboard
	t      *tinyGoTime
	rtc    *syncRTC
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *tinyGoHAL) Input() Input     { return tinyGoInput{kbd: h.kbd} }
func (h *tinyGoHAL) Time() Time       { return h.t }
func (h *tinyGoHAL) RTC() RTC         { return h.rtc }
