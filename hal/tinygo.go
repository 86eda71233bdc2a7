//go:build tinygo && baremetal && !picocalc

package hal

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/st7789"
)

const (
	lcdWidth  = 240
	lcdHeight = 240
	// Rows pushed per SPI transfer; bounds the byte-swap scratch buffer.
	lcdBandRows = 16
)

// New returns a HAL for a Pico with a Waveshare Pico-LCD-1.3 (ST7789,
// 240x240) on SPI1. Key A (GP15) acts as Enter.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1. Send "T<unix> <offset>"
// to set the clock.
func New() HAL {
	uart := newConsoleUART()
	logger := &uartLogger{uart: uart}

	machine.SPI1.Configure(machine.SPIConfig{
		Frequency: 40_000_000,
		SCK:       machine.GP10,
		SDO:       machine.GP11,
		Mode:      0,
	})
	lcd := st7789.New(machine.SPI1, machine.GP12, machine.GP8, machine.GP9, machine.GP13)
	lcd.Configure(st7789.Config{
		Width:      lcdWidth,
		Height:     lcdHeight,
		FrameRate:  st7789.FRAMERATE_60,
		VSyncLines: st7789.MAX_VSYNC_SCANLINES,
	})

	band := make([]byte, lcdWidth*lcdBandRows*2)
	flush := func(buf []byte, w, h int) error {
		return blitBands(band, buf, w, h, func(y, rows int, px []byte) error {
			return lcd.DrawRGBBitmap8(0, int16(y), px, int16(w), int16(rows))
		})
	}

	rtc := newSyncRTC(time.Now)
	startUARTSync(uart, rtc, logger)

	return &tinyGoHAL{
		logger: logger,
		fb:     newRAMFramebuffer(lcdWidth, lcdHeight, flush),
		kbd:    newButtonKeyboard(machine.GP15, KeyEnter),
		t:      newTinyGoTime(),
		rtc:    rtc,
	}
}

type buttonKeyboard struct {
	ch chan KeyEvent
}

func (k *buttonKeyboard) Events() <-chan KeyEvent { return k.ch }

// newButtonKeyboard polls an active-low button and reports it as code.
func newButtonKeyboard(pin machine.Pin, code KeyCode) *buttonKeyboard {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	k := &buttonKeyboard{ch: make(chan KeyEvent, 8)}
	go func() {
		down := false
		for {
			pressed := !pin.Get()
			if pressed != down {
				down = pressed
				select {
				case k.ch <- KeyEvent{Code: code, Press: pressed}:
				default:
				}
			}
			time.Sleep(20 * time.Millisecond)
		}
	}()
	return k
}
