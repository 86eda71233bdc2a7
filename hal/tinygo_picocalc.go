//go:build tinygo && baremetal && picocalc

package hal

import "time"

const (
	picoCalcWidth  = 320
	picoCalcHeight = 320
)

// New returns a PicoCalc HAL implementation (Pico/Pico2 on the PicoCalc carrier).
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1. Send "T<unix> <offset>"
// to set the clock.
func New() HAL {
	uart := newConsoleUART()
	logger := &uartLogger{uart: uart}

	var flush func(buf []byte, w, h int) error
	if lcd, err := initILI9488(); err == nil {
		flush = lcd.flush
	} else {
		logger.WriteLineString("lcd: " + err.Error())
	}

	var kbd Keyboard = &stubKeyboard{}
	if kb, err := newPicoCalcKeyboard(); err == nil {
		kbd = kb
	} else {
		logger.WriteLineString(err.Error())
	}

	rtc := newSyncRTC(time.Now)
	startUARTSync(uart, rtc, logger)

	return &tinyGoHAL{
		logger: logger,
		fb:     newRAMFramebuffer(picoCalcWidth, picoCalcHeight, flush),
		kbd:    kbd,
		t:      newTinyGoTime(),
		rtc:    rtc,
	}
}
