//go:build tinygo && baremetal && picocalc

package hal

import (
	"errors"
	"machine"
	"time"
)

const (
	picoCalcKbdAddr uint16 = 0x1F
	picoCalcKbdCmd         = 0x09
)

const (
	picoCalcKeyEsc  byte = 0xB1
	picoCalcKeyUp   byte = 0xB5
	picoCalcKeyDown byte = 0xB6
)

const (
	picoCalcEventDown byte = 0x01
	picoCalcEventUp   byte = 0x03
)

type i2cKeyboard struct {
	i2c   *machine.I2C
	write [1]byte
	read  [2]byte
}

func initI2CKeyboard() (*i2cKeyboard, error) {
	write := [1]byte{picoCalcKbdCmd}

	// Prefer I2C1 (original PicoCalc wiring), but some TinyGo targets expose only I2C0.
	for _, bus := range []*machine.I2C{machine.I2C1, machine.I2C0} {
		if bus == nil {
			continue
		}
		for _, freq := range []uint32{100_000, 400_000} {
			if err := bus.Configure(machine.I2CConfig{
				SCL:       machine.GP7,
				SDA:       machine.GP6,
				Frequency: freq,
			}); err != nil {
				continue
			}

			k := &i2cKeyboard{i2c: bus, write: write}

			// The keyboard MCU can be slow to answer right after power-on.
			const probeTries = 50
			for i := 0; i < probeTries; i++ {
				if err := k.i2c.Tx(picoCalcKbdAddr, k.write[:], k.read[:]); err == nil {
					return k, nil
				}
				time.Sleep(10 * time.Millisecond)
			}
		}
	}

	return nil, errors.New("keyboard: I2C unavailable")
}

func (k *i2cKeyboard) readEvent() (KeyEvent, bool) {
	if err := k.i2c.Tx(picoCalcKbdAddr, k.write[:], k.read[:]); err != nil {
		return KeyEvent{}, false
	}
	switch k.read[0] {
	case picoCalcEventDown:
		return translatePicoCalcKey(k.read[1], true)
	case picoCalcEventUp:
		return translatePicoCalcKey(k.read[1], false)
	default:
		// Held keys and empty reads.
		return KeyEvent{}, false
	}
}

func translatePicoCalcKey(code byte, press bool) (KeyEvent, bool) {
	switch code {
	case '\r', '\n', ' ':
		return KeyEvent{Code: KeyEnter, Press: press}, true
	case picoCalcKeyEsc:
		return KeyEvent{Code: KeyEscape, Press: press}, true
	case picoCalcKeyUp:
		return KeyEvent{Code: KeyUp, Press: press}, true
	case picoCalcKeyDown:
		return KeyEvent{Code: KeyDown, Press: press}, true
	case 0:
		return KeyEvent{}, false
	}
	if !press || code >= 0x80 {
		return KeyEvent{}, false
	}
	return KeyEvent{Press: true, Rune: rune(code)}, true
}

type picoCalcKeyboard struct {
	ch chan KeyEvent
}

func (k *picoCalcKeyboard) Events() <-chan KeyEvent { return k.ch }

func newPicoCalcKeyboard() (*picoCalcKeyboard, error) {
	kbd, err := initI2CKeyboard()
	if err != nil {
		return nil, err
	}

	dev := &picoCalcKeyboard{ch: make(chan KeyEvent, 16)}
	go func() {
		for {
			if ev, ok := kbd.readEvent(); ok {
				select {
				case dev.ch <- ev:
				default:
				}
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()
	return dev, nil
}
