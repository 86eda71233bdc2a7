//go:build tinygo && baremetal && picocalc

package hal

import (
	"errors"
	"machine"
	"time"
)

// ILI9488 commands used by the PicoCalc panel.
const (
	ili9488SLPOUT  = 0x11
	ili9488INVON   = 0x21
	ili9488DISPON  = 0x29
	ili9488CASET   = 0x2A
	ili9488PASET   = 0x2B
	ili9488RAMWR   = 0x2C
	ili9488MADCTL  = 0x36
	ili9488COLMOD  = 0x3A
	ili9488FRMCTR1 = 0xB1
	ili9488DISCTRL = 0xB6
	ili9488PWCTRL1 = 0xC0
	ili9488PWCTRL2 = 0xC1
	ili9488VMCTRL  = 0xC5

	// Rows pushed per SPI transfer.
	ili9488BandRows = 8
)

type ili9488Step struct {
	cmd   byte
	data  []byte
	delay time.Duration
}

// ili9488Init brings the panel up in 16bpp with the PicoCalc's mirrored,
// BGR, inverted wiring.
var ili9488Init = []ili9488Step{
	{cmd: ili9488PWCTRL1, data: []byte{0x17, 0x15}},
	{cmd: ili9488PWCTRL2, data: []byte{0x41}},
	{cmd: ili9488VMCTRL, data: []byte{0x00, 0x12, 0x80, 0x40}},
	{cmd: ili9488COLMOD, data: []byte{0x55}},
	{cmd: ili9488FRMCTR1, data: []byte{0xA0, 0x11}},
	{cmd: ili9488DISCTRL, data: []byte{0x02, 0x22, 0x27}},
	{cmd: ili9488INVON},
	{cmd: ili9488MADCTL, data: []byte{0x40 | 0x08 | 0x04}},
	{cmd: ili9488SLPOUT, delay: 120 * time.Millisecond},
	{cmd: ili9488DISPON},
}

type ili9488 struct {
	spi         *machine.SPI
	cs, dc, rst machine.Pin
	scratch     []byte
}

// initILI9488 configures SPI1 (SCK GP10, SDO GP11, SDI GP12) and the
// control pins CS GP13, DC GP14, RST GP15, then resets the panel.
func initILI9488() (*ili9488, error) {
	if machine.SPI1 == nil {
		return nil, errors.New("lcd: SPI1 unavailable")
	}
	if err := machine.SPI1.Configure(machine.SPIConfig{
		SCK:       machine.GP10,
		SDO:       machine.GP11,
		SDI:       machine.GP12,
		Frequency: 40_000_000,
	}); err != nil {
		return nil, err
	}

	d := &ili9488{
		spi:     machine.SPI1,
		cs:      machine.GP13,
		dc:      machine.GP14,
		rst:     machine.GP15,
		scratch: make([]byte, picoCalcWidth*ili9488BandRows*2),
	}
	for _, p := range []machine.Pin{d.cs, d.dc, d.rst} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.High()
	}

	d.rst.Low()
	time.Sleep(64 * time.Millisecond)
	d.rst.High()
	time.Sleep(140 * time.Millisecond)

	for _, s := range ili9488Init {
		d.command(s.cmd, s.data...)
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
	}
	return d, nil
}

func (d *ili9488) command(cmd byte, data ...byte) {
	d.cs.Low()
	d.dc.Low()
	d.spi.Tx([]byte{cmd}, nil)
	d.dc.High()
	if len(data) > 0 {
		d.spi.Tx(data, nil)
	}
	d.cs.High()
}

func (d *ili9488) window(x0, y0, x1, y1 int) {
	d.command(ili9488CASET, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1))
	d.command(ili9488PASET, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1))
	d.command(ili9488RAMWR)
}

// flush is the framebuffer's present hook: one RAMWR window per band.
func (d *ili9488) flush(buf []byte, w, h int) error {
	return blitBands(d.scratch, buf, w, h, func(y, rows int, px []byte) error {
		d.window(0, y, w-1, y+rows-1)
		d.cs.Low()
		d.dc.High()
		err := d.spi.Tx(px, nil)
		d.cs.High()
		return err
	})
}
