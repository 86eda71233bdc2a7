//go:build !tinygo && epaper

package hal

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/devices/v3/waveshare2in13v4"
	"periph.io/x/host/v3"
)

// EPaperConfig controls the Waveshare 2.13" e-paper runner.
type EPaperConfig struct {
	Host HostConfig
	// SPI names the SPI port; empty selects the first one.
	SPI string
	Hz  int
}

// RunEPaper drives a Waveshare 2.13" V4 HAT on a Raspberry Pi. The
// framebuffer takes the panel's size; every Present pushes a full
// 1-bit frame and puts the panel back to sleep.
func RunEPaper(ctx context.Context, newApp func(HAL) func() error, cfg EPaperConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 10
	}
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("epaper host init: %w", err)
	}
	port, err := spireg.Open(cfg.SPI)
	if err != nil {
		return fmt.Errorf("epaper spi open: %w", err)
	}
	defer port.Close()

	opts := waveshare2in13v4.EPD2in13v4
	dev, err := waveshare2in13v4.NewHat(port, &opts)
	if err != nil {
		return fmt.Errorf("epaper hat: %w", err)
	}
	defer dev.Halt()

	if err := dev.Init(); err != nil {
		return fmt.Errorf("epaper init: %w", err)
	}
	if err := dev.Clear(color.White); err != nil {
		return fmt.Errorf("epaper clear: %w", err)
	}

	bounds := dev.Bounds()
	cfg.Host.Width, cfg.Host.Height = bounds.Dx(), bounds.Dy()
	h := newHost(cfg.Host)

	p := &epaperPanel{dev: dev, rgba: image.NewRGBA(bounds), bits: image1bit.NewVerticalLSB(bounds)}
	h.fb.onPresent = p.present
	step := newApp(h)

	return runTicker(ctx, h, step, time.Second/time.Duration(cfg.Hz), 0)
}

type epaperPanel struct {
	dev      *waveshare2in13v4.Dev
	rgba     *image.RGBA
	bits     *image1bit.VerticalLSB
	sleeping bool
}

func (p *epaperPanel) present(fb *hostFramebuffer) error {
	fb.snapshotRGBA(p.rgba)
	draw.Draw(p.bits, p.bits.Bounds(), p.rgba, image.Point{}, draw.Src)

	if p.sleeping {
		if err := p.dev.Init(); err != nil {
			return fmt.Errorf("epaper wake: %w", err)
		}
		p.sleeping = false
	}
	if err := p.dev.Draw(p.dev.Bounds(), p.bits, image.Point{}); err != nil {
		return fmt.Errorf("epaper draw: %w", err)
	}
	if err := p.dev.Sleep(); err != nil {
		return fmt.Errorf("epaper sleep: %w", err)
	}
	p.sleeping = true
	return nil
}
