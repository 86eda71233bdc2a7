//go:build tinygo && bootdebug

package app

import (
	"image/color"
	"sync"

	"tzface/faceos/tasks/face"
	"tzface/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var bootDiagOnce sync.Once

// bootScreen shows the current start-up step until the face takes over.
func bootScreen(h hal.HAL, msg string) {
	bootDiagSetStep(msg)
	if h == nil {
		return
	}
	bootDiagOnce.Do(func() { bootDiagStart(h) })
	disp := h.Display()
	if disp == nil {
		return
	}
	fb := disp.Framebuffer()
	if fb == nil {
		return
	}

	fb.ClearRGB(0, 0, 0)

	d := face.NewDisplay(fb)
	font := &proggy.TinySZ8pt7b

	fg := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	tinyfont.WriteLine(d, font, 0, 12, "tzface boot", fg)
	tinyfont.WriteLine(d, font, 0, 28, msg, fg)
	_ = fb.Present()
}
