package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"tzface/faceos/kernel"
	"tzface/faceos/tasks/face"
	"tzface/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var panicFont = &proggy.TinySZ8pt7b

func installPanicHandler(h hal.HAL) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		lines := panicLines(info)
		if l := h.Logger(); l != nil {
			for _, line := range lines {
				l.WriteLineString(line)
			}
		}

		if disp := h.Display(); disp != nil {
			if fb := disp.Framebuffer(); fb != nil && fb.Buffer() != nil {
				drawPanicScreen(fb, lines)
			}
		}
		select {}
	})
}

func panicLines(info kernel.PanicInfo) []string {
	lines := []string{
		"tzface panic",
		fmt.Sprintf("task: %d", info.TaskID),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// drawPanicScreen renders lines in red on white, wrapping long lines and
// stopping at the bottom of the screen.
func drawPanicScreen(fb hal.Framebuffer, lines []string) {
	fb.ClearRGB(0xFF, 0xFF, 0xFF)

	lineH := int16(panicFont.GetYAdvance())
	baseline := -int16(panicFont.GetGlyph('M').Info().YOffset)
	_, outbox := tinyfont.LineWidth(panicFont, "0")
	charW := int16(outbox)
	if lineH <= 0 || charW <= 0 {
		_ = fb.Present()
		return
	}

	d := face.NewDisplay(fb)
	fg := color.RGBA{R: 0xC0, A: 0xFF}
	cols := int16(fb.Width()) / charW
	if cols <= 0 {
		cols = 1
	}
	maxH := int16(fb.Height())

	y := int16(0)
	for _, line := range lines {
		for len(line) > 0 {
			if y+lineH > maxH {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, panicFont, 0, y+baseline, chunk, fg)
			y += lineH
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	i := 0
	for count := int16(0); i < len(s) && count < n; count++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i], s[i:]
}
