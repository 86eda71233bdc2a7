//go:build !tinygo

package hal

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// WritePNG saves the current framebuffer contents as a PNG file.
func WritePNG(fb Framebuffer, path string) error {
	var img *image.RGBA
	if hf, ok := fb.(*hostFramebuffer); ok {
		img = image.NewRGBA(image.Rect(0, 0, hf.width, hf.height))
		hf.snapshotRGBA(img)
	} else {
		img = Image(fb)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot create: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("snapshot encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot close: %w", err)
	}
	return nil
}
