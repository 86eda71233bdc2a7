package hal

import "image"

// RGB565 packs an 8-bit-per-channel colour into the framebuffer pixel format.
func RGB565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

// SetPixel565 stores p at (x, y) in fb, ignoring coordinates outside it.
func SetPixel565(fb Framebuffer, x, y int, p uint16) {
	if x < 0 || x >= fb.Width() || y < 0 || y >= fb.Height() {
		return
	}
	buf := fb.Buffer()
	off := y*fb.StrideBytes() + x*2
	if off+1 >= len(buf) {
		return
	}
	buf[off] = byte(p)
	buf[off+1] = byte(p >> 8)
}

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// convertRGB565 expands a little-endian RGB565 buffer into dst.
func convertRGB565(dst *image.RGBA, src []byte, w, h, stride int) {
	for y := 0; y < h; y++ {
		row := src[y*stride:]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			r, g, b := rgb888From565(uint16(row[x*2]) | uint16(row[x*2+1])<<8)
			out[x*4+0] = r
			out[x*4+1] = g
			out[x*4+2] = b
			out[x*4+3] = 0xFF
		}
	}
}

// Image copies an RGB565 framebuffer into a new RGBA image.
func Image(fb Framebuffer) *image.RGBA {
	w, h := fb.Width(), fb.Height()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	buf := fb.Buffer()
	if fb.Format() != PixelFormatRGB565 || len(buf) < fb.StrideBytes()*h {
		return img
	}
	convertRGB565(img, buf, w, h, fb.StrideBytes())
	return img
}
