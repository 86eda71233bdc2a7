package hal

import "errors"

var errBlitBuffer = errors.New("blit: buffer too small")

// blitBands walks a little-endian RGB565 frame in bands of whole rows,
// copies each band into scratch in the big-endian order SPI panel
// controllers expect, and hands it to send with its first row and height.
func blitBands(scratch, buf []byte, w, h int, send func(y, rows int, px []byte) error) error {
	stride := w * 2
	bandRows := 0
	if stride > 0 {
		bandRows = len(scratch) / stride
	}
	if w <= 0 || h <= 0 || bandRows == 0 || len(buf) < stride*h {
		return errBlitBuffer
	}

	for y := 0; y < h; y += bandRows {
		rows := min(bandRows, h-y)
		src := buf[y*stride : (y+rows)*stride]
		dst := scratch[:len(src)]
		for i := 0; i+1 < len(src); i += 2 {
			dst[i], dst[i+1] = src[i+1], src[i]
		}
		if err := send(y, rows, dst); err != nil {
			return err
		}
	}
	return nil
}
