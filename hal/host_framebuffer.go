//go:build !tinygo

package hal

import (
	"image"
	"sync"
)

// hostFramebuffer is double buffered. The drawing task owns buf; Present
// copies it into front, which is all that readers on other goroutines see.
type hostFramebuffer struct {
	width  int
	height int
	stride int
	buf    []byte

	mu    sync.Mutex
	front []byte

	// onPresent pushes the buffer to a physical panel, if one is attached.
	onPresent func(*hostFramebuffer) error
	presents  uint64
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	stride := width * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
		front:  make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }

func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	copy(f.front, f.buf)
	f.presents++
	fn := f.onPresent
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(f)
}

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	pixel := RGB565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

// snapshotRGBA copies the last presented frame into dst.
func (f *hostFramebuffer) snapshotRGBA(dst *image.RGBA) {
	f.mu.Lock()
	defer f.mu.Unlock()
	convertRGB565(dst, f.front, f.width, f.height, f.stride)
}

func (f *hostFramebuffer) presentCount() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presents
}
