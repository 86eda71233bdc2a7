//go:build !tinygo

package face

import (
	"path/filepath"
	"testing"
	"time"

	"tzface/faceos/kernel"
	ticksvc "tzface/faceos/services/tick"
	"tzface/hal"
)

// The host window reads the framebuffer on its own goroutine every frame.
// Run with -race.
func TestRedrawWhileHostSnapshots(t *testing.T) {
	host := hal.New(hal.HostConfig{Width: 120, Height: 160})
	fb := host.Display().Framebuffer()

	k := kernel.New()
	rtc := &fakeRTC{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	rec := newRecorder()

	tickEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	if _, err := k.AddTask(ticksvc.New(rtc, tickEP.Restrict(kernel.RightRecv))); err != nil {
		t.Fatalf("AddTask(tick) error = %v", err)
	}
	faceEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	task := New(host.Display(), nil, faceEP, tickEP.Restrict(kernel.RightSend), kernel.Capability{}, Options{Observer: rec})
	if _, err := k.AddTask(task); err != nil {
		t.Fatalf("AddTask(face) error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	stop := make(chan struct{})
	readerDone := make(chan error, 1)
	go func() {
		for {
			select {
			case <-stop:
				readerDone <- nil
				return
			default:
			}
			if err := hal.WritePNG(fb, path); err != nil {
				readerDone <- err
				return
			}
		}
	}()

	rec.frame(t)
	start := rtc.Now()
	for i := 1; i <= 5; i++ {
		rtc.Set(start.Add(time.Duration(i) * time.Minute))
		k.TickTo(uint64(i))
		rec.frame(t)
	}

	close(stop)
	if err := <-readerDone; err != nil {
		t.Fatalf("WritePNG error = %v", err)
	}
}
