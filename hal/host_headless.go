//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Host  HostConfig
	Hz    int
	Ticks uint64
	// Snapshot, when set, is the path of a PNG written from the
	// framebuffer when the runner stops.
	Snapshot string
}

// RunHeadless runs the OS without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}

	h := newHost(cfg.Host)
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	err := runTicker(ctx, h, step, d, cfg.Ticks)
	if cfg.Snapshot != "" {
		waitPresent(h.fb, time.Second)
		if serr := WritePNG(h.fb, cfg.Snapshot); serr != nil {
			return errors.Join(err, serr)
		}
	}
	return err
}

func runTicker(ctx context.Context, h *hostHAL, step func() error, d time.Duration, limit uint64) error {
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.t.step(1)
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if limit > 0 && tick >= limit {
				return nil
			}
		}
	}
}

// waitPresent gives the face task a chance to draw its first frame
// when the runner stops after only a few ticks.
func waitPresent(fb *hostFramebuffer, max time.Duration) {
	deadline := time.Now().Add(max)
	for fb.presentCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
}
