package app

import (
	"fmt"

	"tzface/faceos/kernel"
	logsvc "tzface/faceos/services/logger"
	ticksvc "tzface/faceos/services/tick"
	"tzface/faceos/tasks/face"
	"tzface/faceos/zones"
	"tzface/hal"
)

type system struct {
	k *kernel.Kernel
}

// Config customizes the face. The zero value runs the default cities in
// 24-hour style, in the zone reported by the HAL clock.
type Config struct {
	Locations *[zones.Count]zones.Location
	// LocalOffsetMinutes pins the local zone instead of trusting the RTC.
	LocalOffsetMinutes *int
	Style              zones.Style
	NightRule          *zones.NightRule
	Observer           face.Observer
}

// New initializes and starts the OS with default config.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{})
}

// Run starts the OS and blocks forever (TinyGo/native entrypoint).
func Run(h hal.HAL) {
	RunWithConfig(h, Config{})
}

// NewWithConfig starts the OS and returns the host runner's step function.
// A start-up failure is reported by every call of the step function.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	_, err := newSystem(h, cfg)
	return func() error { return err }
}

func RunWithConfig(h hal.HAL, cfg Config) {
	if err := NewWithConfig(h, cfg)(); err != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString("start: " + err.Error())
		}
	}
	select {}
}

func newSystem(h hal.HAL, cfg Config) (*system, error) {
	installPanicHandler(h)
	bootScreen(h, "kernel")

	k := kernel.New()

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	tickEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	faceEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	if !logEP.Valid() || !tickEP.Valid() || !faceEP.Valid() {
		return nil, fmt.Errorf("start: out of endpoints")
	}

	rtc := h.RTC()
	if rtc == nil {
		return nil, fmt.Errorf("start: %w: rtc", hal.ErrNotImplemented)
	}
	if cfg.LocalOffsetMinutes != nil {
		rtc = hal.WithOffset(rtc, *cfg.LocalOffsetMinutes)
	}

	bootScreen(h, "services")
	faceTask := face.New(h.Display(), h.Input(), faceEP, tickEP.Restrict(kernel.RightSend), logEP.Restrict(kernel.RightSend), face.Options{
		Locations: cfg.Locations,
		Style:     cfg.Style,
		NightRule: cfg.NightRule,
		Observer:  cfg.Observer,
	})
	tasks := []struct {
		name string
		task kernel.Task
	}{
		{"logger", logsvc.New(h.Logger(), logEP.Restrict(kernel.RightRecv))},
		{"tick", ticksvc.New(rtc, tickEP.Restrict(kernel.RightRecv))},
		{"face", faceTask},
	}
	for _, t := range tasks {
		if _, err := k.AddTask(t.task); err != nil {
			return nil, fmt.Errorf("start %s: %w", t.name, err)
		}
	}

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					k.TickTo(seq)
				}
			}()
		}
	}

	return &system{k: k}, nil
}
