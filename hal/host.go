//go:build !tinygo

package hal

import (
	"log/slog"
	"time"
)

// HostConfig sizes the host framebuffer and picks the log sink.
type HostConfig struct {
	Width  int
	Height int
	Log    *slog.Logger
}

const (
	defaultHostWidth  = 240
	defaultHostHeight = 320
)

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	t      *hostTime
	rtc    hostRTC
}

// New returns a host HAL implementation.
func New(cfg HostConfig) HAL {
	return newHost(cfg)
}

func newHost(cfg HostConfig) *hostHAL {
	if cfg.Width <= 0 {
		cfg.Width = defaultHostWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHostHeight
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &hostHAL{
		logger: &hostLogger{log: log},
		fb:     newHostFramebuffer(cfg.Width, cfg.Height),
		kbd:    newHostKeyboard(),
		t:      newHostTime(),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd} }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) RTC() RTC         { return h.rtc }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

// hostLogger forwards OS log lines to slog.
type hostLogger struct {
	log *slog.Logger
}

func (l *hostLogger) WriteLineString(s string) {
	l.log.Info(s, "src", "faceos")
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(string(b))
}

type hostRTC struct{}

func (hostRTC) Now() time.Time { return time.Now() }
