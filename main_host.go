//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tzface/app"
	"tzface/faceos/tasks/face"
	"tzface/hal"
	"tzface/internal/buildinfo"
	"tzface/internal/config"
	"tzface/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  string
		headless    bool
		hz          int
		ticks       uint64
		twelveHour  bool
		scale       int
		snapshot    string
		metricsAddr string
		epaper      bool
		verbose     bool
	)
	flag.StringVar(&configPath, "config", "", "Path to a YAML config file.")
	flag.BoolVar(&headless, "headless", false, "Run without a window.")
	flag.IntVar(&hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.BoolVar(&twelveHour, "12h", false, "Start in 12-hour style.")
	flag.IntVar(&scale, "scale", 0, "Window scale factor (overrides config).")
	flag.StringVar(&snapshot, "snapshot", "", "Write the final frame to this PNG in headless mode.")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (overrides config).")
	flag.BoolVar(&epaper, "epaper", false, "Drive a Waveshare 2.13\" e-paper HAT.")
	flag.BoolVar(&verbose, "verbose", false, "Log at debug level.")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if twelveHour {
		cfg.Style = "12h"
	}
	if scale > 0 {
		cfg.Display.Scale = scale
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}

	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	log.Info("tzface starting", buildinfo.Attr(), "style", cfg.Style)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var observer face.Observer
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		observer = metrics.New(reg)
		srv := metrics.NewServer(cfg.MetricsAddr, reg, log)
		go func() {
			if err := srv.Start(); err != nil {
				log.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("metrics server shutdown", "error", err)
			}
		}()
	}

	locations := cfg.ZoneLocations()
	rule := cfg.NightRule()
	appCfg := app.Config{
		Locations:          &locations,
		LocalOffsetMinutes: cfg.LocalOffsetMinutes,
		Style:              cfg.ZoneStyle(),
		NightRule:          &rule,
		Observer:           observer,
	}
	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, appCfg)
	}
	hostCfg := hal.HostConfig{Width: cfg.Display.Width, Height: cfg.Display.Height, Log: log}

	switch {
	case epaper:
		err = hal.RunEPaper(ctx, newApp, hal.EPaperConfig{Host: hostCfg})
	case headless:
		err = hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{
			Host:     hostCfg,
			Hz:       hz,
			Ticks:    ticks,
			Snapshot: snapshot,
		})
	default:
		err = hal.RunWindow(newApp, hal.WindowConfig{
			Host:  hostCfg,
			Title: "tzface (" + buildinfo.Short() + ")",
			Scale: cfg.Display.Scale,
		})
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

var _ face.Observer = (*metrics.Face)(nil)
