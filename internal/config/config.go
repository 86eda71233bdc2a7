// Package config loads the host configuration of the clock face from a YAML
// file, applies TZFACE_* environment overrides and validates the result.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"tzface/faceos/zones"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStyle    = "24h"
	DefaultLogLevel = "info"
	DefaultWidth    = 240
	DefaultHeight   = 320
	DefaultScale    = 2
)

const envPrefix = "TZFACE_"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Location is one city on the face.
type Location struct {
	Name          string `yaml:"name" validate:"required,max=32"`
	OffsetMinutes int    `yaml:"offset_minutes" validate:"utcoffset"`
}

// Night sets the inclusive range of day hours; the rest is night.
type Night struct {
	DawnHour *int `yaml:"dawn_hour" validate:"required,min=0,max=23"`
	DuskHour *int `yaml:"dusk_hour" validate:"required,min=0,max=23"`
}

// Display sizes the host framebuffer and window.
type Display struct {
	Width  int `yaml:"width" validate:"min=32,max=2048"`
	Height int `yaml:"height" validate:"min=32,max=2048"`
	Scale  int `yaml:"scale" validate:"min=1,max=8"`
}

// Config is the host configuration.
type Config struct {
	Locations []Location `yaml:"locations" validate:"len=4,unique=Name,dive"`
	// LocalOffsetMinutes overrides the zone of the system clock; nil uses
	// the system zone.
	LocalOffsetMinutes *int    `yaml:"local_offset_minutes" validate:"omitempty,utcoffset"`
	Style              string  `yaml:"style" validate:"oneof=24h 12h"`
	Night              Night   `yaml:"night"`
	Display            Display `yaml:"display"`
	MetricsAddr        string  `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
	LogLevel           string  `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Load reads path (if not empty), then applies defaults, environment
// overrides and validation.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment variable error: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if len(cfg.Locations) == 0 {
		for _, l := range zones.Defaults() {
			cfg.Locations = append(cfg.Locations, Location{Name: l.Name, OffsetMinutes: l.OffsetMinutes})
		}
	}
	if cfg.Style == "" {
		cfg.Style = DefaultStyle
	}
	if cfg.Night.DawnHour == nil {
		v := zones.DefaultNightRule.DawnHour
		cfg.Night.DawnHour = &v
	}
	if cfg.Night.DuskHour == nil {
		v := zones.DefaultNightRule.DuskHour
		cfg.Night.DuskHour = &v
	}
	if cfg.Display.Width == 0 {
		cfg.Display.Width = DefaultWidth
	}
	if cfg.Display.Height == 0 {
		cfg.Display.Height = DefaultHeight
	}
	if cfg.Display.Scale == 0 {
		cfg.Display.Scale = DefaultScale
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

func applyEnvOverrides(cfg *Config) error {
	if val := os.Getenv(envPrefix + "STYLE"); val != "" {
		cfg.Style = val
	}
	if val := os.Getenv(envPrefix + "LOG_LEVEL"); val != "" {
		cfg.LogLevel = strings.ToLower(val)
	}
	if val := os.Getenv(envPrefix + "METRICS_ADDR"); val != "" {
		cfg.MetricsAddr = val
	}

	ints := []struct {
		name string
		dst  **int
	}{
		{"LOCAL_OFFSET_MINUTES", &cfg.LocalOffsetMinutes},
		{"DAWN_HOUR", &cfg.Night.DawnHour},
		{"DUSK_HOUR", &cfg.Night.DuskHour},
	}
	for _, e := range ints {
		val := os.Getenv(envPrefix + e.name)
		if val == "" {
			continue
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s%s: must be an integer, got %q", envPrefix, e.name, val)
		}
		*e.dst = &i
	}

	dims := []struct {
		name string
		dst  *int
	}{
		{"WIDTH", &cfg.Display.Width},
		{"HEIGHT", &cfg.Display.Height},
		{"SCALE", &cfg.Display.Scale},
	}
	for _, e := range dims {
		val := os.Getenv(envPrefix + e.name)
		if val == "" {
			continue
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s%s: must be an integer, got %q", envPrefix, e.name, val)
		}
		*e.dst = i
	}

	if val := os.Getenv(envPrefix + "LOCATIONS"); val != "" {
		locs, err := parseLocations(val)
		if err != nil {
			return fmt.Errorf("invalid %sLOCATIONS: %w", envPrefix, err)
		}
		cfg.Locations = locs
	}
	return nil
}

// parseLocations reads "Name=offset,Name=offset,...".
func parseLocations(s string) ([]Location, error) {
	var out []Location
	for _, item := range strings.Split(s, ",") {
		name, off, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("entry %q is not name=offset", item)
		}
		minutes, err := strconv.Atoi(strings.TrimSpace(off))
		if err != nil {
			return nil, fmt.Errorf("entry %q: offset must be an integer", item)
		}
		out = append(out, Location{Name: strings.TrimSpace(name), OffsetMinutes: minutes})
	}
	return out, nil
}

// ZoneLocations returns the validated locations in table order.
func (c *Config) ZoneLocations() [zones.Count]zones.Location {
	var out [zones.Count]zones.Location
	for i := 0; i < zones.Count && i < len(c.Locations); i++ {
		out[i] = zones.Location{Name: c.Locations[i].Name, OffsetMinutes: c.Locations[i].OffsetMinutes}
	}
	return out
}

func (c *Config) ZoneStyle() zones.Style {
	if c.Style == "12h" {
		return zones.Style12h
	}
	return zones.Style24h
}

func (c *Config) NightRule() zones.NightRule {
	return zones.NightRule{DawnHour: *c.Night.DawnHour, DuskHour: *c.Night.DuskHour}
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
