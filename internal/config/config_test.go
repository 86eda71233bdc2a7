package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tzface/faceos/zones"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tzface.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.ZoneLocations(); got != zones.Defaults() {
		t.Fatalf("locations = %+v", got)
	}
	if cfg.ZoneStyle() != zones.Style24h {
		t.Fatalf("style = %s", cfg.ZoneStyle())
	}
	if cfg.NightRule() != zones.DefaultNightRule {
		t.Fatalf("night rule = %+v", cfg.NightRule())
	}
	if cfg.LocalOffsetMinutes != nil {
		t.Fatalf("local offset should default to the system zone")
	}
	if cfg.Display.Width != DefaultWidth || cfg.Display.Height != DefaultHeight || cfg.Display.Scale != DefaultScale {
		t.Fatalf("display = %+v", cfg.Display)
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Fatalf("level = %v", cfg.SlogLevel())
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
locations:
  - name: Auckland
    offset_minutes: 780
  - name: Honolulu
    offset_minutes: -600
  - name: Kathmandu
    offset_minutes: 345
  - name: UTC
    offset_minutes: 0
local_offset_minutes: 60
style: 12h
night:
  dawn_hour: 0
  dusk_hour: 23
display:
  width: 122
  height: 250
metrics_addr: ":9090"
log_level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	locs := cfg.ZoneLocations()
	if locs[2].Name != "Kathmandu" || locs[2].OffsetMinutes != 345 {
		t.Fatalf("locs[2] = %+v", locs[2])
	}
	if cfg.LocalOffsetMinutes == nil || *cfg.LocalOffsetMinutes != 60 {
		t.Fatalf("local offset = %v", cfg.LocalOffsetMinutes)
	}
	// Explicit zero must survive defaulting.
	if r := cfg.NightRule(); r.DawnHour != 0 || r.DuskHour != 23 {
		t.Fatalf("night rule = %+v", r)
	}
	if cfg.ZoneStyle() != zones.Style12h {
		t.Fatalf("style = %s", cfg.ZoneStyle())
	}
	if cfg.Display.Scale != DefaultScale {
		t.Fatalf("scale default not applied: %d", cfg.Display.Scale)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("level = %v", cfg.SlogLevel())
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "three locations",
			body: "locations:\n  - {name: A, offset_minutes: 0}\n  - {name: B, offset_minutes: 0}\n  - {name: C, offset_minutes: 0}\n",
			want: "Locations",
		},
		{
			name: "offset out of range",
			body: "locations:\n  - {name: A, offset_minutes: 900}\n  - {name: B, offset_minutes: 0}\n  - {name: C, offset_minutes: 0}\n  - {name: D, offset_minutes: 0}\n",
			want: "Locations[0].OffsetMinutes",
		},
		{
			name: "empty name",
			body: "locations:\n  - {name: A, offset_minutes: 0}\n  - {name: '', offset_minutes: 0}\n  - {name: C, offset_minutes: 0}\n  - {name: D, offset_minutes: 0}\n",
			want: "Locations[1].Name",
		},
		{
			name: "duplicate name",
			body: "locations:\n  - {name: A, offset_minutes: 0}\n  - {name: B, offset_minutes: 60}\n  - {name: A, offset_minutes: 120}\n  - {name: D, offset_minutes: 0}\n",
			want: "Locations",
		},
		{name: "bad style", body: "style: 13h\n", want: "Style"},
		{name: "bad hour", body: "night: {dawn_hour: 24}\n", want: "Night.DawnHour"},
		{name: "dusk before dawn", body: "night: {dawn_hour: 9, dusk_hour: 8}\n", want: "Night.DuskHour"},
		{name: "bad local offset", body: "local_offset_minutes: -800\n", want: "LocalOffsetMinutes"},
		{name: "bad metrics addr", body: "metrics_addr: nonsense\n", want: "MetricsAddr"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %s", err, tc.want)
			}
		})
	}
}

func TestLoadParseError(t *testing.T) {
	_, err := Load(writeConfig(t, "locations: [\n"))
	if err == nil || errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want a parse error", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TZFACE_STYLE", "12h")
	t.Setenv("TZFACE_LOG_LEVEL", "WARN")
	t.Setenv("TZFACE_LOCAL_OFFSET_MINUTES", "-300")
	t.Setenv("TZFACE_DAWN_HOUR", "6")
	t.Setenv("TZFACE_WIDTH", "320")
	t.Setenv("TZFACE_LOCATIONS", "Tokyo=540, Paris=60,Lima=-300,Reykjavik=0")

	cfg, err := Load(writeConfig(t, "style: 24h\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ZoneStyle() != zones.Style12h {
		t.Fatalf("style = %s", cfg.ZoneStyle())
	}
	if cfg.SlogLevel() != slog.LevelWarn {
		t.Fatalf("level = %v", cfg.SlogLevel())
	}
	if *cfg.LocalOffsetMinutes != -300 {
		t.Fatalf("local offset = %d", *cfg.LocalOffsetMinutes)
	}
	if r := cfg.NightRule(); r.DawnHour != 6 || r.DuskHour != zones.DefaultNightRule.DuskHour {
		t.Fatalf("night rule = %+v", r)
	}
	if cfg.Display.Width != 320 {
		t.Fatalf("width = %d", cfg.Display.Width)
	}
	locs := cfg.ZoneLocations()
	if locs[1] != (zones.Location{Name: "Paris", OffsetMinutes: 60}) {
		t.Fatalf("locs[1] = %+v", locs[1])
	}
}

func TestEnvOverrideErrors(t *testing.T) {
	cases := map[string]string{
		"TZFACE_DUSK_HOUR": "late",
		"TZFACE_HEIGHT":    "tall",
		"TZFACE_LOCATIONS": "Tokyo:540",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := Load("")
			if err == nil || !strings.Contains(err.Error(), key) {
				t.Fatalf("err = %v, want mention of %s", err, key)
			}
		})
	}
}
