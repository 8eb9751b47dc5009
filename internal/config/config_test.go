package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if len(cfg.Zones) != 1 || cfg.Zones[0] != "starting_village" {
		t.Fatalf("expected default zone, got %v", cfg.Zones)
	}
	if cfg.TickIntervalSeconds != 1 {
		t.Fatalf("expected 1s tick interval, got %d", cfg.TickIntervalSeconds)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StreamAddr != ":8081" {
		t.Fatalf("expected default stream addr, got %q", cfg.StreamAddr)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	body := []byte("http_addr: \":9000\"\nzones:\n  - starting_village\n  - quarry\ntick_interval_seconds: 2\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MONSTERFORGE_HTTP_ADDR", ":9100")
	t.Setenv("MONSTERFORGE_ZONES", "quarry, riverside")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9100" {
		t.Fatalf("env should override file, got %q", cfg.HTTPAddr)
	}
	if len(cfg.Zones) != 2 || cfg.Zones[0] != "quarry" || cfg.Zones[1] != "riverside" {
		t.Fatalf("env zone list not applied: %v", cfg.Zones)
	}
	if cfg.TickIntervalSeconds != 2 {
		t.Fatalf("file value lost, got %d", cfg.TickIntervalSeconds)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no zones", func(c *Config) { c.Zones = nil }},
		{"duplicate zone", func(c *Config) { c.Zones = []string{"a", "a"} }},
		{"zero interval", func(c *Config) { c.TickIntervalSeconds = 0 }},
		{"negative snapshot cadence", func(c *Config) { c.SnapshotEveryTicks = -1 }},
		{"snapshots without dir", func(c *Config) { c.SnapshotDir = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaults()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
