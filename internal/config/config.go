// Package config loads the server configuration: a YAML file with
// defaults for everything, then environment overrides so deployments
// can tweak single values without shipping a file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr   string `yaml:"http_addr"`
	StreamAddr string `yaml:"stream_addr"`

	// DBDSN empty runs the server fully in memory.
	DBDSN         string `yaml:"db_dsn"`
	MigrationsDir string `yaml:"migrations_dir"`

	// DataDir holds the catalog and zone JSON files. Empty uses the
	// built-in defaults.
	DataDir string `yaml:"data_dir"`

	Zones               []string `yaml:"zones"`
	TickIntervalSeconds int      `yaml:"tick_interval_seconds"`

	// Seed 0 means seed from the clock at boot.
	Seed int64 `yaml:"seed"`

	SnapshotEveryTicks int    `yaml:"snapshot_every_ticks"`
	SnapshotDir        string `yaml:"snapshot_dir"`

	NATSHost string `yaml:"nats_host"`
	NATSPort int    `yaml:"nats_port"`
}

func defaults() Config {
	return Config{
		HTTPAddr:            ":8080",
		StreamAddr:          ":8081",
		MigrationsDir:       "./migrations",
		DataDir:             "./data",
		Zones:               []string{"starting_village"},
		TickIntervalSeconds: 1,
		SnapshotEveryTicks:  300,
		SnapshotDir:         "./snapshots",
		NATSHost:            "127.0.0.1",
		NATSPort:            -1,
	}
}

// Load reads the config file (optional), applies env overrides, and
// validates. An empty path with no file present yields the defaults.
func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.HTTPAddr = strEnv("MONSTERFORGE_HTTP_ADDR", c.HTTPAddr)
	c.StreamAddr = strEnv("MONSTERFORGE_STREAM_ADDR", c.StreamAddr)
	c.DBDSN = strEnv("MONSTERFORGE_DB_DSN", c.DBDSN)
	c.MigrationsDir = strEnv("MONSTERFORGE_MIGRATIONS_DIR", c.MigrationsDir)
	c.DataDir = strEnv("MONSTERFORGE_DATA_DIR", c.DataDir)
	if zones := strEnv("MONSTERFORGE_ZONES", ""); zones != "" {
		c.Zones = splitList(zones)
	}
	c.TickIntervalSeconds = intEnv("MONSTERFORGE_TICK_INTERVAL_SECONDS", c.TickIntervalSeconds)
	c.Seed = int64(intEnv("MONSTERFORGE_SEED", int(c.Seed)))
	c.SnapshotEveryTicks = intEnv("MONSTERFORGE_SNAPSHOT_EVERY_TICKS", c.SnapshotEveryTicks)
	c.SnapshotDir = strEnv("MONSTERFORGE_SNAPSHOT_DIR", c.SnapshotDir)
	c.NATSHost = strEnv("MONSTERFORGE_NATS_HOST", c.NATSHost)
	c.NATSPort = intEnv("MONSTERFORGE_NATS_PORT", c.NATSPort)
}

func (c Config) Validate() error {
	el := errors.NewErrorList()
	if strings.TrimSpace(c.HTTPAddr) == "" {
		el.Add(fmt.Errorf("http_addr must not be empty"))
	}
	if len(c.Zones) == 0 {
		el.Add(fmt.Errorf("at least one zone must be configured"))
	}
	seen := map[string]bool{}
	for _, z := range c.Zones {
		if strings.TrimSpace(z) == "" {
			el.Add(fmt.Errorf("zone ids must not be empty"))
			continue
		}
		if seen[z] {
			el.Add(fmt.Errorf("zone %q configured twice", z))
		}
		seen[z] = true
	}
	if c.TickIntervalSeconds <= 0 {
		el.Add(fmt.Errorf("tick_interval_seconds must be positive, got %d", c.TickIntervalSeconds))
	}
	if c.SnapshotEveryTicks < 0 {
		el.Add(fmt.Errorf("snapshot_every_ticks must not be negative, got %d", c.SnapshotEveryTicks))
	}
	if c.SnapshotEveryTicks > 0 && strings.TrimSpace(c.SnapshotDir) == "" {
		el.Add(fmt.Errorf("snapshot_dir required when snapshots are enabled"))
	}
	return el.Err()
}

func strEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
