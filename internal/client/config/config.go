package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProbeModeHTTP = "http"
	ProbeModeGRPC = "grpc"
)

// Config holds runtime settings for the Credit Monitor CLI.
//
// Fields:
//   - APIURL: backend origin, e.g. "https://credits.example.com".
//   - HealthPath: path probed for liveness; any 2xx means reachable.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - ProbeTimeout / RequestTimeout: per-probe and per-request deadlines.
//   - DatabasePath: local SQLite file holding the session credential.
//   - ProbeMode: "http" (GET HealthPath) or "grpc" (grpc.health.v1).
//   - GRPCHealthAddr: host:port of the gRPC health service in grpc mode.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIURL              string
	HealthPath          string
	OnlineCheckInterval time.Duration
	ProbeTimeout        time.Duration
	RequestTimeout      time.Duration
	DatabasePath        string
	ProbeMode           string
	GRPCHealthAddr      string
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://127.0.0.1:8080"
	c.HealthPath = "/"
	c.OnlineCheckInterval = 5 * time.Minute
	c.ProbeTimeout = 5 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.DatabasePath = "creditmonitor.db"
	c.ProbeMode = ProbeModeHTTP
	c.GRPCHealthAddr = ""
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, a JSON or YAML file (if given with -c/-config) and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	parseEnv(cfg, getenv)

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the combination of settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("config: api url is required")
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("config: online check interval must be positive, got %s", c.OnlineCheckInterval)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("config: database path is required")
	}
	switch c.ProbeMode {
	case ProbeModeHTTP:
	case ProbeModeGRPC:
		if c.GRPCHealthAddr == "" {
			return fmt.Errorf("config: grpc probe mode needs a grpc health address")
		}
	default:
		return fmt.Errorf("config: unknown probe mode %q", c.ProbeMode)
	}
	return nil
}
