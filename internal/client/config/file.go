package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/creditmonitor/internal/flagx"
	"github.com/dmitrijs2005/creditmonitor/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for config file unmarshalling.
// It relies on timex.Duration so files can specify intervals either as
// strings like "5m" or as integer nanoseconds. Only fields present in the
// file override the runtime Config.
type FileConfig struct {
	APIURL              string          `json:"api_url" yaml:"api_url"`
	HealthPath          string          `json:"health_path" yaml:"health_path"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	ProbeTimeout        *timex.Duration `json:"probe_timeout" yaml:"probe_timeout"`
	RequestTimeout      *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	DatabasePath        string          `json:"database_path" yaml:"database_path"`
	ProbeMode           string          `json:"probe_mode" yaml:"probe_mode"`
	GRPCHealthAddr      string          `json:"grpc_health_addr" yaml:"grpc_health_addr"`
	LogLevel            string          `json:"log_level" yaml:"log_level"`
}

// parseFile overlays Config with values loaded from the file named by -c or
// -config. Files ending in .yaml or .yml are read as YAML, anything else as
// JSON. Without the flag nothing is loaded.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc FileConfig) apply(cfg *Config) {
	setString(&cfg.APIURL, fc.APIURL)
	setString(&cfg.HealthPath, fc.HealthPath)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.ProbeMode, fc.ProbeMode)
	setString(&cfg.GRPCHealthAddr, fc.GRPCHealthAddr)
	setString(&cfg.LogLevel, fc.LogLevel)

	if fc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.ProbeTimeout != nil {
		cfg.ProbeTimeout = fc.ProbeTimeout.Duration
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
