// Package config loads runtime configuration for the Credit Monitor CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: CREDITMONITOR_API_URL sets the backend origin.
//  3. Optional config file selected via flags: -c or -config. Files ending in
//     .yaml/.yml are YAML, anything else is JSON.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend origin URL
//	-i int      online status check interval (seconds)
//	-d string   local database path
//	-m string   probe mode: http or grpc
//	-g string   gRPC health address
//
// # File schema
//
// Intervals use timex.Duration, so values can be either strings like "5m" or
// integer nanoseconds:
//
//	{
//	  "api_url": "https://credits.example.com",
//	  "health_path": "/",
//	  "online_check_interval": "5m",
//	  "probe_timeout": "5s",
//	  "request_timeout": "15s",
//	  "database_path": "creditmonitor.db",
//	  "probe_mode": "http",
//	  "grpc_health_addr": "",
//	  "log_level": "info"
//	}
//
// The same keys are used in YAML.
package config
