package config

import "os"

// EnvAPIURL names the variable carrying the backend origin.
const EnvAPIURL = "CREDITMONITOR_API_URL"

// parseEnv overlays Config with values from the environment. A nil getenv
// reads the process environment.
func parseEnv(cfg *Config, getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
}
