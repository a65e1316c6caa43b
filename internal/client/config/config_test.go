package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.APIURL)
	assert.Equal(t, 5*time.Minute, c.OnlineCheckInterval)
	assert.Equal(t, 5*time.Second, c.ProbeTimeout)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, "creditmonitor.db", c.DatabasePath)
	assert.Equal(t, ProbeModeHTTP, c.ProbeMode)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsWithoutSources(t *testing.T) {
	cfg, err := LoadConfig(nil, noEnv)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempFile(t, "cfg.json", `{"api_url":"https://file.example","database_path":"file.db"}`)
	env := func(k string) string {
		if k == EnvAPIURL {
			return "https://env.example"
		}
		return ""
	}

	cfg, err := LoadConfig([]string{"-c", path}, env)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example", cfg.APIURL, "file beats env")
	assert.Equal(t, "file.db", cfg.DatabasePath)

	cfg, err = LoadConfig([]string{"-c", path, "-a", "https://flag.example"}, env)
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example", cfg.APIURL, "flags beat file")

	cfg, err = LoadConfig(nil, env)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example", cfg.APIURL, "env beats defaults")
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig([]string{"-i", "abc"}, noEnv)
	require.Error(t, err)

	_, err = LoadConfig([]string{"-i", "0"}, noEnv)
	require.Error(t, err)

	_, err = LoadConfig([]string{"-m", "grpc"}, noEnv)
	require.ErrorContains(t, err, "grpc health address")

	_, err = LoadConfig([]string{"-m", "icmp"}, noEnv)
	require.ErrorContains(t, err, "unknown probe mode")

	_, err = LoadConfig([]string{"-c", "/does/not/exist.json"}, noEnv)
	require.ErrorContains(t, err, "read config")
}
