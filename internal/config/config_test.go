package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "events.json", cfg.Source)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "", cfg.Output.Dir)
	assert.Equal(t, 8, cfg.Output.TopN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Development)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Redis.Timeout)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secevents.yaml")
	data := `
source: /data/events.json
output:
  format: YAML
  dir: ./charts
  top_n: 5
log:
  level: debug
server:
  port: 9090
redis:
  timeout: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "/data/events.json", cfg.Source)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, "./charts", cfg.Output.Dir)
	assert.Equal(t, 5, cfg.Output.TopN)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Redis.Timeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SECEVENTS_SOURCE", "redis://localhost:6379/0?key=events")
	t.Setenv("SECEVENTS_OUTPUT_FORMAT", "json")
	t.Setenv("SECEVENTS_SERVER_PORT", "8181")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "redis://localhost:6379/0?key=events", cfg.Source)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 8181, cfg.Server.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Source: "events.json",
			Output: OutputConfig{Format: "text", TopN: 8},
			Server: ServerConfig{Port: 8080},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty source", mutate: func(c *Config) { c.Source = "" }},
		{name: "unknown format", mutate: func(c *Config) { c.Output.Format = "png" }},
		{name: "zero top_n", mutate: func(c *Config) { c.Output.TopN = 0 }},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
