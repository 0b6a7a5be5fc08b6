package server

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.HTTPAddr != "127.0.0.1:8080" {
		t.Errorf("http addr = %q", cfg.HTTPAddr)
	}
	if cfg.MaxClients != 10_000 {
		t.Errorf("max clients = %d", cfg.MaxClients)
	}
	if cfg.MaxMessageSize != 1<<20 {
		t.Errorf("max message size = %d", cfg.MaxMessageSize)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Errorf("read timeout = %v", cfg.ReadTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlBody := `
http_addr: "0.0.0.0:9090"
quic_addr: "0.0.0.0:9443"
max_clients: 5
log_level: debug
scene_path: scenes/basic.yaml
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	if cfg.HTTPAddr != "0.0.0.0:9090" {
		t.Errorf("http addr = %q", cfg.HTTPAddr)
	}
	if cfg.QUICAddr != "0.0.0.0:9443" {
		t.Errorf("quic addr = %q", cfg.QUICAddr)
	}
	if cfg.MaxClients != 5 {
		t.Errorf("max clients = %d", cfg.MaxClients)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	// Fields the file omits keep their defaults.
	if cfg.MaxMessageSize != 1<<20 {
		t.Errorf("max message size = %d", cfg.MaxMessageSize)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("GEOMSYNC_HTTP_ADDR", "127.0.0.1:7777")
	t.Setenv("GEOMSYNC_MAX_CLIENTS", "42")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	if cfg.HTTPAddr != "127.0.0.1:7777" {
		t.Errorf("http addr = %q", cfg.HTTPAddr)
	}
	if cfg.MaxClients != 42 {
		t.Errorf("max clients = %d", cfg.MaxClients)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty http addr", func(c *Config) { c.HTTPAddr = "" }},
		{"zero max clients", func(c *Config) { c.MaxClients = 0 }},
		{"negative max clients", func(c *Config) { c.MaxClients = -1 }},
		{"zero message size", func(c *Config) { c.MaxMessageSize = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
