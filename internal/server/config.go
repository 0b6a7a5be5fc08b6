package server

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/geomsync/geomsync/internal/core/observability/log"
	"github.com/geomsync/geomsync/internal/core/world"
)

// envPrefix namespaces environment overrides, e.g. GEOMSYNC_HTTP_ADDR.
const envPrefix = "geomsync"

// Config holds server configuration. Values resolve in three layers:
// defaults, then the YAML file, then environment variables.
type Config struct {
	// Network settings. QUICAddr empty disables the QUIC endpoint.
	HTTPAddr string `yaml:"http_addr" envconfig:"HTTP_ADDR"`
	QUICAddr string `yaml:"quic_addr" envconfig:"QUIC_ADDR"`

	// Client limits
	MaxClients     int           `yaml:"max_clients" envconfig:"MAX_CLIENTS"`
	MaxMessageSize int64         `yaml:"max_message_size" envconfig:"MAX_MESSAGE_SIZE"`
	ReadTimeout    time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`

	// Lifecycle
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	StatsInterval   time.Duration `yaml:"stats_interval" envconfig:"STATS_INTERVAL"`

	// World settings
	Shards      int    `yaml:"shards" envconfig:"SHARDS"`
	ScenePath   string `yaml:"scene_path" envconfig:"SCENE_PATH"`
	EventBuffer int    `yaml:"event_buffer" envconfig:"EVENT_BUFFER"`

	// Observability
	LogLevel       string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:        "127.0.0.1:8080",
		QUICAddr:        "",
		MaxClients:      10_000,
		MaxMessageSize:  1024 * 1024, // 1MB
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		StatsInterval:   30 * time.Second,
		Shards:          world.DefaultConfig().Shards,
		EventBuffer:     64,
		LogLevel:        log.LevelInfo.String(),
		MetricsEnabled:  true,
	}
}

// LoadConfig resolves the configuration: defaults, then the YAML file at
// path (skipped when path is empty), then GEOMSYNC_* environment variables.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("%w: http_addr is required", ErrInvalidConfig)
	}
	if c.MaxClients <= 0 {
		return fmt.Errorf("%w: max_clients must be positive", ErrInvalidConfig)
	}
	if c.MaxMessageSize <= 0 {
		return fmt.Errorf("%w: max_message_size must be positive", ErrInvalidConfig)
	}
	return nil
}
