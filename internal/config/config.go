package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "SECEVENTS"

type Config struct {
	Source string       `mapstructure:"source"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	Dir    string `mapstructure:"dir"`
	TopN   int    `mapstructure:"top_n"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type RedisConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

var formats = map[string]bool{"text": true, "json": true, "yaml": true}

// SetDefaults registers every key so env overrides work without a file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source", "events.json")
	v.SetDefault("output.format", "text")
	v.SetDefault("output.dir", "")
	v.SetDefault("output.top_n", 8)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("redis.timeout", 5*time.Second)
}

// New returns a viper instance with defaults and SECEVENTS_* env overrides.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file into v and decodes the result.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source is required")
	}
	if !formats[c.Output.Format] {
		return fmt.Errorf("output.format must be one of text, json, yaml; got %q", c.Output.Format)
	}
	if c.Output.TopN <= 0 {
		return fmt.Errorf("output.top_n must be positive, got %d", c.Output.TopN)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}
